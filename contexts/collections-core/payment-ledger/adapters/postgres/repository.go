package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/payment-ledger/domain/errors"
	"kolekta/contexts/collections-core/payment-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetInstallment(ctx context.Context, installmentID string) (ports.InstallmentProjection, error) {
	var row installmentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(installmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.InstallmentProjection{}, domainerrors.ErrInstallmentNotFound
		}
		return ports.InstallmentProjection{}, r.logError("ledger_repo_get_installment_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) GetEvent(ctx context.Context, eventID string) (entities.PaymentEvent, error) {
	var row paymentEventModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(eventID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PaymentEvent{}, domainerrors.ErrEventNotFound
		}
		return entities.PaymentEvent{}, r.logError("ledger_repo_get_event_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return row.toEntity(), nil
}

// PostEvent locks the installment row, applies the balance effect, and
// inserts the event in one transaction. The status recalculation runs in
// the same transaction so a collaborator failure rolls the event back.
func (r *Repository) PostEvent(ctx context.Context, event entities.PaymentEvent, recalc ports.StatusRecalculator) (ports.PostEventResult, error) {
	var result ports.PostEventResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockInstallment(tx, event.InstallmentID)
		if err != nil {
			return err
		}
		updates, projection, err := applyEventUpdates(row, event.Type, event.Amount)
		if err != nil {
			return err
		}
		if err := tx.Model(&installmentModel{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Create(paymentEventModelFromEntity(event)).Error; err != nil {
			return err
		}
		if recalc != nil {
			if err := recalc.Recalculate(ctx, event.InstallmentID); err != nil {
				return err
			}
		}
		result = ports.PostEventResult{
			Event:       event,
			PaidTotal:   projection.PaidAmount,
			Outstanding: projection.Obligation(),
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return ports.PostEventResult{}, err
		}
		return ports.PostEventResult{}, r.logError("ledger_repo_post_failed", err,
			"installment_id", event.InstallmentID,
			"event_id", event.EventID,
		)
	}
	return result, nil
}

// VoidEvent writes the void record, flips the original event, reverses the
// source balances, and applies the optional compensation and transfer in
// one transaction. The unique index on void_events(original_event_id)
// turns a lost race into ErrAlreadyVoided.
func (r *Repository) VoidEvent(ctx context.Context, input ports.VoidEventInput, recalc ports.StatusRecalculator) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&paymentEventModel{}).
			Where("id = ? AND voided = false", input.Original.EventID).
			Update("voided", true)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return domainerrors.ErrAlreadyVoided
		}
		if err := tx.Create(voidEventModelFromEntity(input.Void)).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoided
			}
			return err
		}

		source, err := lockInstallment(tx, input.Original.InstallmentID)
		if err != nil {
			return err
		}
		updates, err := reverseEventUpdates(source, input.Original.Type, input.Original.Amount)
		if err != nil {
			return err
		}
		if err := tx.Model(&installmentModel{}).Where("id = ?", source.ID).Updates(updates).Error; err != nil {
			return err
		}
		if recalc != nil {
			if err := recalc.Recalculate(ctx, source.ID); err != nil {
				return err
			}
		}

		if input.Compensation == nil {
			return nil
		}
		destination, err := lockInstallment(tx, input.Compensation.InstallmentID)
		if err != nil {
			return err
		}
		compUpdates, _, err := applyEventUpdates(destination, input.Compensation.Type, input.Compensation.Amount)
		if err != nil {
			if errors.Is(err, domainerrors.ErrOverpaymentRejected) {
				return domainerrors.ErrTransferFailed
			}
			return err
		}
		if err := tx.Model(&installmentModel{}).Where("id = ?", destination.ID).Updates(compUpdates).Error; err != nil {
			return err
		}
		if err := tx.Create(paymentEventModelFromEntity(*input.Compensation)).Error; err != nil {
			return err
		}
		if input.Transfer != nil {
			if err := tx.Create(providerTransferModelFromEntity(*input.Transfer)).Error; err != nil {
				return err
			}
		}
		if recalc != nil {
			if err := recalc.Recalculate(ctx, destination.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		return r.logError("ledger_repo_void_failed", err,
			"event_id", input.Original.EventID,
			"void_id", input.Void.VoidID,
		)
	}
	return nil
}

func (r *Repository) Outstanding(ctx context.Context, installmentID string) (int64, error) {
	projection, err := r.GetInstallment(ctx, installmentID)
	if err != nil {
		return 0, err
	}
	return projection.Obligation(), nil
}

func (r *Repository) ListEvents(ctx context.Context, installmentID string) ([]entities.PaymentEvent, error) {
	installmentID = strings.TrimSpace(installmentID)
	if _, err := r.GetInstallment(ctx, installmentID); err != nil {
		return nil, err
	}
	var rows []paymentEventModel
	err := r.db.WithContext(ctx).
		Where("installment_id = ?", installmentID).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_failed", err,
			"installment_id", installmentID,
		)
	}
	events := make([]entities.PaymentEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEntity())
	}
	return events, nil
}

func lockInstallment(tx *gorm.DB, installmentID string) (installmentModel, error) {
	var row installmentModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", strings.TrimSpace(installmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return installmentModel{}, domainerrors.ErrInstallmentNotFound
		}
		return installmentModel{}, err
	}
	return row, nil
}

func applyEventUpdates(row installmentModel, eventType entities.EventType, amount int64) (map[string]any, ports.InstallmentProjection, error) {
	projection := row.toProjection()
	switch eventType {
	case entities.EventTypePayment:
		if amount > projection.Obligation() {
			return nil, ports.InstallmentProjection{}, domainerrors.ErrOverpaymentRejected
		}
		projection.PaidAmount += amount
		return map[string]any{"paid_amount": projection.PaidAmount}, projection, nil
	case entities.EventTypeLateFee:
		projection.LateFeeAccrued += amount
		return map[string]any{"late_fee_accrued": projection.LateFeeAccrued}, projection, nil
	case entities.EventTypeWallet:
		projection.WalletBalance += amount
		return map[string]any{"wallet_balance": projection.WalletBalance}, projection, nil
	default:
		return nil, ports.InstallmentProjection{}, domainerrors.ErrUnsupportedEventType
	}
}

func reverseEventUpdates(row installmentModel, eventType entities.EventType, amount int64) (map[string]any, error) {
	switch eventType {
	case entities.EventTypePayment:
		return map[string]any{"paid_amount": row.PaidAmount - amount}, nil
	case entities.EventTypeLateFee:
		return map[string]any{"late_fee_accrued": row.LateFeeAccrued - amount}, nil
	case entities.EventTypeWallet:
		return map[string]any{"wallet_balance": row.WalletBalance - amount}, nil
	default:
		return nil, domainerrors.ErrUnsupportedEventType
	}
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collections-core/payment-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("payment ledger repository call failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isDomainError(err error) bool {
	return errors.Is(err, domainerrors.ErrInstallmentNotFound) ||
		errors.Is(err, domainerrors.ErrEventNotFound) ||
		errors.Is(err, domainerrors.ErrAlreadyVoided) ||
		errors.Is(err, domainerrors.ErrOverpaymentRejected) ||
		errors.Is(err, domainerrors.ErrTransferFailed) ||
		errors.Is(err, domainerrors.ErrUnsupportedEventType)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
