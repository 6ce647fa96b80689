package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	"kolekta/contexts/collections-core/ptp-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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
		return ports.InstallmentProjection{}, r.logError("ptp_repo_get_installment_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}

	projection := row.toProjection()
	// Oldest unpaid due date across the account anchors the ceiling.
	var oldest struct {
		DueDate time.Time
	}
	err = r.db.WithContext(ctx).Model(&installmentModel{}).
		Select("MIN(due_date) AS due_date").
		Where("account_id = ? AND paid_amount < due_amount", row.AccountID).
		Scan(&oldest).
		Error
	if err != nil {
		return ports.InstallmentProjection{}, r.logError("ptp_repo_oldest_unpaid_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	if !oldest.DueDate.IsZero() {
		projection.OldestUnpaidDue = oldest.DueDate
	}
	return projection, nil
}

// CreatePromise inserts the promise, mirrors the ptp fields onto the
// installment, and appends the audit note in one transaction. The partial
// unique index on promises(installment_id) WHERE status IN
// ('OPEN','PARTIAL') turns a lost race into ErrActivePTPExists.
func (r *Repository) CreatePromise(ctx context.Context, input ports.CreatePromiseInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(promiseModelFromEntity(input.Promise)).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrActivePTPExists
			}
			return err
		}
		update := tx.Model(&installmentModel{}).
			Where("id = ?", input.Promise.InstallmentID).
			Updates(map[string]any{
				"ptp_date":   input.Promise.PromisedDate,
				"ptp_amount": input.Promise.Amount,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrInstallmentNotFound
		}
		return tx.Create(auditNoteModelFromPort(input.Note)).Error
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		return r.logError("ptp_repo_create_failed", err,
			"installment_id", input.Promise.InstallmentID,
			"promise_id", input.Promise.PromiseID,
		)
	}
	return nil
}

func (r *Repository) GetPromise(ctx context.Context, promiseID string) (entities.PromiseToPay, error) {
	var row promiseModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(promiseID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PromiseToPay{}, domainerrors.ErrPromiseNotFound
		}
		return entities.PromiseToPay{}, r.logError("ptp_repo_get_failed", err,
			"promise_id", strings.TrimSpace(promiseID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetActivePromise(ctx context.Context, installmentID string) (entities.PromiseToPay, bool, error) {
	var row promiseModel
	err := r.db.WithContext(ctx).
		Where("installment_id = ? AND status IN ?", strings.TrimSpace(installmentID), activeStatuses()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PromiseToPay{}, false, nil
		}
		return entities.PromiseToPay{}, false, r.logError("ptp_repo_get_active_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ResolvePromise(ctx context.Context, input ports.ResolvePromiseInput) error {
	updates := map[string]any{
		"status":       string(input.Status),
		"paid_towards": input.PaidTowards,
	}
	if input.Status == entities.PromiseStatusKept || input.Status == entities.PromiseStatusBroken {
		updates["resolved_at"] = input.ResolvedAt.UTC()
	}
	update := r.db.WithContext(ctx).Model(&promiseModel{}).
		Where("id = ? AND status IN ?", strings.TrimSpace(input.PromiseID), activeStatuses()).
		Updates(updates)
	if update.Error != nil {
		return r.logError("ptp_repo_resolve_failed", update.Error,
			"promise_id", strings.TrimSpace(input.PromiseID),
		)
	}
	if update.RowsAffected == 0 {
		if _, err := r.GetPromise(ctx, input.PromiseID); err != nil {
			return err
		}
		return domainerrors.ErrPromiseAlreadyResolved
	}
	return nil
}

func (r *Repository) ListActiveDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]entities.PromiseToPay, error) {
	if limit <= 0 {
		limit = 500
	}
	var rows []promiseModel
	err := r.db.WithContext(ctx).
		Where("status IN ? AND promised_date < ?", activeStatuses(), cutoff.UTC()).
		Order("promised_date ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ptp_repo_list_overdue_failed", err)
	}
	promises := make([]entities.PromiseToPay, 0, len(rows))
	for _, row := range rows {
		promises = append(promises, row.toEntity())
	}
	return promises, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collections-core/ptp-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("ptp repository call failed", fields...)
	return err
}

func activeStatuses() []string {
	return []string{
		string(entities.PromiseStatusOpen),
		string(entities.PromiseStatusPartial),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isDomainError(err error) bool {
	return errors.Is(err, domainerrors.ErrActivePTPExists) ||
		errors.Is(err, domainerrors.ErrInstallmentNotFound) ||
		errors.Is(err, domainerrors.ErrPromiseAlreadyResolved)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
