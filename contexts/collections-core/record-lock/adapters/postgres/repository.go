package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kolekta/contexts/collections-core/record-lock/domain/entities"
	domainerrors "kolekta/contexts/collections-core/record-lock/domain/errors"
	"kolekta/contexts/collections-core/record-lock/ports"

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
		return ports.InstallmentProjection{}, r.logError("record_lock_repo_get_installment_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	return row.toProjection(), nil
}

// Acquire runs the quota check and the conditional insert inside one
// transaction. The partial unique index on lock_records(installment_id)
// WHERE released_at IS NULL backstops concurrent acquirers that raced past
// the row lock.
func (r *Repository) Acquire(ctx context.Context, lock entities.LockRecord, audit entities.LockAudit, maxActivePerAgent int) (ports.AcquireResult, error) {
	result := ports.AcquireResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing lockRecordModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("installment_id = ? AND released_at IS NULL", lock.InstallmentID).
			First(&existing).
			Error
		switch {
		case err == nil:
			if existing.AgentID == lock.AgentID {
				result = ports.AcquireResult{Lock: existing.toEntity(), AlreadyHeld: true}
				return nil
			}
			return domainerrors.ErrAlreadyLockedByOther
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if maxActivePerAgent > 0 {
			var held int64
			if err := tx.Model(&lockRecordModel{}).
				Where("agent_id = ? AND released_at IS NULL", lock.AgentID).
				Count(&held).
				Error; err != nil {
				return err
			}
			if held >= int64(maxActivePerAgent) {
				return domainerrors.ErrAgentQuotaExceeded
			}
		}

		if err := tx.Create(lockRecordModelFromEntity(lock)).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyLockedByOther
			}
			return err
		}
		if err := tx.Create(lockAuditModelFromEntity(audit)).Error; err != nil {
			return err
		}
		result = ports.AcquireResult{Lock: lock}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return ports.AcquireResult{}, err
		}
		return ports.AcquireResult{}, r.logError("record_lock_repo_acquire_failed", err,
			"installment_id", lock.InstallmentID,
			"agent_id", lock.AgentID,
		)
	}
	return result, nil
}

func (r *Repository) GetActiveLock(ctx context.Context, installmentID string) (entities.LockRecord, bool, error) {
	var row lockRecordModel
	err := r.db.WithContext(ctx).
		Where("installment_id = ? AND released_at IS NULL", strings.TrimSpace(installmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.LockRecord{}, false, nil
		}
		return entities.LockRecord{}, false, r.logError("record_lock_repo_get_active_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountActiveByAgent(ctx context.Context, agentID string) (int, error) {
	var held int64
	err := r.db.WithContext(ctx).Model(&lockRecordModel{}).
		Where("agent_id = ? AND released_at IS NULL", strings.TrimSpace(agentID)).
		Count(&held).
		Error
	if err != nil {
		return 0, r.logError("record_lock_repo_count_active_failed", err,
			"agent_id", strings.TrimSpace(agentID),
		)
	}
	return int(held), nil
}

func (r *Repository) Release(ctx context.Context, input ports.ReleaseInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&lockRecordModel{}).
			Where("installment_id = ? AND released_at IS NULL", input.InstallmentID).
			Update("released_at", input.ReleasedAt.UTC())
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrNotLocked
		}
		return tx.Create(lockAuditModelFromEntity(input.Audit)).Error
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		return r.logError("record_lock_repo_release_failed", err,
			"installment_id", input.InstallmentID,
		)
	}
	return nil
}

func (r *Repository) ListAudits(ctx context.Context, installmentID string) ([]entities.LockAudit, error) {
	var rows []lockAuditModel
	err := r.db.WithContext(ctx).
		Where("installment_id = ?", strings.TrimSpace(installmentID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("record_lock_repo_list_audits_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	audits := make([]entities.LockAudit, 0, len(rows))
	for _, row := range rows {
		audits = append(audits, row.toEntity())
	}
	return audits, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collections-core/record-lock",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("record lock repository call failed", fields...)
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
	return errors.Is(err, domainerrors.ErrAlreadyLockedByOther) ||
		errors.Is(err, domainerrors.ErrAgentQuotaExceeded) ||
		errors.Is(err, domainerrors.ErrNotLocked)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
