package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "kolekta/contexts/collections-core/collection-workflow/domain/errors"
	"kolekta/contexts/collections-core/collection-workflow/ports"

	"github.com/google/uuid"
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

func (r *Repository) GetInstallment(ctx context.Context, installmentID string) (ports.InstallmentSnapshot, error) {
	var row installmentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(installmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.InstallmentSnapshot{}, domainerrors.ErrInstallmentNotFound
		}
		return ports.InstallmentSnapshot{}, r.logError("workflow_repo_get_installment_failed", err,
			"installment_id", strings.TrimSpace(installmentID),
		)
	}
	return row.toSnapshot(), nil
}

func (r *Repository) AppendNote(ctx context.Context, note ports.AuditNote) error {
	if err := r.db.WithContext(ctx).Create(auditNoteModelFromPort(note)).Error; err != nil {
		return r.logError("workflow_repo_append_note_failed", err,
			"installment_id", note.InstallmentID,
			"note_id", note.NoteID,
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collections-core/collection-workflow",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("workflow repository call failed", fields...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
