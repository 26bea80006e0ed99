package ingest

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tokopintar/catalog-backend/pkg/db/models"
)

// IntentRepository persists upload intents in Postgres.
type IntentRepository struct {
	db *gorm.DB
}

// NewIntentRepository builds a repository tied to the provided GORM DB.
func NewIntentRepository(db *gorm.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *IntentRepository) WithTx(tx *gorm.DB) *IntentRepository {
	return &IntentRepository{db: tx}
}

// RecordPending writes a pending intent for a freshly uploaded file.
func (r *IntentRepository) RecordPending(ctx context.Context, fileID, url, fileName string) error {
	intent := models.UploadIntent{
		FileID:   fileID,
		URL:      url,
		FileName: fileName,
		Status:   models.UploadIntentPending,
	}
	return r.db.WithContext(ctx).Create(&intent).Error
}

// MarkCommitted flips the intents for the given file IDs to committed.
func (r *IntentRepository) MarkCommitted(ctx context.Context, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.UploadIntent{}).
		Where("file_id IN ?", fileIDs).
		Update("status", models.UploadIntentCommitted).Error
}

// ListPendingBefore returns pending intents created before the cutoff, oldest first.
func (r *IntentRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.UploadIntent, error) {
	var intents []models.UploadIntent
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.UploadIntentPending, cutoff).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&intents).Error; err != nil {
		return nil, err
	}
	return intents, nil
}

// Delete removes the intent row for the given file ID.
func (r *IntentRepository) Delete(ctx context.Context, fileID string) error {
	return r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&models.UploadIntent{}).Error
}
