package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/tokopintar/catalog-backend/pkg/db/models"
	"github.com/tokopintar/catalog-backend/pkg/imagekit"
	"github.com/tokopintar/catalog-backend/pkg/logger"
)

const (
	defaultReconcileRetention = time.Hour
	defaultReconcileBatch     = 100
)

// UploadReconcileJobParams configure the orphan upload sweep.
type UploadReconcileJobParams struct {
	Logger    *logger.Logger
	Intents   reconcileIntentRepo
	Deleter   imagekit.Deleter
	Retention time.Duration
	BatchSize int
}

type reconcileIntentRepo interface {
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.UploadIntent, error)
	Delete(ctx context.Context, fileID string) error
}

// NewUploadReconcileJob builds the job that deletes hosted images whose
// uploads never got a product row.
func NewUploadReconcileJob(params UploadReconcileJobParams) (*uploadReconcileJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Intents == nil {
		return nil, fmt.Errorf("intent repository required")
	}
	if params.Deleter == nil {
		return nil, fmt.Errorf("media deleter required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultReconcileRetention
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReconcileBatch
	}
	return &uploadReconcileJob{
		logg:      params.Logger,
		intents:   params.Intents,
		deleter:   params.Deleter,
		retention: retention,
		batchSize: batch,
		now:       time.Now,
	}, nil
}

type uploadReconcileJob struct {
	logg      *logger.Logger
	intents   reconcileIntentRepo
	deleter   imagekit.Deleter
	retention time.Duration
	batchSize int
	now       func() time.Time
}

func (j *uploadReconcileJob) Name() string { return "upload-reconcile" }

// Run deletes hosted files for intents that stayed pending past the retention
// window. A failing element is kept for the next cycle instead of aborting
// the sweep.
func (j *uploadReconcileJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)

	rows, err := j.intents.ListPendingBefore(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("query pending uploads: %w", err)
	}

	var errs []error
	deleted := 0
	for _, intent := range rows {
		if err := j.deleter.Delete(ctx, intent.FileID); err != nil {
			errs = append(errs, fmt.Errorf("delete hosted file %s: %w", intent.FileID, err))
			continue
		}
		if err := j.intents.Delete(ctx, intent.FileID); err != nil {
			errs = append(errs, fmt.Errorf("delete intent %s: %w", intent.FileID, err))
			continue
		}
		deleted++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":     cutoff,
		"candidates": len(rows),
		"deleted":    deleted,
		"failed":     len(errs),
	})
	j.logg.Info(logCtx, "orphan upload sweep complete")

	return multierr.Combine(errs...)
}
