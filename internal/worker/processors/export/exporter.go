package export

import (
	"context"
	"fmt"

	"desguace/internal/logger"
	"desguace/internal/models"

	"gorm.io/gorm"
)

// PartSyncer publishes parts to the shop. woocommerce.Service implements it.
type PartSyncer interface {
	SyncPart(ctx context.Context, part *models.Part) error
	UnpublishPart(ctx context.Context, part *models.Part) error
}

type Exporter struct {
	db     *gorm.DB
	syncer PartSyncer
	logger *logger.Logger
}

func New(db *gorm.DB, syncer PartSyncer, log *logger.Logger) *Exporter {
	return &Exporter{db: db, syncer: syncer, logger: log}
}

// Export publishes the part and stores the resulting product id.
func (e *Exporter) Export(ctx context.Context, part *models.Part) error {
	if err := e.syncer.SyncPart(ctx, part); err != nil {
		return fmt.Errorf("sync part %s: %w", part.ID, err)
	}
	return e.saveSyncState(ctx, part)
}

// Remove takes the part out of the shop. Rows that no longer exist are not
// touched.
func (e *Exporter) Remove(ctx context.Context, part *models.Part) error {
	if err := e.syncer.UnpublishPart(ctx, part); err != nil {
		return fmt.Errorf("unpublish part %s: %w", part.ID, err)
	}
	return e.saveSyncState(ctx, part)
}

func (e *Exporter) saveSyncState(ctx context.Context, part *models.Part) error {
	err := e.db.WithContext(ctx).
		Model(&models.Part{}).
		Where(map[string]interface{}{"id": part.ID}).
		UpdateColumns(map[string]interface{}{
			"woo_product_id": part.WooProductID,
			"synced_at":      part.SyncedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("save sync state of part %s: %w", part.ID, err)
	}
	e.logger.Debug("Saved sync state of part %s", part.ID)
	return nil
}
