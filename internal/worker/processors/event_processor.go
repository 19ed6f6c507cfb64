package processors

import (
	"context"
	"errors"
	"fmt"

	"desguace/internal/events"
	"desguace/internal/logger"
	"desguace/internal/models"
	"desguace/internal/services/settings"
	"desguace/internal/worker/processors/export"
	"desguace/internal/worker/processors/validation"

	"gorm.io/gorm"
)

// SyncEnabledKey is the boolean setting that turns automatic publishing on.
const SyncEnabledKey = "sync_enabled"

type SettingReader interface {
	Get(ctx context.Context, key string) (settings.Entry, error)
}

type EventProcessor struct {
	db        *gorm.DB
	settings  SettingReader
	logger    *logger.Logger
	validator *validation.Validator
	exporter  *export.Exporter
}

func NewEventProcessor(db *gorm.DB, store SettingReader, syncer export.PartSyncer, log *logger.Logger) *EventProcessor {
	return &EventProcessor{
		db:        db,
		settings:  store,
		logger:    log,
		validator: validation.New(log),
		exporter:  export.New(db, syncer, log),
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	ep.logger.Debug("Processing event: %+v", event)

	enabled, err := ep.syncEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		ep.logger.Debug("Shop sync disabled, skipping %s for part %s", event.Type, event.PartID)
		return nil
	}

	switch event.Type {
	case events.PartCreated, events.PartUpdated:
		return ep.publish(ctx, event.PartID)
	case events.PartDeleted:
		if event.WooProductID == nil {
			return nil
		}
		return ep.exporter.Remove(ctx, &models.Part{ID: event.PartID, WooProductID: event.WooProductID})
	default:
		return fmt.Errorf("unsupported event type %q", event.Type)
	}
}

func (ep *EventProcessor) publish(ctx context.Context, partID string) error {
	var part models.Part
	err := ep.db.WithContext(ctx).Where(map[string]interface{}{"id": partID}).Take(&part).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ep.logger.Warn("Part %s no longer exists, skipping", partID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load part %s: %w", partID, err)
	}

	if err := ep.validator.ValidatePart(&part); err != nil {
		return err
	}
	if err := ep.exporter.Export(ctx, &part); err != nil {
		return err
	}

	ep.logger.Info("Part %s published", part.ID)
	return nil
}

func (ep *EventProcessor) syncEnabled(ctx context.Context) (bool, error) {
	entry, err := ep.settings.Get(ctx, SyncEnabledKey)
	if errors.Is(err, settings.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", SyncEnabledKey, err)
	}

	enabled, err := entry.Value.AsBool()
	if err != nil {
		ep.logger.Warn("Setting %s is not a boolean, treating it as disabled", SyncEnabledKey)
		return false, nil
	}
	return enabled, nil
}
