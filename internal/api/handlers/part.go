package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"desguace/internal/events"
	"desguace/internal/logger"
	"desguace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PartSyncer publishes parts to the online shop.
type PartSyncer interface {
	SyncPart(ctx context.Context, part *models.Part) error
	UnpublishPart(ctx context.Context, part *models.Part) error
}

type PartHandler struct {
	db        *gorm.DB
	logger    *logger.Logger
	publisher events.Publisher
	syncer    PartSyncer
}

func NewPartHandler(db *gorm.DB, logger *logger.Logger, publisher events.Publisher, syncer PartSyncer) *PartHandler {
	return &PartHandler{
		db:        db,
		logger:    logger,
		publisher: publisher,
		syncer:    syncer,
	}
}

func (h *PartHandler) List(c *gin.Context) {
	var parts []models.Part
	page := parsePagination(c)

	query := h.db.Model(&models.Part{})
	for _, filter := range []string{"status", "vehicle_id", "condition"} {
		if value := c.Query(filter); value != "" {
			query = query.Where(map[string]interface{}{filter: value})
		}
	}
	if search := strings.ToLower(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(reference) LIKE ?", likePattern(search), likePattern(search))
	}
	switch c.Query("synced") {
	case "true":
		query = query.Where("woo_product_id IS NOT NULL")
	case "false":
		query = query.Where("woo_product_id IS NULL")
	}

	if err := query.Count(&page.Total).Error; err != nil {
		h.logger.Error("Failed to count parts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}
	if err := query.Order("created_at DESC").Offset(page.offset()).Limit(page.Limit).Find(&parts).Error; err != nil {
		h.logger.Error("Failed to fetch parts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": parts, "pagination": page})
}

func (h *PartHandler) Get(c *gin.Context) {
	part, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": part})
}

func (h *PartHandler) Create(c *gin.Context) {
	var part models.Part
	if err := c.ShouldBindJSON(&part); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	part.ID = ""
	part.WooProductID = nil
	part.SyncedAt = nil

	if part.VehicleID != nil {
		var vehicles int64
		if err := h.db.Model(&models.Vehicle{}).Where(map[string]interface{}{"id": *part.VehicleID}).Count(&vehicles).Error; err != nil {
			h.logger.Error("Failed to check vehicle %s: %v", *part.VehicleID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create part"})
			return
		}
		if vehicles == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle not found"})
			return
		}
	}

	if err := h.db.Create(&part).Error; err != nil {
		h.logger.Error("Failed to create part: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create part"})
		return
	}

	h.publish(c.Request.Context(), events.NewPartEvent(events.PartCreated, part.ID))
	c.JSON(http.StatusCreated, gin.H{"data": part})
}

func (h *PartHandler) Update(c *gin.Context) {
	part, ok := h.load(c)
	if !ok {
		return
	}
	id, wooProductID, syncedAt := part.ID, part.WooProductID, part.SyncedAt

	if err := c.ShouldBindJSON(part); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// sync state is owned by the shop sync
	part.ID, part.WooProductID, part.SyncedAt = id, wooProductID, syncedAt

	if err := h.db.Save(part).Error; err != nil {
		h.logger.Error("Failed to update part %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part"})
		return
	}

	h.publish(c.Request.Context(), events.NewPartEvent(events.PartUpdated, part.ID))
	c.JSON(http.StatusOK, gin.H{"data": part})
}

func (h *PartHandler) Delete(c *gin.Context) {
	part, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Delete(&models.Part{}, "id = ?", part.ID).Error; err != nil {
		h.logger.Error("Failed to delete part: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete part"})
		return
	}

	event := events.NewPartEvent(events.PartDeleted, part.ID)
	event.WooProductID = part.WooProductID
	h.publish(c.Request.Context(), event)
	c.Status(http.StatusNoContent)
}

// Sync publishes the part to the shop right away, whatever the automatic
// sync setting says.
func (h *PartHandler) Sync(c *gin.Context) {
	part, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.syncer.SyncPart(c.Request.Context(), part); err != nil {
		h.logger.Error("Failed to sync part %s: %v", part.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync part with WooCommerce"})
		return
	}
	if !h.saveSyncState(c, part) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": part})
}

// Unsync removes the part from the shop and clears its sync state.
func (h *PartHandler) Unsync(c *gin.Context) {
	part, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.syncer.UnpublishPart(c.Request.Context(), part); err != nil {
		h.logger.Error("Failed to unpublish part %s: %v", part.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove part from WooCommerce"})
		return
	}
	if !h.saveSyncState(c, part) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": part})
}

func (h *PartHandler) load(c *gin.Context) (*models.Part, bool) {
	var part models.Part
	if err := h.db.First(&part, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch part"})
		return nil, false
	}
	return &part, true
}

func (h *PartHandler) saveSyncState(c *gin.Context, part *models.Part) bool {
	err := h.db.Model(&models.Part{}).
		Where(map[string]interface{}{"id": part.ID}).
		UpdateColumns(map[string]interface{}{
			"woo_product_id": part.WooProductID,
			"synced_at":      part.SyncedAt,
		}).Error
	if err != nil {
		h.logger.Error("Failed to save sync state of part %s: %v", part.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part"})
		return false
	}
	return true
}

// publish logs failures; the request itself has already succeeded.
func (h *PartHandler) publish(ctx context.Context, event events.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish %s for part %s: %v", event.Type, event.PartID, err)
	}
}
