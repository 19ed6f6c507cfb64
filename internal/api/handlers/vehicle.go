package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"desguace/internal/logger"
	"desguace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VehicleHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewVehicleHandler(db *gorm.DB, logger *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		db:     db,
		logger: logger,
	}
}

func (h *VehicleHandler) List(c *gin.Context) {
	var vehicles []models.Vehicle
	page := parsePagination(c)

	query := h.db.Model(&models.Vehicle{})
	for _, filter := range []string{"status", "yard_id", "client_id"} {
		if value := c.Query(filter); value != "" {
			query = query.Where(map[string]interface{}{filter: value})
		}
	}
	if search := strings.ToUpper(c.Query("search")); search != "" {
		query = query.Where("UPPER(plate) LIKE ? OR UPPER(vin) LIKE ?", likePattern(search), likePattern(search))
	}

	if err := query.Count(&page.Total).Error; err != nil {
		h.logger.Error("Failed to count vehicles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicles"})
		return
	}
	if err := query.Order("created_at DESC").Offset(page.offset()).Limit(page.Limit).Find(&vehicles).Error; err != nil {
		h.logger.Error("Failed to fetch vehicles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles, "pagination": page})
}

func (h *VehicleHandler) Get(c *gin.Context) {
	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle.ID = ""
	vehicle.Plate = normalizePlate(vehicle.Plate)
	if vehicle.ReceivedAt == nil {
		now := time.Now()
		vehicle.ReceivedAt = &now
	}

	taken, err := h.plateTaken(vehicle.Plate, "")
	if err != nil {
		h.logger.Error("Failed to check plate %s: %v", vehicle.Plate, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "A vehicle with this plate already exists"})
		return
	}

	if err := h.db.Create(&vehicle).Error; err != nil {
		h.logger.Error("Failed to create vehicle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": vehicle})
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle"})
		return
	}

	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle.ID = id
	vehicle.Plate = normalizePlate(vehicle.Plate)

	taken, err := h.plateTaken(vehicle.Plate, id)
	if err != nil {
		h.logger.Error("Failed to check plate %s: %v", vehicle.Plate, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "A vehicle with this plate already exists"})
		return
	}

	if err := h.db.Save(&vehicle).Error; err != nil {
		h.logger.Error("Failed to update vehicle %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

// plateTaken reports whether a vehicle other than exceptID carries plate.
func (h *VehicleHandler) plateTaken(plate, exceptID string) (bool, error) {
	query := h.db.Model(&models.Vehicle{}).Where(map[string]interface{}{"plate": plate})
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var parts int64
	if err := h.db.Model(&models.Part{}).Where(map[string]interface{}{"vehicle_id": id}).Count(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}
	if parts > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Vehicle still has parts"})
		return
	}

	result := h.db.Delete(&models.Vehicle{}, "id = ?", id)
	if result.Error != nil {
		h.logger.Error("Failed to delete vehicle: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Parts lists the parts recovered from a vehicle.
func (h *VehicleHandler) Parts(c *gin.Context) {
	var parts []models.Part
	err := h.db.Where(map[string]interface{}{"vehicle_id": c.Param("id")}).Order("name").Find(&parts).Error
	if err != nil {
		h.logger.Error("Failed to fetch vehicle parts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": parts})
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}
