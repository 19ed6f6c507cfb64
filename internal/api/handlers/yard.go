package handlers

import (
	"errors"
	"net/http"

	"desguace/internal/logger"
	"desguace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type YardHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewYardHandler(db *gorm.DB, logger *logger.Logger) *YardHandler {
	return &YardHandler{
		db:     db,
		logger: logger,
	}
}

type yardResponse struct {
	models.Yard
	Occupied int64 `json:"occupied"`
}

// List returns every yard with the number of vehicles it holds that have
// not been scrapped yet.
func (h *YardHandler) List(c *gin.Context) {
	var yards []models.Yard

	query := h.db.Order("name")
	if c.Query("active") == "true" {
		query = query.Where(map[string]interface{}{"active": true})
	}
	if err := query.Find(&yards).Error; err != nil {
		h.logger.Error("Failed to fetch yards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch yards"})
		return
	}

	var counts []struct {
		YardID string
		Total  int64
	}
	err := h.db.Model(&models.Vehicle{}).
		Select("yard_id, COUNT(*) AS total").
		Where("yard_id IS NOT NULL AND status <> ?", models.VehicleStatusScrapped).
		Group("yard_id").
		Scan(&counts).Error
	if err != nil {
		h.logger.Error("Failed to count vehicles per yard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch yards"})
		return
	}
	occupied := make(map[string]int64, len(counts))
	for _, row := range counts {
		occupied[row.YardID] = row.Total
	}

	data := make([]yardResponse, 0, len(yards))
	for _, yard := range yards {
		data = append(data, yardResponse{Yard: yard, Occupied: occupied[yard.ID]})
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *YardHandler) Get(c *gin.Context) {
	var yard models.Yard
	if err := h.db.First(&yard, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Yard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch yard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": yard})
}

func (h *YardHandler) Create(c *gin.Context) {
	yard := models.Yard{Active: true}
	if err := c.ShouldBindJSON(&yard); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	yard.ID = ""

	if err := h.db.Create(&yard).Error; err != nil {
		h.logger.Error("Failed to create yard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create yard"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": yard})
}

func (h *YardHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var yard models.Yard
	if err := h.db.First(&yard, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Yard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch yard"})
		return
	}

	if err := c.ShouldBindJSON(&yard); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	yard.ID = id

	if err := h.db.Save(&yard).Error; err != nil {
		h.logger.Error("Failed to update yard %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update yard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": yard})
}

func (h *YardHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Yard{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		h.logger.Error("Failed to delete yard: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete yard"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Yard not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
