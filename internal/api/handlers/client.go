package handlers

import (
	"errors"
	"net/http"
	"strings"

	"desguace/internal/logger"
	"desguace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClientHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewClientHandler(db *gorm.DB, logger *logger.Logger) *ClientHandler {
	return &ClientHandler{
		db:     db,
		logger: logger,
	}
}

func (h *ClientHandler) List(c *gin.Context) {
	var clients []models.Client
	page := parsePagination(c)

	query := h.db.Model(&models.Client{})
	if search := strings.ToLower(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(tax_id) LIKE ?", likePattern(search), likePattern(search))
	}

	if err := query.Count(&page.Total).Error; err != nil {
		h.logger.Error("Failed to count clients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}
	if err := query.Order("name").Offset(page.offset()).Limit(page.Limit).Find(&clients).Error; err != nil {
		h.logger.Error("Failed to fetch clients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clients, "pagination": page})
}

func (h *ClientHandler) Get(c *gin.Context) {
	var client models.Client
	if err := h.db.First(&client, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (h *ClientHandler) Create(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client.ID = ""

	if err := h.db.Create(&client).Error; err != nil {
		h.logger.Error("Failed to create client: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": client})
}

func (h *ClientHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := h.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client.ID = id

	if err := h.db.Save(&client).Error; err != nil {
		h.logger.Error("Failed to update client %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (h *ClientHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Client{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		h.logger.Error("Failed to delete client: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
