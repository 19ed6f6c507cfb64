package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"desguace/internal/logger"
	"desguace/internal/services/woocommerce"

	"github.com/gin-gonic/gin"
)

// WooCommerceService is the part of woocommerce.Service used over HTTP.
type WooCommerceService interface {
	LoadConfig(ctx context.Context) (woocommerce.Config, error)
	SaveConfig(ctx context.Context, update woocommerce.ConfigUpdate) error
	TestConnection(ctx context.Context, cfg *woocommerce.Config) bool
	ListProducts(ctx context.Context, page, perPage int) ([]woocommerce.Product, int, error)
}

type WooCommerceHandler struct {
	service WooCommerceService
	logger  *logger.Logger
}

func NewWooCommerceHandler(service WooCommerceService, logger *logger.Logger) *WooCommerceHandler {
	return &WooCommerceHandler{
		service: service,
		logger:  logger,
	}
}

const secretMask = "****"

// maskSecret keeps the last four characters of long secrets.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return secretMask
	}
	return secretMask + secret[len(secret)-4:]
}

func isMasked(secret string) bool {
	return strings.HasPrefix(secret, secretMask)
}

func (h *WooCommerceHandler) GetConfig(c *gin.Context) {
	cfg, err := h.service.LoadConfig(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load WooCommerce config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load WooCommerce configuration"})
		return
	}

	cfg.ConsumerSecret = maskSecret(cfg.ConsumerSecret)
	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// UpdateConfig saves the fields present in the body. A masked secret, as
// returned by GetConfig, leaves the stored secret unchanged.
func (h *WooCommerceHandler) UpdateConfig(c *gin.Context) {
	var update woocommerce.ConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if update.Version != nil && !woocommerce.IsSupportedVersion(*update.Version) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported WooCommerce API version"})
		return
	}
	if update.ConsumerSecret != nil && isMasked(*update.ConsumerSecret) {
		update.ConsumerSecret = nil
	}

	ctx := c.Request.Context()
	if err := h.service.SaveConfig(ctx, update); err != nil {
		h.logger.Error("Failed to save WooCommerce config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save WooCommerce configuration"})
		return
	}

	cfg, err := h.service.LoadConfig(ctx)
	if err != nil {
		h.logger.Error("Failed to load WooCommerce config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load WooCommerce configuration"})
		return
	}
	cfg.ConsumerSecret = maskSecret(cfg.ConsumerSecret)
	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// Test checks the store with the body's configuration, or the saved one when
// the body is empty. A masked or empty secret is taken from the saved
// configuration. Nothing is persisted.
func (h *WooCommerceHandler) Test(c *gin.Context) {
	ctx := c.Request.Context()

	// an empty body, sized or chunked, tests the stored configuration
	var cfg woocommerce.Config
	if err := c.ShouldBindJSON(&cfg); errors.Is(err, io.EOF) {
		c.JSON(http.StatusOK, gin.H{"connected": h.service.TestConnection(ctx, nil)})
		return
	} else if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cfg.ConsumerSecret == "" || isMasked(cfg.ConsumerSecret) {
		stored, err := h.service.LoadConfig(ctx)
		if err != nil {
			h.logger.Error("Failed to load WooCommerce config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load WooCommerce configuration"})
			return
		}
		cfg.ConsumerSecret = stored.ConsumerSecret
	}
	if cfg.Version == "" {
		cfg.Version = woocommerce.DefaultVersion
	}

	c.JSON(http.StatusOK, gin.H{"connected": h.service.TestConnection(ctx, &cfg)})
}

func (h *WooCommerceHandler) Products(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > maxPageSize {
		perPage = 20
	}

	products, total, err := h.service.ListProducts(c.Request.Context(), page, perPage)
	if err != nil {
		h.logger.Error("Failed to list WooCommerce products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch WooCommerce products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": pagination{
			Page:  page,
			Limit: perPage,
			Total: int64(total),
		},
	})
}
