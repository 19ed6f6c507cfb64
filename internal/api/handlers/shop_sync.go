package handlers

import (
	"context"
	"errors"
	"net/http"

	wcconnector "desguace/internal/connectors/woocommerce"
	"desguace/internal/logger"
	"desguace/internal/services/settings"

	"github.com/gin-gonic/gin"
)

const webhookSecretKey = "webhook_secret"

type SettingReader interface {
	Get(ctx context.Context, key string) (settings.Entry, error)
}

// ShopSyncHandler receives WooCommerce webhooks and reconciles part links.
type ShopSyncHandler struct {
	connector *wcconnector.Connector
	settings  SettingReader
	logger    *logger.Logger
}

func NewShopSyncHandler(connector *wcconnector.Connector, store SettingReader, logger *logger.Logger) *ShopSyncHandler {
	return &ShopSyncHandler{
		connector: connector,
		settings:  store,
		logger:    logger,
	}
}

func (h *ShopSyncHandler) Reconcile(c *gin.Context) {
	result, err := h.connector.SyncProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to reconcile WooCommerce products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile WooCommerce products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Webhook handles WooCommerce product webhooks
func (h *ShopSyncHandler) Webhook(c *gin.Context) {
	topic := c.GetHeader("X-WC-Webhook-Topic")
	signature := c.GetHeader("X-WC-Webhook-Signature")

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	// the ping sent when a webhook is created carries no topic
	if topic == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received"})
		return
	}

	ctx := c.Request.Context()
	secret := ""
	entry, err := h.settings.Get(ctx, webhookSecretKey)
	switch {
	case err == nil:
		secret = entry.Value.String()
	case !errors.Is(err, settings.ErrNotFound):
		h.logger.Error("Failed to read webhook secret: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}
	if !wcconnector.VerifySignature(payload, signature, secret) {
		h.logger.Warn("Rejected WooCommerce webhook %s: bad signature", topic)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	if err := h.connector.HandleWebhook(ctx, topic, payload); err != nil {
		if errors.Is(err, wcconnector.ErrUnhandledTopic) {
			h.logger.Debug("Unhandled webhook topic: %s", topic)
			c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
			return
		}
		h.logger.Error("Failed to process webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed successfully"})
}
