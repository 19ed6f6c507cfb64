package woocommerce

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"desguace/internal/logger"
	"desguace/internal/models"
	woo "desguace/internal/services/woocommerce"

	"gorm.io/gorm"
)

const pageSize = 50

var ErrUnhandledTopic = errors.New("unhandled webhook topic")

// ProductSource pages through the shop catalog.
type ProductSource interface {
	ListProducts(ctx context.Context, page, perPage int) ([]woo.Product, int, error)
}

// Connector keeps the part to product links in step with the shop.
type Connector struct {
	db     *gorm.DB
	shop   ProductSource
	logger *logger.Logger
}

func New(db *gorm.DB, shop ProductSource, logger *logger.Logger) *Connector {
	return &Connector{
		db:     db,
		shop:   shop,
		logger: logger,
	}
}

type SyncResult struct {
	Scanned   int `json:"scanned"`
	Linked    int `json:"linked"`
	Unmatched int `json:"unmatched"`
}

// SyncProducts walks every shop product and links those carrying a part id
// meta entry to their part.
func (wc *Connector) SyncProducts(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	for page := 1; ; page++ {
		products, total, err := wc.shop.ListProducts(ctx, page, pageSize)
		if err != nil {
			return result, fmt.Errorf("list shop products (page %d): %w", page, err)
		}

		for i := range products {
			result.Scanned++
			linked, err := wc.link(ctx, &products[i])
			if err != nil {
				return result, err
			}
			if linked {
				result.Linked++
			} else {
				result.Unmatched++
			}
		}

		if len(products) < pageSize || (total > 0 && page*pageSize >= total) {
			break
		}
	}

	wc.logger.Info("WooCommerce reconcile: %d products scanned, %d linked, %d unmatched", result.Scanned, result.Linked, result.Unmatched)
	return result, nil
}

// HandleWebhook applies a product webhook delivered by the shop.
func (wc *Connector) HandleWebhook(ctx context.Context, topic string, payload []byte) error {
	var product woo.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	switch topic {
	case "product.created", "product.updated", "product.restored":
		linked, err := wc.link(ctx, &product)
		if err != nil {
			return err
		}
		if !linked {
			wc.logger.Debug("Shop product %d has no matching part", product.ID)
		}
		return nil
	case "product.deleted":
		return wc.unlink(ctx, product.ID)
	default:
		return fmt.Errorf("%w: %s", ErrUnhandledTopic, topic)
	}
}

func (wc *Connector) link(ctx context.Context, product *woo.Product) (bool, error) {
	partID := partIDFromMeta(product.MetaData)
	if partID == "" || product.ID == 0 {
		return false, nil
	}

	result := wc.db.WithContext(ctx).
		Model(&models.Part{}).
		Where(map[string]interface{}{"id": partID}).
		UpdateColumn("woo_product_id", product.ID)
	if result.Error != nil {
		return false, fmt.Errorf("link part %s to product %d: %w", partID, product.ID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (wc *Connector) unlink(ctx context.Context, productID int64) error {
	result := wc.db.WithContext(ctx).
		Model(&models.Part{}).
		Where(map[string]interface{}{"woo_product_id": productID}).
		UpdateColumns(map[string]interface{}{"woo_product_id": nil, "synced_at": nil})
	if result.Error != nil {
		return fmt.Errorf("unlink product %d: %w", productID, result.Error)
	}
	if result.RowsAffected > 0 {
		wc.logger.Info("Shop product %d deleted, part unlinked", productID)
	}
	return nil
}

func partIDFromMeta(meta []woo.MetaData) string {
	for _, m := range meta {
		if m.Key != woo.MetaPartID {
			continue
		}
		if id, ok := m.Value.(string); ok {
			return id
		}
	}
	return ""
}

// VerifySignature checks the X-WC-Webhook-Signature header: the base64
// HMAC-SHA256 of the raw body keyed with the webhook secret.
func VerifySignature(payload []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
