package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"desguace/internal/logger"
	"desguace/internal/services/settings"
	"desguace/internal/services/woocommerce"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	store  *settings.Store
	logger *logger.Logger
}

func NewSettingsHandler(store *settings.Store, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		store:  store,
		logger: logger,
	}
}

type settingResponse struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Description *string     `json:"description,omitempty"`
}

func isSecretSetting(category, key string) bool {
	return category == settings.CategoryWooCommerce && (key == woocommerce.KeyConsumerSecret || key == webhookSecretKey)
}

func toSettingResponse(e settings.Entry) settingResponse {
	resp := settingResponse{
		Key:         e.Key,
		Value:       e.Value.Interface(),
		Type:        string(e.Type()),
		Category:    e.Category,
		Description: e.Description,
	}
	if isSecretSetting(e.Category, e.Key) {
		resp.Value = maskSecret(e.Value.String())
	}
	return resp
}

// List returns every setting, or only those of ?category=, ordered by key.
func (h *SettingsHandler) List(c *gin.Context) {
	var entries []settings.Entry

	if category := c.Query("category"); category != "" {
		byKey, err := h.store.GetByCategory(c.Request.Context(), category)
		if err != nil {
			h.logger.Error("Failed to fetch settings: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		for _, entry := range byKey {
			entries = append(entries, entry)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	} else {
		all, err := h.store.List(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to fetch settings: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		entries = all
	}

	data := make([]settingResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, toSettingResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

type updateSettingRequest struct {
	Value       json.RawMessage `json:"value"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// Update writes one setting. The type tag follows the JSON type of value;
// without a category the stored one is kept, or general for a new key.
func (h *SettingsHandler) Update(c *gin.Context) {
	key := c.Param("key")

	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}

	var raw interface{}
	if err := json.Unmarshal(req.Value, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, err := settings.Infer(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	category := req.Category
	if category == "" {
		existing, err := h.store.Get(ctx, key)
		switch {
		case errors.Is(err, settings.ErrNotFound):
			category = settings.CategoryGeneral
		case err != nil:
			h.logger.Error("Failed to fetch setting %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
			return
		default:
			category = existing.Category
		}
	}

	// A masked secret is the value List handed out; writing it back would
	// replace the real secret with the mask.
	if text, err := value.AsText(); err == nil && isSecretSetting(category, key) && isMasked(text) {
		h.logger.Debug("Ignoring masked value for setting %s", key)
	} else if err := h.store.Upsert(ctx, key, value, category, req.Description); err != nil {
		h.logger.Error("Failed to update setting %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
		return
	}

	entry, err := h.store.Get(ctx, key)
	if err != nil {
		h.logger.Error("Failed to fetch setting %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toSettingResponse(entry)})
}
