package handlers

import (
	"context"
	"net/http"
	"testing"

	"desguace/internal/database/dbtest"
	"desguace/internal/models"
	"desguace/internal/services/settings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsRouter(t *testing.T) (*gin.Engine, *settings.Store) {
	store := settings.NewStore(dbtest.New(t))
	_, err := store.Seed(context.Background(), settings.DefaultSettings())
	require.NoError(t, err)

	h := NewSettingsHandler(store, testLogger())
	r := gin.New()
	r.GET("/settings", h.List)
	r.PUT("/settings/:key", h.Update)
	return r, store
}

func TestSettingsHandler_ListByCategory(t *testing.T) {
	r, store := settingsRouter(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "consumer_secret", settings.Text("cs_live_0123456789abcd"), settings.CategoryWooCommerce, ""))

	w := doRequest(t, r, http.MethodGet, "/settings?category=woocommerce", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data []settingResponse
	decodeData(t, w, &data)
	require.Len(t, data, 6)

	keys := make([]string, 0, len(data))
	byKey := make(map[string]settingResponse, len(data))
	for _, s := range data {
		keys = append(keys, s.Key)
		byKey[s.Key] = s
	}
	assert.Equal(t, []string{"consumer_key", "consumer_secret", "sync_enabled", "url", "version", "webhook_secret"}, keys)
	assert.Equal(t, "****abcd", byKey["consumer_secret"].Value)
	assert.Equal(t, false, byKey["sync_enabled"].Value)
	assert.Equal(t, "boolean", byKey["sync_enabled"].Type)
	assert.Equal(t, "wc/v3", byKey["version"].Value)
}

func TestSettingsHandler_ListUnknownCategory(t *testing.T) {
	r, _ := settingsRouter(t)

	w := doRequest(t, r, http.MethodGet, "/settings?category=nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestSettingsHandler_UpdateInfersType(t *testing.T) {
	r, store := settingsRouter(t)
	ctx := context.Background()

	w := doRequest(t, r, http.MethodPut, "/settings/sync_enabled", map[string]interface{}{"value": true})
	require.Equal(t, http.StatusOK, w.Code)

	entry, err := store.Get(ctx, "sync_enabled")
	require.NoError(t, err)
	assert.Equal(t, settings.CategoryWooCommerce, entry.Category)
	enabled, err := entry.Value.AsBool()
	require.NoError(t, err)
	assert.True(t, enabled)

	w = doRequest(t, r, http.MethodPut, "/settings/vat_rate", map[string]interface{}{"value": 10})
	require.Equal(t, http.StatusOK, w.Code)
	entry, err = store.Get(ctx, "vat_rate")
	require.NoError(t, err)
	assert.Equal(t, models.SettingTypeNumber, entry.Type())

	w = doRequest(t, r, http.MethodPut, "/settings/opening_hours", map[string]interface{}{"value": map[string]string{"mon": "8-14"}})
	require.Equal(t, http.StatusOK, w.Code)
	entry, err = store.Get(ctx, "opening_hours")
	require.NoError(t, err)
	assert.Equal(t, settings.CategoryGeneral, entry.Category)
	assert.Equal(t, models.SettingTypeJSON, entry.Type())
}

func TestSettingsHandler_UpdateRequiresValue(t *testing.T) {
	r, _ := settingsRouter(t)

	w := doRequest(t, r, http.MethodPut, "/settings/currency", map[string]interface{}{"category": "general"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandler_UpdateKeepsSecretOnMaskedValue(t *testing.T) {
	r, store := settingsRouter(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "consumer_secret", settings.Text("cs_live_0123456789abcd"), settings.CategoryWooCommerce, ""))

	w := doRequest(t, r, http.MethodPut, "/settings/consumer_secret", map[string]interface{}{"value": "****abcd"})
	require.Equal(t, http.StatusOK, w.Code)

	var data settingResponse
	decodeData(t, w, &data)
	assert.Equal(t, "****abcd", data.Value)

	entry, err := store.Get(ctx, "consumer_secret")
	require.NoError(t, err)
	assert.Equal(t, "cs_live_0123456789abcd", entry.Value.String())

	w = doRequest(t, r, http.MethodPut, "/settings/webhook_secret", map[string]interface{}{"value": "****"})
	require.Equal(t, http.StatusOK, w.Code)
	entry, err = store.Get(ctx, "webhook_secret")
	require.NoError(t, err)
	assert.False(t, isMasked(entry.Value.String()))

	w = doRequest(t, r, http.MethodPut, "/settings/consumer_secret", map[string]interface{}{"value": "cs_live_rotated9999"})
	require.Equal(t, http.StatusOK, w.Code)
	entry, err = store.Get(ctx, "consumer_secret")
	require.NoError(t, err)
	assert.Equal(t, "cs_live_rotated9999", entry.Value.String())
}
