package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"desguace/internal/database/dbtest"
	"desguace/internal/logger"
	"desguace/internal/models"
	"desguace/internal/services/settings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *settings.Store, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	store := settings.NewStore(db)
	return NewService(store, logger.New("error"), opts...), store, db
}

func withRemote(remote RemoteAPI) ServiceOption {
	return WithAdapterOptions(WithClientFactory(readyFactory(remote)))
}

func jsonResponse(t *testing.T, status int, v interface{}) *Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return &Response{StatusCode: status, Header: http.Header{}, Body: body}
}

var shopConfig = Config{
	URL:            "https://shop.test",
	ConsumerKey:    "ck_1",
	ConsumerSecret: "cs_1",
	Version:        "wc/v3",
}

func TestService_LoadConfig_Defaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	cfg, err := svc.LoadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Config{URL: "", ConsumerKey: "", ConsumerSecret: "", Version: "wc/v3"}, cfg)
}

func TestService_SaveThenLoad_RoundTrip(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveConfig(ctx, UpdateFrom(shopConfig)))

	cfg, err := svc.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, shopConfig, cfg)

	var rows []models.Setting
	require.NoError(t, db.Order("key").Find(&rows).Error)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, settings.CategoryWooCommerce, row.Category)
		assert.Equal(t, models.SettingTypeText, row.Type)
	}
	assert.ElementsMatch(t,
		[]string{KeyURL, KeyConsumerKey, KeyConsumerSecret, KeyVersion},
		[]string{rows[0].Key, rows[1].Key, rows[2].Key, rows[3].Key},
	)
}

func TestService_SaveConfig_SkipsNilFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveConfig(ctx, UpdateFrom(shopConfig)))

	newURL := "https://tienda.test"
	require.NoError(t, svc.SaveConfig(ctx, ConfigUpdate{URL: &newURL}))

	cfg, err := svc.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://tienda.test", cfg.URL)
	assert.Equal(t, "ck_1", cfg.ConsumerKey)
	assert.Equal(t, "cs_1", cfg.ConsumerSecret)
	assert.Equal(t, "wc/v3", cfg.Version)

	require.NoError(t, svc.SaveConfig(ctx, ConfigUpdate{}))
}

func TestService_LoadConfig_IgnoresUnknownKeys(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "sync_enabled", settings.Boolean(true), settings.CategoryWooCommerce, ""))
	require.NoError(t, store.Upsert(ctx, "currency", settings.Text("EUR"), settings.CategoryGeneral, ""))

	cfg, err := svc.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

type failingStore struct{}

func (failingStore) GetByCategory(ctx context.Context, category string) (map[string]settings.Entry, error) {
	return nil, errors.New("database is locked")
}

func (failingStore) Upsert(ctx context.Context, key string, value settings.Value, category, description string) error {
	return errors.New("database is locked")
}

func TestService_BuildClient_WrapsErrors(t *testing.T) {
	svc := NewService(failingStore{}, logger.New("error"))
	_, err := svc.BuildClient(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load woocommerce config")
	assert.Contains(t, err.Error(), "database is locked")

	svc, _, _ = newTestService(t)
	_, err = svc.BuildClient(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build woocommerce client")
	assert.ErrorIs(t, err, ErrInit)
}

func TestService_SaveConfig_StoreError(t *testing.T) {
	svc := NewService(failingStore{}, logger.New("error"))
	err := svc.SaveConfig(context.Background(), UpdateFrom(shopConfig))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestService_BuildClient_MapsFieldNames(t *testing.T) {
	var got Options
	factory := func(ctx context.Context, opts Options) (RemoteAPI, error) {
		got = opts
		return new(mockRemote), nil
	}
	svc, _, _ := newTestService(t, WithAdapterOptions(WithClientFactory(factory)))
	require.NoError(t, svc.SaveConfig(context.Background(), UpdateFrom(shopConfig)))

	_, err := svc.BuildClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test", got.URL)
	assert.Equal(t, "ck_1", got.ConsumerKey)
	assert.Equal(t, "cs_1", got.ConsumerSecret)
	assert.Equal(t, "wc/v3", got.Version)
}

func TestService_TestConnection_MockedClient(t *testing.T) {
	remote := new(mockRemote)
	remote.On("Get", mock.Anything, "products", url.Values{"per_page": {"1"}}).
		Return(jsonResponse(t, http.StatusOK, []Product{}), nil).Once()

	svc, _, _ := newTestService(t, withRemote(remote))

	cfg := shopConfig
	assert.True(t, svc.TestConnection(context.Background(), &cfg))
	remote.AssertExpectations(t)
}

func TestService_TestConnection_RemoteFailure(t *testing.T) {
	remote := new(mockRemote)
	remote.On("Get", mock.Anything, "products", mock.Anything).
		Return(nil, &APIError{StatusCode: http.StatusUnauthorized, Code: "woocommerce_rest_cannot_view"})

	svc, _, _ := newTestService(t, withRemote(remote))

	cfg := shopConfig
	assert.False(t, svc.TestConnection(context.Background(), &cfg))
}

func TestService_TestConnection_UnreachableURL(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	unreachable := server.URL
	server.Close()

	svc, _, _ := newTestService(t)

	cfg := Config{URL: unreachable, ConsumerKey: "ck_1", ConsumerSecret: "cs_1", Version: "wc/v3"}
	assert.NotPanics(t, func() {
		assert.False(t, svc.TestConnection(context.Background(), &cfg))
	})
}

func TestService_TestConnection_SuppliedConfigIsNotPersisted(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	invalid := Config{URL: "https://shop.test"}
	assert.False(t, svc.TestConnection(ctx, &invalid))

	entries, err := store.GetByCategory(ctx, settings.CategoryWooCommerce)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_TestConnection_UsesPersistedConfig(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.TestConnection(ctx, nil))

	cfg := Config{URL: server.URL, ConsumerKey: "ck_1", ConsumerSecret: "cs_1", Version: "wc/v3"}
	require.NoError(t, svc.SaveConfig(ctx, UpdateFrom(cfg)))

	assert.True(t, svc.TestConnection(ctx, nil))
	assert.Equal(t, 1, calls)
}

func TestService_ListProducts(t *testing.T) {
	remote := new(mockRemote)
	resp := jsonResponse(t, http.StatusOK, []Product{{ID: 1, Name: "Faro"}, {ID: 2, Name: "Retrovisor"}})
	resp.Header.Set("X-WP-Total", "12")
	remote.On("Get", mock.Anything, "products", url.Values{"page": {"2"}, "per_page": {"2"}}).Return(resp, nil)

	svc, _, _ := newTestService(t, withRemote(remote))

	products, total, err := svc.ListProducts(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 12, total)
}

func TestService_SyncPart_CreatesThenUpdates(t *testing.T) {
	remote := new(mockRemote)
	remote.On("Post", mock.Anything, "products", mock.AnythingOfType("*woocommerce.Product"), url.Values(nil)).
		Return(jsonResponse(t, http.StatusCreated, Product{ID: 501, Name: "Faro"}), nil).Once()
	remote.On("Put", mock.Anything, "products/501", mock.AnythingOfType("*woocommerce.Product"), url.Values(nil)).
		Return(jsonResponse(t, http.StatusOK, Product{ID: 501, Name: "Faro"}), nil).Once()

	svc, _, _ := newTestService(t, withRemote(remote))
	ctx := context.Background()

	part := &models.Part{ID: "part-1", Name: "Faro", Price: decimal.NewFromInt(40), Stock: 1, Status: models.PartStatusAvailable}

	require.NoError(t, svc.SyncPart(ctx, part))
	require.NotNil(t, part.WooProductID)
	assert.Equal(t, int64(501), *part.WooProductID)
	assert.NotNil(t, part.SyncedAt)

	require.NoError(t, svc.SyncPart(ctx, part))
	remote.AssertExpectations(t)
}

func TestService_SyncPart_RemoteErrorPropagates(t *testing.T) {
	remoteErr := &APIError{StatusCode: http.StatusBadRequest, Code: "product_invalid_sku", Message: "Invalid or duplicated SKU."}
	remote := new(mockRemote)
	remote.On("Post", mock.Anything, "products", mock.Anything, mock.Anything).Return(nil, remoteErr)

	svc, _, _ := newTestService(t, withRemote(remote))
	part := &models.Part{ID: "part-1", Name: "Faro"}

	err := svc.SyncPart(context.Background(), part)
	assert.Same(t, remoteErr, err)
	assert.Nil(t, part.WooProductID)
}

func TestService_UnpublishPart(t *testing.T) {
	remote := new(mockRemote)
	remote.On("Delete", mock.Anything, "products/501", url.Values{"force": {"true"}}).
		Return(nil, &APIError{StatusCode: http.StatusNotFound, Code: "woocommerce_rest_product_invalid_id"}).Once()

	svc, _, _ := newTestService(t, withRemote(remote))

	id := int64(501)
	part := &models.Part{ID: "part-1", WooProductID: &id}
	require.NoError(t, svc.UnpublishPart(context.Background(), part))
	assert.Nil(t, part.WooProductID)

	require.NoError(t, svc.UnpublishPart(context.Background(), part))
	remote.AssertExpectations(t)
}
