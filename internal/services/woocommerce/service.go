package woocommerce

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"desguace/internal/logger"
	"desguace/internal/models"
	"desguace/internal/services/settings"
)

// Keys of the woocommerce configuration category.
const (
	KeyURL            = "url"
	KeyConsumerKey    = "consumer_key"
	KeyConsumerSecret = "consumer_secret"
	KeyVersion        = "version"
)

// ConfigStore is the part of settings.Store the service needs.
type ConfigStore interface {
	GetByCategory(ctx context.Context, category string) (map[string]settings.Entry, error)
	Upsert(ctx context.Context, key string, value settings.Value, category, description string) error
}

type Service struct {
	store          ConfigStore
	logger         *logger.Logger
	transformer    *Transformer
	timeout        time.Duration
	adapterOptions []AdapterOption
}

type ServiceOption func(*Service)

// WithHTTPTimeout sets the per-request timeout of every client built.
func WithHTTPTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = d
	}
}

func WithAdapterOptions(opts ...AdapterOption) ServiceOption {
	return func(s *Service) {
		s.adapterOptions = append(s.adapterOptions, opts...)
	}
}

func NewService(store ConfigStore, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		logger:      log.Named("woocommerce"),
		transformer: NewTransformer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adapterOptions = append([]AdapterOption{WithAdapterLogger(s.logger)}, s.adapterOptions...)
	return s
}

// LoadConfig reads the woocommerce category. Missing keys keep their
// defaults and unknown keys are ignored.
func (s *Service) LoadConfig(ctx context.Context) (Config, error) {
	entries, err := s.store.GetByCategory(ctx, settings.CategoryWooCommerce)
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	for key, entry := range entries {
		value := entry.Value.String()
		switch key {
		case KeyURL:
			cfg.URL = value
		case KeyConsumerKey:
			cfg.ConsumerKey = value
		case KeyConsumerSecret:
			cfg.ConsumerSecret = value
		case KeyVersion:
			cfg.Version = value
		}
	}
	return cfg, nil
}

// SaveConfig upserts every non-nil field as a text setting. Fields left nil
// keep their stored value.
func (s *Service) SaveConfig(ctx context.Context, update ConfigUpdate) error {
	fields := []struct {
		key   string
		value *string
	}{
		{KeyURL, update.URL},
		{KeyConsumerKey, update.ConsumerKey},
		{KeyConsumerSecret, update.ConsumerSecret},
		{KeyVersion, update.Version},
	}

	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := s.store.Upsert(ctx, f.key, settings.Text(*f.value), settings.CategoryWooCommerce, ""); err != nil {
			return fmt.Errorf("save woocommerce %s: %w", f.key, err)
		}
	}
	return nil
}

// BuildClient returns an adapter for the persisted configuration. The
// adapter is meant for a single operation and is not cached.
func (s *Service) BuildClient(ctx context.Context) (*Adapter, error) {
	cfg, err := s.LoadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load woocommerce config: %w", err)
	}

	adapter, err := s.newAdapter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build woocommerce client: %w", err)
	}
	return adapter, nil
}

func (s *Service) newAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	opts := cfg.Options()
	opts.Timeout = s.timeout
	return NewAdapter(ctx, opts, s.adapterOptions...)
}

// TestConnection checks the store with a one-product listing. A supplied
// config is tested as is, without reading or writing the store. Every
// failure, whatever its cause, reports false.
func (s *Service) TestConnection(ctx context.Context, cfg *Config) bool {
	var (
		adapter *Adapter
		err     error
	)
	if cfg != nil {
		adapter, err = s.newAdapter(ctx, *cfg)
	} else {
		adapter, err = s.BuildClient(ctx)
	}
	if err != nil {
		s.logger.Warn("WooCommerce connection test failed: %v", err)
		return false
	}

	if _, err := adapter.Get(ctx, "products", url.Values{"per_page": {"1"}}); err != nil {
		s.logger.Warn("WooCommerce connection test failed: %v", err)
		return false
	}
	return true
}

// ListProducts returns one page of the store's products and the total
// number of products.
func (s *Service) ListProducts(ctx context.Context, page, perPage int) ([]Product, int, error) {
	adapter, err := s.BuildClient(ctx)
	if err != nil {
		return nil, 0, err
	}

	resp, err := adapter.Get(ctx, "products", url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	})
	if err != nil {
		return nil, 0, err
	}

	var products []Product
	if err := resp.Decode(&products); err != nil {
		return nil, 0, err
	}
	return products, resp.Total(), nil
}

// SyncPart creates or updates the shop product of a part and records the
// product id and sync time on the part. Persisting the part is up to the
// caller.
func (s *Service) SyncPart(ctx context.Context, part *models.Part) error {
	adapter, err := s.BuildClient(ctx)
	if err != nil {
		return err
	}

	payload := s.transformer.TransformPart(part)

	var resp *Response
	if part.WooProductID == nil {
		resp, err = adapter.Post(ctx, "products", payload, nil)
	} else {
		resp, err = adapter.Put(ctx, productEndpoint(*part.WooProductID), payload, nil)
	}
	if err != nil {
		return err
	}

	var product Product
	if err := resp.Decode(&product); err != nil {
		return err
	}
	if product.ID == 0 {
		return errors.New("woocommerce: response carries no product id")
	}

	now := time.Now()
	part.WooProductID = &product.ID
	part.SyncedAt = &now
	s.logger.Info("Part %s synced to WooCommerce product %d", part.ID, product.ID)
	return nil
}

// UnpublishPart permanently deletes the shop product of a part. Parts that
// were never synced are left alone.
func (s *Service) UnpublishPart(ctx context.Context, part *models.Part) error {
	if part.WooProductID == nil {
		return nil
	}

	adapter, err := s.BuildClient(ctx)
	if err != nil {
		return err
	}

	if _, err := adapter.Delete(ctx, productEndpoint(*part.WooProductID), url.Values{"force": {"true"}}); err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
			return err
		}
	}

	s.logger.Info("Part %s removed from WooCommerce product %d", part.ID, *part.WooProductID)
	part.WooProductID = nil
	part.SyncedAt = nil
	return nil
}

func productEndpoint(id int64) string {
	return "products/" + strconv.FormatInt(id, 10)
}
