package woocommerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported REST API versions.
const (
	VersionV1 = "wc/v1"
	VersionV2 = "wc/v2"
	VersionV3 = "wc/v3"

	DefaultVersion = VersionV3
)

var SupportedVersions = []string{VersionV1, VersionV2, VersionV3}

var (
	ErrInvalidConfig      = errors.New("woocommerce: invalid configuration")
	ErrUnsupportedVersion = errors.New("woocommerce: unsupported API version")
)

// Config is the WooCommerce connection as persisted in the configuration
// table (category "woocommerce").
type Config struct {
	URL            string `json:"url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	Version        string `json:"version"`
}

func DefaultConfig() Config {
	return Config{Version: DefaultVersion}
}

// Options builds client options from the persisted field names.
func (c Config) Options() Options {
	return Options{
		URL:            c.URL,
		ConsumerKey:    c.ConsumerKey,
		ConsumerSecret: c.ConsumerSecret,
		Version:        c.Version,
	}
}

// ConfigUpdate is a partial Config; nil fields are left as stored.
type ConfigUpdate struct {
	URL            *string `json:"url"`
	ConsumerKey    *string `json:"consumer_key"`
	ConsumerSecret *string `json:"consumer_secret"`
	Version        *string `json:"version"`
}

// UpdateFrom returns an update that writes every field of c.
func UpdateFrom(c Config) ConfigUpdate {
	return ConfigUpdate{
		URL:            &c.URL,
		ConsumerKey:    &c.ConsumerKey,
		ConsumerSecret: &c.ConsumerSecret,
		Version:        &c.Version,
	}
}

// Options configures a REST client.
type Options struct {
	URL            string
	ConsumerKey    string
	ConsumerSecret string
	Version        string
	Timeout        time.Duration
	// QueryStringAuth sends the credentials as query parameters on https
	// stores whose server strips the Authorization header.
	QueryStringAuth bool
}

func (o *Options) Validate() error {
	if o.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(o.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: url %q must be an absolute http(s) URL", ErrInvalidConfig, o.URL)
	}
	if o.ConsumerKey == "" {
		return fmt.Errorf("%w: consumer key is required", ErrInvalidConfig)
	}
	if o.ConsumerSecret == "" {
		return fmt.Errorf("%w: consumer secret is required", ErrInvalidConfig)
	}
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if !IsSupportedVersion(o.Version) {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, o.Version)
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return nil
}

func IsSupportedVersion(version string) bool {
	for _, v := range SupportedVersions {
		if v == version {
			return true
		}
	}
	return false
}

// Response is a raw REST API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

func (r *Response) Decode(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// TotalPages reads the X-WP-TotalPages pagination header, 0 when absent.
func (r *Response) TotalPages() int {
	n, _ := strconv.Atoi(r.Header.Get("X-WP-TotalPages"))
	return n
}

// Total reads the X-WP-Total pagination header, 0 when absent.
func (r *Response) Total() int {
	n, _ := strconv.Atoi(r.Header.Get("X-WP-Total"))
	return n
}

// APIError is a non-2xx answer from the store.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("woocommerce: API request failed: %d - %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("woocommerce: API request failed: %d %s - %s", e.StatusCode, e.Code, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// Product is the subset of the WooCommerce product resource used by the
// part sync.
type Product struct {
	ID               int64      `json:"id,omitempty"`
	Name             string     `json:"name"`
	Type             string     `json:"type,omitempty"`
	Status           string     `json:"status,omitempty"`
	SKU              string     `json:"sku,omitempty"`
	RegularPrice     string     `json:"regular_price"`
	Description      string     `json:"description,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	ManageStock      bool       `json:"manage_stock"`
	StockQuantity    *int       `json:"stock_quantity,omitempty"`
	StockStatus      string     `json:"stock_status,omitempty"`
	Images           []Image    `json:"images,omitempty"`
	MetaData         []MetaData `json:"meta_data,omitempty"`
	Permalink        string     `json:"permalink,omitempty"`
	DateModified     string     `json:"date_modified,omitempty"`
}

type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
}

type MetaData struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}
