package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseSize caps the body read from the store (10MB).
const maxResponseSize = 10 * 1024 * 1024

const userAgent = "desguace-woocommerce/1.0"

// Client talks to the WooCommerce REST API of one store.
type Client struct {
	opts       Options
	baseURL    string
	https      bool
	httpClient *http.Client
	signer     *oauthSigner
}

func NewClient(opts Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	// url.Parse lowercases the scheme, so HTTPS://shop is still TLS
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Client{
		opts:    opts,
		baseURL: fmt.Sprintf("%s/wp-json/%s/", strings.TrimRight(opts.URL, "/"), opts.Version),
		https:   u.Scheme == "https",
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		signer: newOAuthSigner(opts.ConsumerKey, opts.ConsumerSecret),
	}, nil
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, params)
}

func (c *Client) Post(ctx context.Context, endpoint string, data interface{}, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodPost, endpoint, data, params)
}

func (c *Client) Put(ctx context.Context, endpoint string, data interface{}, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodPut, endpoint, data, params)
}

func (c *Client) Delete(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, params)
}

func (c *Client) isHTTPS() bool {
	return c.https
}

func (c *Client) do(ctx context.Context, method, endpoint string, data interface{}, params url.Values) (*Response, error) {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	requestURL := c.baseURL + strings.TrimLeft(endpoint, "/")
	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}

	useBasicAuth := false
	switch {
	case !c.isHTTPS():
		if err := c.signer.Sign(method, requestURL, query); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	case c.opts.QueryStringAuth:
		query.Set("consumer_key", c.opts.ConsumerKey)
		query.Set("consumer_secret", c.opts.ConsumerSecret)
	default:
		useBasicAuth = true
	}
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if useBasicAuth {
		req.SetBasicAuth(c.opts.ConsumerKey, c.opts.ConsumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       json.RawMessage(respBody),
	}, nil
}
