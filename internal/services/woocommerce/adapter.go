package woocommerce

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"desguace/internal/logger"
)

var (
	ErrInit        = errors.New("woocommerce: client initialization failed")
	ErrInitTimeout = errors.New("woocommerce: could not initialize the client after several attempts")
)

// RemoteAPI is the four-verb WooCommerce REST surface.
type RemoteAPI interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*Response, error)
	Post(ctx context.Context, endpoint string, data interface{}, params url.Values) (*Response, error)
	Put(ctx context.Context, endpoint string, data interface{}, params url.Values) (*Response, error)
	Delete(ctx context.Context, endpoint string, params url.Values) (*Response, error)
}

// ClientFactory builds the underlying REST client. It may block.
type ClientFactory func(ctx context.Context, opts Options) (RemoteAPI, error)

func DefaultClientFactory(ctx context.Context, opts Options) (RemoteAPI, error) {
	return NewClient(opts)
}

// InitPolicy bounds how long NewAdapter waits for the client: readiness is
// checked every Interval, at most Attempts times.
type InitPolicy struct {
	Attempts int
	Interval time.Duration
}

func DefaultInitPolicy() InitPolicy {
	return InitPolicy{Attempts: 10, Interval: 100 * time.Millisecond}
}

type adapterSettings struct {
	factory ClientFactory
	policy  InitPolicy
	logger  *logger.Logger
}

type AdapterOption func(*adapterSettings)

func WithClientFactory(factory ClientFactory) AdapterOption {
	return func(s *adapterSettings) {
		s.factory = factory
	}
}

func WithInitPolicy(policy InitPolicy) AdapterOption {
	return func(s *adapterSettings) {
		if policy.Attempts > 0 {
			s.policy.Attempts = policy.Attempts
		}
		if policy.Interval > 0 {
			s.policy.Interval = policy.Interval
		}
	}
}

func WithAdapterLogger(l *logger.Logger) AdapterOption {
	return func(s *adapterSettings) {
		s.logger = l
	}
}

// Adapter is a ready WooCommerce client. It forwards every call unchanged:
// no retries, no response rewriting.
type Adapter struct {
	remote RemoteAPI
}

// NewAdapter builds the client and returns once it is ready. It fails with
// ErrInit when the factory fails and with ErrInitTimeout when the client is
// not ready within the init policy. No remote call is made in either case.
func NewAdapter(ctx context.Context, opts Options, options ...AdapterOption) (*Adapter, error) {
	settings := adapterSettings{
		factory: DefaultClientFactory,
		policy:  DefaultInitPolicy(),
	}
	for _, opt := range options {
		opt(&settings)
	}

	// buffered so an abandoned factory can still deliver and exit
	ready := make(chan initResult, 1)
	go func() {
		remote, err := settings.factory(ctx, opts)
		ready <- initResult{remote: remote, err: err}
	}()

	ticker := time.NewTicker(settings.policy.Interval)
	defer ticker.Stop()

	return awaitReady(ctx, ready, ticker.C, settings.policy.Attempts, settings.logger)
}

type initResult struct {
	remote RemoteAPI
	err    error
}

func (r initResult) adapter() (*Adapter, error) {
	if r.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, r.err)
	}
	if r.remote == nil {
		return nil, fmt.Errorf("%w: factory returned no client", ErrInit)
	}
	return &Adapter{remote: r.remote}, nil
}

// awaitReady waits for the factory result, giving up after attempts ticks.
func awaitReady(ctx context.Context, ready <-chan initResult, tick <-chan time.Time, attempts int, log *logger.Logger) (*Adapter, error) {
	for attempt := 1; ; attempt++ {
		select {
		case res := <-ready:
			return res.adapter()
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick:
			if log != nil {
				log.Debug("WooCommerce client not ready (attempt %d/%d)", attempt, attempts)
			}
			if attempt < attempts {
				continue
			}
			// select picks at random when the client lands on the last tick
			select {
			case res := <-ready:
				return res.adapter()
			default:
				return nil, ErrInitTimeout
			}
		}
	}
}

func (a *Adapter) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return a.remote.Get(ctx, endpoint, params)
}

func (a *Adapter) Post(ctx context.Context, endpoint string, data interface{}, params url.Values) (*Response, error) {
	return a.remote.Post(ctx, endpoint, data, params)
}

func (a *Adapter) Put(ctx context.Context, endpoint string, data interface{}, params url.Values) (*Response, error) {
	return a.remote.Put(ctx, endpoint, data, params)
}

func (a *Adapter) Delete(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return a.remote.Delete(ctx, endpoint, params)
}
