package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// Error codes specific to remote sources
const (
	ErrCodeCircuitOpen = "circuit_open"
	ErrCodeServerError = "server_error"
)

// maxSnapshotBytes caps a downloaded snapshot
const maxSnapshotBytes = 32 << 20

// HTTPSourceConfig holds configuration for an HTTPSource
type HTTPSourceConfig struct {
	URL               string
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64       // requests per second
	CircuitBreakerMax int           // consecutive failures before the circuit opens
	CircuitCooldown   time.Duration // time open before a trial request is let through
}

// DefaultHTTPSourceConfig returns recommended defaults for url
func DefaultHTTPSourceConfig(url string) HTTPSourceConfig {
	return HTTPSourceConfig{
		URL:               url,
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         1.0,
		CircuitBreakerMax: 5,
		CircuitCooldown:   30 * time.Second,
	}
}

// HTTPSource fetches the snapshot document from a URL with retries, rate limiting and
// a circuit breaker. It serves the same lookups as FileSource from the last fetch.
type HTTPSource struct {
	url               string
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	logger            *logrus.Entry
	store             snapshotStore
	mu                sync.Mutex
	circuitBreakerMax int
	cooldown          time.Duration
	consecutiveErrors int
	isOpen            bool
	trialInFlight     bool
	lastFailure       time.Time
	lastError         error
}

// retryLogger sends retryablehttp's request logs to debug level
type retryLogger struct {
	*logrus.Entry
}

func (l retryLogger) Printf(format string, args ...interface{}) {
	l.Debugf(format, args...)
}

// NewHTTPSource creates a new HTTP snapshot provider
func NewHTTPSource(cfg HTTPSourceConfig, log *logrus.Logger) *HTTPSource {
	entry := log.WithFields(logrus.Fields{"component": "provider", "source": cfg.URL})

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = retryLogger{entry}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if cfg.CircuitBreakerMax <= 0 {
		cfg.CircuitBreakerMax = 1
	}
	if cfg.CircuitCooldown <= 0 {
		cfg.CircuitCooldown = 30 * time.Second
	}

	return &HTTPSource{
		url:               cfg.URL,
		client:            retryClient,
		limiter:           rate.NewLimiter(limit, 1),
		logger:            entry,
		circuitBreakerMax: cfg.CircuitBreakerMax,
		cooldown:          cfg.CircuitCooldown,
	}
}

// Name returns the name of the provider
func (h *HTTPSource) Name() string {
	return "http:" + h.url
}

// Fetch downloads and decodes the snapshot
func (h *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := h.allow(); err != nil {
		return nil, err
	}

	if err := h.limiter.Wait(ctx); err != nil {
		h.releaseTrial()
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		h.releaseTrial()
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.recordFailure(err)
		return nil, NewProviderError(h.Name(), ErrCodeReadFailed, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		err := fmt.Errorf("status %d", resp.StatusCode)
		h.recordFailure(err)
		return nil, NewProviderError(h.Name(), ErrCodeServerError, "snapshot unavailable", err)
	}
	h.recordSuccess()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewProviderError(h.Name(), ErrCodeNotFound, "snapshot not found", ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(h.Name(), ErrCodeReadFailed, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, NewProviderError(h.Name(), ErrCodeReadFailed, "failed to read body", err)
	}
	snap, err := DecodeSnapshot(h.Name(), data)
	if err != nil {
		return nil, err
	}

	h.store.set(snap)
	h.logger.WithField("markets", len(snap.Markets)).Debug("Fetched snapshot")
	return snap, nil
}

// FetchMarkets fetches the snapshot and returns its markets
func (h *HTTPSource) FetchMarkets(ctx context.Context) ([]*models.MarketRequest, error) {
	snap, err := h.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Markets, nil
}

// FetchFeatures returns the player's features from the last fetched snapshot
func (h *HTTPSource) FetchFeatures(ctx context.Context, playerID string, sport models.Sport) (*models.PlayerFeatures, error) {
	snap, err := h.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.features(h.Name(), playerID)
}

// FetchPrior returns the player's prior for market from the last fetched snapshot
func (h *HTTPSource) FetchPrior(ctx context.Context, playerID string, market models.Market) (*models.PlayerPrior, error) {
	snap, err := h.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.prior(h.Name(), playerID, market)
}

// FetchEvidence returns the player's evidence from the last fetched snapshot
func (h *HTTPSource) FetchEvidence(ctx context.Context, playerID string) ([]models.NewsEvidence, error) {
	snap, err := h.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.evidence(h.Name(), playerID)
}

// Reset closes the circuit breaker
func (h *HTTPSource) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutiveErrors = 0
	h.isOpen = false
	h.trialInFlight = false
	h.lastError = nil
}

// Close closes any resources held by the client
func (h *HTTPSource) Close() error {
	h.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (h *HTTPSource) current(ctx context.Context) (*Snapshot, error) {
	if snap := h.store.get(); snap != nil {
		return snap, nil
	}
	return h.Fetch(ctx)
}

// allow rejects requests while the circuit is open. Once the cooldown since the last
// failure has passed, a single trial request is let through (half-open).
func (h *HTTPSource) allow() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.isOpen {
		return nil
	}
	if h.trialInFlight || time.Since(h.lastFailure) < h.cooldown {
		return NewProviderError(h.Name(), ErrCodeCircuitOpen, "circuit breaker open", h.lastError)
	}
	h.trialInFlight = true
	h.logger.Info("Circuit breaker half-open, sending trial request")
	return nil
}

func (h *HTTPSource) releaseTrial() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trialInFlight = false
}

func (h *HTTPSource) recordFailure(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutiveErrors++
	h.lastError = err
	h.lastFailure = time.Now()
	if h.trialInFlight {
		h.trialInFlight = false
		h.logger.WithError(err).Warn("Circuit breaker trial failed, staying open")
		return
	}
	if h.consecutiveErrors >= h.circuitBreakerMax && !h.isOpen {
		h.isOpen = true
		h.logger.WithError(err).WithField("consecutive_errors", h.consecutiveErrors).Warn("Circuit breaker opened")
	}
}

func (h *HTTPSource) recordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutiveErrors = 0
	h.trialInFlight = false
	if h.isOpen {
		h.isOpen = false
		h.lastError = nil
		h.logger.Info("Circuit breaker closed")
	}
}

// retryPolicy retries network errors, 429 and 5xx gateway errors
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
