package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

type stubIdempotencyStore struct {
	checked bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checked = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func newRouterConfig(opts ...func(cfg *RouterConfig)) RouterConfig {
	walletRepo := mocks.NewMockWalletRepository()
	transactionRepo := mocks.NewMockTransactionRepository()

	uc := usecase.NewWalletUseCase(
		mocks.NewMockTxManager(),
		walletRepo,
		transactionRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		nil,
		nil,
		domain.CreditPolicy{AllowCredit: true},
	)

	cfg := RouterConfig{
		WalletHandler:         handler.NewWalletHandler(uc, nil),
		TransactionHandler:    handler.NewTransactionHandler(uc),
		ReconciliationHandler: handler.NewReconciliationHandler(usecase.NewReconciliationUseCase(walletRepo, transactionRepo, nil)),
		HealthHandler:         handler.NewHealthHandler(nil, nil),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_WalletRoutesWired(t *testing.T) {
	router := NewRouter(newRouterConfig())

	body := strings.NewReader(`{"currency":"USD"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/owners/user/42/wallets", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected wallet creation to return 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/owners/user/42/wallets/USD", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected wallet lookup to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := strings.NewReader(`{"currency":"USD"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners/user/42/wallets", body)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !store.checked {
		t.Fatalf("expected idempotency store to be consulted")
	}
}
