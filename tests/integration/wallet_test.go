package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func newTestRouter(t *testing.T, testDB *testutil.TestDB, policy domain.CreditPolicy) http.Handler {
	t.Helper()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()

	walletUC := usecase.NewWalletUseCase(
		txManager,
		walletRepo,
		transactionRepo,
		outboxRepo,
		idGen,
		nil,
		nil,
		policy,
	)
	reconciliationUC := usecase.NewReconciliationUseCase(walletRepo, transactionRepo, nil)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		WalletHandler:         handler.NewWalletHandler(walletUC, nil),
		TransactionHandler:    handler.NewTransactionHandler(walletUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, nil),
	})
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestWalletLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB, domain.CreditPolicy{AllowCredit: true})

	// Open a wallet with an initial amount
	rec := doRequest(t, router, http.MethodPost, "/api/v1/owners/user/42/wallets", map[string]any{
		"currency":       "usd",
		"initial_amount": "100",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open wallet: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var wallet dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &wallet); err != nil {
		t.Fatalf("failed to parse wallet response: %v", err)
	}
	if wallet.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", wallet.Currency)
	}
	if !wallet.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected total 100, got %s", wallet.Total)
	}

	// Opening the same currency again conflicts
	rec = doRequest(t, router, http.MethodPost, "/api/v1/owners/user/42/wallets", map[string]any{
		"currency": "USD",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate wallet: expected 409, got %d", rec.Code)
	}

	// Record income and outcome
	rec = doRequest(t, router, http.MethodPost, "/api/v1/owners/user/42/wallets/USD/income", map[string]any{"amount": "50"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("income: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/owners/user/42/wallets/USD/outcome", map[string]any{"amount": "30"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("outcome: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Totals reflect the ledger: 100 + 50 - 30
	rec = doRequest(t, router, http.MethodGet, "/api/v1/owners/user/42/wallets/USD/total?pretty=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("total: expected 200, got %d", rec.Code)
	}

	var total dto.TotalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &total); err != nil {
		t.Fatalf("failed to parse total response: %v", err)
	}
	if !total.Total.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected total 120, got %s", total.Total)
	}
	if total.Pretty != "120.00" {
		t.Errorf("expected pretty 120.00, got %s", total.Pretty)
	}

	// The wallet itself reports the updated totals
	rec = doRequest(t, router, http.MethodGet, "/api/v1/owners/user/42/wallets/USD", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get wallet: expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &wallet); err != nil {
		t.Fatalf("failed to parse wallet response: %v", err)
	}
	if !wallet.Total.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected wallet total 120, got %s", wallet.Total)
	}
	if !wallet.AllTimeTotal.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected all-time total 150, got %s", wallet.AllTimeTotal)
	}

	// Listing transactions shows the tagged initial income first
	rec = doRequest(t, router, http.MethodGet, "/api/v1/owners/user/42/wallets/USD/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list transactions: expected 200, got %d", rec.Code)
	}

	var list dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse transactions response: %v", err)
	}
	if len(list.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list.Transactions))
	}
	if list.Transactions[0].Note == nil || *list.Transactions[0].Note != domain.InitialIncomeNote {
		t.Errorf("expected first transaction to carry the initial income note")
	}

	// Reconciliation confirms cached totals match the ledger fold
	rec = doRequest(t, router, http.MethodGet, "/api/v1/wallets/reconciliation", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconciliation: expected 200, got %d", rec.Code)
	}

	var results []*dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to parse reconciliation response: %v", err)
	}
	for _, result := range results {
		if !result.IsReconciled {
			t.Errorf("wallet %s is not reconciled: difference %s", result.WalletID, result.Difference)
		}
	}
}

func TestOutcomeInsufficientFunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB, domain.CreditPolicy{AllowCredit: false})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/owners/user/7/wallets", map[string]any{
		"currency":       "EUR",
		"initial_amount": "40",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open wallet: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Overdraw is rejected and leaves the wallet untouched
	rec = doRequest(t, router, http.MethodPost, "/api/v1/owners/user/7/wallets/EUR/outcome", map[string]any{"amount": "100"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overdraw: expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/owners/user/7/wallets/EUR/total", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("total: expected 200, got %d", rec.Code)
	}

	var total dto.TotalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &total); err != nil {
		t.Fatalf("failed to parse total response: %v", err)
	}
	if !total.Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected total 40 after rejected outcome, got %s", total.Total)
	}

	// Spending the exact balance drains the wallet to zero
	rec = doRequest(t, router, http.MethodPost, "/api/v1/owners/user/7/wallets/EUR/outcome", map[string]any{"amount": "40"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("exact outcome: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}
