package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID           string          `json:"id"`
	OwnerKind    string          `json:"owner_kind"`
	OwnerID      int64           `json:"owner_id"`
	Currency     string          `json:"currency"`
	Total        decimal.Decimal `json:"total"`
	AllTimeTotal decimal.Decimal `json:"all_time_total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:           w.ID,
		OwnerKind:    w.OwnerKind,
		OwnerID:      w.OwnerID,
		Currency:     w.Currency,
		Total:        w.Total,
		AllTimeTotal: w.AllTimeTotal,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse represents a wallet listing.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// TransactionResponse represents a wallet transaction in API responses.
type TransactionResponse struct {
	ID        string          `json:"id"`
	WalletID  string          `json:"wallet_id"`
	Amount    decimal.Decimal `json:"amount"`
	Income    bool            `json:"income"`
	Note      *string         `json:"note,omitempty"`
	Details   map[string]any  `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.WalletTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		WalletID:  t.WalletID,
		Amount:    t.Amount,
		Income:    t.Income,
		Note:      t.Note,
		Details:   t.Details,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.WalletTransaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents a transaction listing.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// TotalResponse represents a wallet total, optionally with a human-readable
// rendering.
type TotalResponse struct {
	WalletID string          `json:"wallet_id"`
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Pretty   string          `json:"pretty,omitempty"`
}

// NewTotalResponse builds a total response; pretty controls the formatted
// rendering.
func NewTotalResponse(wallet *domain.Wallet, total decimal.Decimal, pretty bool) *TotalResponse {
	resp := &TotalResponse{
		WalletID: wallet.ID,
		Currency: wallet.Currency,
		Total:    total,
	}
	if pretty {
		resp.Pretty = domain.FormatAmount(total)
	}
	return resp
}

// ReconciliationResponse represents a reconciliation result in API responses.
type ReconciliationResponse struct {
	WalletID             string          `json:"wallet_id"`
	Currency             string          `json:"currency"`
	CachedTotal          decimal.Decimal `json:"cached_total"`
	ComputedTotal        decimal.Decimal `json:"computed_total"`
	CachedAllTimeTotal   decimal.Decimal `json:"cached_all_time_total"`
	ComputedAllTimeTotal decimal.Decimal `json:"computed_all_time_total"`
	Difference           decimal.Decimal `json:"difference"`
	IsReconciled         bool            `json:"is_reconciled"`
	LastChecked          time.Time       `json:"last_checked"`
}

// ReconciliationFromResult converts a reconciliation result to a response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		WalletID:             r.WalletID,
		Currency:             r.Currency,
		CachedTotal:          r.CachedTotal,
		ComputedTotal:        r.ComputedTotal,
		CachedAllTimeTotal:   r.CachedAllTimeTotal,
		ComputedAllTimeTotal: r.ComputedAllTimeTotal,
		Difference:           r.Difference,
		IsReconciled:         r.IsReconciled,
		LastChecked:          r.LastChecked,
	}
}

// ReconciliationsFromResults converts reconciliation results to responses.
func ReconciliationsFromResults(results []*usecase.ReconciliationResult) []*ReconciliationResponse {
	out := make([]*ReconciliationResponse, len(results))
	for i, r := range results {
		out[i] = ReconciliationFromResult(r)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
