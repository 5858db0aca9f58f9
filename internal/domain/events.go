package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeWalletUpdated      = "wallet.updated"
	EventTypeWalletOpened       = "wallet.opened"
)

// Aggregate types
const (
	AggregateTypeWallet      = "wallet"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// WalletOpenedEvent payload
type WalletOpenedEvent struct {
	WalletID  string `json:"wallet_id"`
	OwnerKind string `json:"owner_kind"`
	OwnerID   int64  `json:"owner_id"`
	Currency  string `json:"currency"`
}

func (e WalletOpenedEvent) Payload() map[string]any {
	return map[string]any{
		"wallet_id":  e.WalletID,
		"owner_kind": e.OwnerKind,
		"owner_id":   e.OwnerID,
		"currency":   e.Currency,
	}
}

// WalletUpdatedEvent payload
type WalletUpdatedEvent struct {
	WalletID     string `json:"wallet_id"`
	Currency     string `json:"currency"`
	Total        string `json:"total"`
	AllTimeTotal string `json:"all_time_total"`
}

func (e WalletUpdatedEvent) Payload() map[string]any {
	return map[string]any{
		"wallet_id":      e.WalletID,
		"currency":       e.Currency,
		"total":          e.Total,
		"all_time_total": e.AllTimeTotal,
	}
}

// TransactionCreatedEvent payload
type TransactionCreatedEvent struct {
	TransactionID string `json:"transaction_id"`
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	Income        bool   `json:"income"`
}

func (e TransactionCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"transaction_id": e.TransactionID,
		"wallet_id":      e.WalletID,
		"amount":         e.Amount,
		"income":         e.Income,
	}
}
