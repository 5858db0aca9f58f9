package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwnerAndCurrency(ctx context.Context, owner domain.Owner, currency string) (*domain.Wallet, error)
	ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Wallet, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
	// ApplyIncome atomically adds amount to both total and all_time_total.
	ApplyIncome(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error)
	// ApplyOutcome atomically subtracts amount from total. When requireFunds
	// is set the decrement is conditional on total covering the amount and
	// domain.ErrWalletEmpty is returned without touching the row otherwise.
	ApplyOutcome(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, requireFunds bool, updatedAt time.Time) (*domain.Wallet, error)
}

// TransactionRepository defines data access for wallet transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.WalletTransaction) error
	GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error)
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.WalletTransaction, error)
	// SumSince folds every transaction with created_at >= since.
	SumSince(ctx context.Context, walletID string, since time.Time) (decimal.Decimal, error)
	// SumBetween folds every transaction with created_at in [from, to].
	SumBetween(ctx context.Context, walletID string, from, to time.Time) (decimal.Decimal, error)
	// Totals folds the full ledger of a wallet: the signed total and the
	// income-only total.
	Totals(ctx context.Context, walletID string) (total, incomeTotal decimal.Decimal, err error)
	UpdateNote(ctx context.Context, id string, note string, updatedAt time.Time) (*domain.WalletTransaction, error)
	UpdateDetails(ctx context.Context, id string, details map[string]any, updatedAt time.Time) (*domain.WalletTransaction, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
