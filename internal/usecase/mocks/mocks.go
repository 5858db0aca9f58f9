package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// MockTx is a usecase.Transaction double. The repositories in this package
// stage an undo action on it for every write performed under the transaction;
// Rollback replays the undos in reverse, so a failed unit of work leaves no
// trace, matching the all-or-nothing semantics of the real store.
type MockTx struct {
	mu         sync.Mutex
	undo       []func()
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTx) stage(undo func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.undo = append(t.undo, undo)
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Committed = true
	t.undo = nil
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Committed {
		return nil
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.RolledBack = true
	return nil
}

// stageUndo registers an undo action when the transaction is a MockTx. Writes
// issued with a foreign transaction (or none) apply immediately and are not
// rolled back.
func stageUndo(tx usecase.Transaction, undo func()) {
	if mt, ok := tx.(*MockTx); ok && mt != nil {
		mt.stage(undo)
	}
}

// MockTxManager hands out MockTx transactions.
type MockTxManager struct {
	mu    sync.Mutex
	Txs   []*MockTx
	Begun int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTx{}
	m.Txs = append(m.Txs, tx)
	m.Begun++
	return tx, nil
}

// MockWalletRepository is an in-memory mock implementation of WalletRepository.
// Default behavior honors the (owner, currency) uniqueness constraint and the
// conditional decrement contract of ApplyOutcome; any method can be overridden
// through its Func field.
type MockWalletRepository struct {
	mu      sync.Mutex
	wallets []*domain.Wallet

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwnerAndCurrencyFunc func(ctx context.Context, owner domain.Owner, currency string) (*domain.Wallet, error)
	ListByOwnerFunc           func(ctx context.Context, owner domain.Owner) ([]*domain.Wallet, error)
	ListFunc                  func(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
	ApplyIncomeFunc           func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error)
	ApplyOutcomeFunc          func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, requireFunds bool, updatedAt time.Time) (*domain.Wallet, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{}
}

func (m *MockWalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.OwnerID == wallet.OwnerID && w.OwnerKind == wallet.OwnerKind && w.Currency == wallet.Currency {
			return domain.ErrWalletDuplicate
		}
	}
	clone := *wallet
	stored := &clone
	m.wallets = append(m.wallets, stored)
	stageUndo(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.wallets {
			if w == stored {
				m.wallets = append(m.wallets[:i], m.wallets[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == id {
			clone := *w
			return &clone, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByOwnerAndCurrency(ctx context.Context, owner domain.Owner, currency string) (*domain.Wallet, error) {
	if m.GetByOwnerAndCurrencyFunc != nil {
		return m.GetByOwnerAndCurrencyFunc(ctx, owner, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.OwnerID == owner.ID && w.OwnerKind == owner.Kind && w.Currency == currency {
			clone := *w
			return &clone, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Wallet, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, owner)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		if w.OwnerID == owner.ID && w.OwnerKind == owner.Kind {
			clone := *w
			wallets = append(wallets, &clone)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.wallets) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.wallets) {
		end = len(m.wallets)
	}
	var wallets []*domain.Wallet
	for _, w := range m.wallets[offset:end] {
		clone := *w
		wallets = append(wallets, &clone)
	}
	return wallets, nil
}

func (m *MockWalletRepository) ApplyIncome(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error) {
	if m.ApplyIncomeFunc != nil {
		return m.ApplyIncomeFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == id {
			w.Total = w.Total.Add(amount)
			w.AllTimeTotal = w.AllTimeTotal.Add(amount)
			w.UpdatedAt = updatedAt
			// Undo by compensating delta so concurrent committed writes
			// to the same wallet survive the rollback.
			wallet := w
			stageUndo(tx, func() {
				m.mu.Lock()
				defer m.mu.Unlock()
				wallet.Total = wallet.Total.Sub(amount)
				wallet.AllTimeTotal = wallet.AllTimeTotal.Sub(amount)
			})
			clone := *w
			return &clone, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) ApplyOutcome(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, requireFunds bool, updatedAt time.Time) (*domain.Wallet, error) {
	if m.ApplyOutcomeFunc != nil {
		return m.ApplyOutcomeFunc(ctx, tx, id, amount, requireFunds, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	policy := domain.CreditPolicy{AllowCredit: !requireFunds}
	for _, w := range m.wallets {
		if w.ID == id {
			if !policy.Allows(w.Total, amount) {
				return nil, domain.ErrWalletEmpty
			}
			w.Total = w.Total.Sub(amount)
			w.UpdatedAt = updatedAt
			wallet := w
			stageUndo(tx, func() {
				m.mu.Lock()
				defer m.mu.Unlock()
				wallet.Total = wallet.Total.Add(amount)
			})
			clone := *w
			return &clone, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

// MockTransactionRepository is an in-memory mock implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions []*domain.WalletTransaction

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, transaction *domain.WalletTransaction) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.WalletTransaction, error)
	ListByWalletFunc  func(ctx context.Context, walletID string, limit, offset int) ([]*domain.WalletTransaction, error)
	SumSinceFunc      func(ctx context.Context, walletID string, since time.Time) (decimal.Decimal, error)
	SumBetweenFunc    func(ctx context.Context, walletID string, from, to time.Time) (decimal.Decimal, error)
	TotalsFunc        func(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error)
	UpdateNoteFunc    func(ctx context.Context, id string, note string, updatedAt time.Time) (*domain.WalletTransaction, error)
	UpdateDetailsFunc func(ctx context.Context, id string, details map[string]any, updatedAt time.Time) (*domain.WalletTransaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.WalletTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *transaction
	stored := &clone
	m.transactions = append(m.transactions, stored)
	stageUndo(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, t := range m.transactions {
			if t == stored {
				m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.WalletTransaction, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.WalletTransaction
	for _, t := range m.transactions {
		if t.WalletID == walletID {
			clone := *t
			matched = append(matched, &clone)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *MockTransactionRepository) SumSince(ctx context.Context, walletID string, since time.Time) (decimal.Decimal, error) {
	if m.SumSinceFunc != nil {
		return m.SumSinceFunc(ctx, walletID, since)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, t := range m.transactions {
		if t.WalletID == walletID && !t.CreatedAt.Before(since) {
			total = total.Add(t.Signed())
		}
	}
	return total, nil
}

func (m *MockTransactionRepository) SumBetween(ctx context.Context, walletID string, from, to time.Time) (decimal.Decimal, error) {
	if m.SumBetweenFunc != nil {
		return m.SumBetweenFunc(ctx, walletID, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, t := range m.transactions {
		if t.WalletID == walletID && !t.CreatedAt.Before(from) && !t.CreatedAt.After(to) {
			total = total.Add(t.Signed())
		}
	}
	return total, nil
}

func (m *MockTransactionRepository) Totals(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, walletID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	incomeTotal := decimal.Zero
	for _, t := range m.transactions {
		if t.WalletID != walletID {
			continue
		}
		total = total.Add(t.Signed())
		if t.Income {
			incomeTotal = incomeTotal.Add(t.Amount)
		}
	}
	return total, incomeTotal, nil
}

func (m *MockTransactionRepository) UpdateNote(ctx context.Context, id string, note string, updatedAt time.Time) (*domain.WalletTransaction, error) {
	if m.UpdateNoteFunc != nil {
		return m.UpdateNoteFunc(ctx, id, note, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			t.Note = &note
			t.UpdatedAt = updatedAt
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) UpdateDetails(ctx context.Context, id string, details map[string]any, updatedAt time.Time) (*domain.WalletTransaction, error) {
	if m.UpdateDetailsFunc != nil {
		return m.UpdateDetailsFunc(ctx, id, details, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			t.Details = details
			t.UpdatedAt = updatedAt
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// Transactions returns a snapshot of all stored transactions.
func (m *MockTransactionRepository) Transactions() []*domain.WalletTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.WalletTransaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// MockOutboxRepository is an in-memory mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	stageUndo(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.events {
			if e == event {
				m.events = append(m.events[:i], m.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unpublished []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			unpublished = append(unpublished, e)
			if len(unpublished) == limit {
				break
			}
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns a snapshot of all stored events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}
