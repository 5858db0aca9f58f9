package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// WalletUseCase is the balance engine: it opens wallets, resolves them for an
// owner, records income/outcome transactions and answers total queries. Every
// operation takes the owner reference explicitly, so a single instance is safe
// to share across concurrent callers.
type WalletUseCase struct {
	txManager       TransactionManager
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	projector       *TotalProjector
	idGen           IDGenerator
	retrier         Retrier
	metrics         *metrics.Metrics
	policy          domain.CreditPolicy
}

// NewWalletUseCase creates a new WalletUseCase. The credit policy is fixed per
// instance; retrier and metrics may be nil.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	transactionRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	policy domain.CreditPolicy,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:       txManager,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		projector:       NewTotalProjector(walletRepo, outboxRepo, idGen),
		idGen:           idGen,
		retrier:         retrier,
		metrics:         metrics,
		policy:          policy,
	}
}

// Policy returns the credit policy the engine was configured with.
func (uc *WalletUseCase) Policy() domain.CreditPolicy {
	return uc.policy
}

// OpenWalletInput represents input for opening a wallet.
type OpenWalletInput struct {
	Owner         domain.Owner
	Currency      string
	InitialAmount *decimal.Decimal
}

// OpenWallet creates a wallet for (owner, currency). The currency is
// normalized to upper case; at most one wallet may exist per owner and
// currency. When an initial amount is given, an income transaction tagged with
// the initial-income note is recorded in the same store transaction.
func (uc *WalletUseCase) OpenWallet(ctx context.Context, input OpenWalletInput) (*domain.Wallet, error) {
	if err := domain.ValidateOwner(input.Owner); err != nil {
		return nil, err
	}

	currency := domain.NormalizeCurrency(input.Currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	if input.InitialAmount != nil {
		if err := domain.ValidateAmount(*input.InitialAmount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	wallet := &domain.Wallet{
		ID:           uc.idGen.Generate(),
		OwnerID:      input.Owner.ID,
		OwnerKind:    input.Owner.Kind,
		Currency:     currency,
		Total:        decimal.Zero,
		AllTimeTotal: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.runTx(ctx, func(tx Transaction) error {
		if err := uc.walletRepo.Create(ctx, tx, wallet); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   wallet.ID,
			AggregateType: domain.AggregateTypeWallet,
			EventType:     domain.EventTypeWalletOpened,
			Payload: domain.WalletOpenedEvent{
				WalletID:  wallet.ID,
				OwnerKind: wallet.OwnerKind,
				OwnerID:   wallet.OwnerID,
				Currency:  wallet.Currency,
			}.Payload(),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		if input.InitialAmount != nil {
			note := domain.InitialIncomeNote
			if _, err := uc.record(ctx, tx, wallet, *input.InitialAmount, true, &note, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrWalletDuplicate) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWalletDuplicate, currency)
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsOpened.Inc()
	}

	return wallet, nil
}

// FindWallets returns every wallet of the owner in insertion order.
func (uc *WalletUseCase) FindWallets(ctx context.Context, owner domain.Owner) ([]*domain.Wallet, error) {
	if err := domain.ValidateOwner(owner); err != nil {
		return nil, err
	}

	return uc.walletRepo.ListByOwner(ctx, owner)
}

// FindWallet returns the owner's wallet for the given currency.
func (uc *WalletUseCase) FindWallet(ctx context.Context, owner domain.Owner, currency string) (*domain.Wallet, error) {
	if err := domain.ValidateOwner(owner); err != nil {
		return nil, err
	}

	currency = domain.NormalizeCurrency(currency)

	wallet, err := uc.walletRepo.GetByOwnerAndCurrency(ctx, owner, currency)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, fmt.Errorf("%w for %s", domain.ErrWalletNotFound, currency)
		}

		return nil, err
	}

	return wallet, nil
}

// Select resolves the owner's wallet for the currency and returns a
// call-scoped session bound to it. It never mutates state.
func (uc *WalletUseCase) Select(ctx context.Context, owner domain.Owner, currency string) (*WalletSession, error) {
	wallet, err := uc.FindWallet(ctx, owner, currency)
	if err != nil {
		return nil, err
	}

	return &WalletSession{uc: uc, wallet: wallet}, nil
}

// AttachNote sets the note of an existing transaction.
func (uc *WalletUseCase) AttachNote(ctx context.Context, transactionID, note string) (*domain.WalletTransaction, error) {
	if err := domain.ValidateNote(note); err != nil {
		return nil, err
	}

	return uc.transactionRepo.UpdateNote(ctx, transactionID, note, time.Now().UTC())
}

// AttachDetails sets the structured details of an existing transaction.
func (uc *WalletUseCase) AttachDetails(ctx context.Context, transactionID string, details map[string]any) (*domain.WalletTransaction, error) {
	if err := domain.ValidateDetails(details); err != nil {
		return nil, err
	}

	return uc.transactionRepo.UpdateDetails(ctx, transactionID, details, time.Now().UTC())
}

// GetTransaction returns a single transaction by ID.
func (uc *WalletUseCase) GetTransaction(ctx context.Context, transactionID string) (*domain.WalletTransaction, error) {
	return uc.transactionRepo.GetByID(ctx, transactionID)
}

// ListTransactionsInput represents input for listing wallet transactions.
type ListTransactionsInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListTransactions lists transactions of a wallet, oldest first.
func (uc *WalletUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.WalletTransaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transactionRepo.ListByWallet(ctx, input.WalletID, limit, offset)
}

// record writes one ledger transaction and projects its effect onto the wallet
// totals inside tx. The caller owns the transaction; wallet is updated in
// place with the projected totals.
func (uc *WalletUseCase) record(
	ctx context.Context,
	tx Transaction,
	wallet *domain.Wallet,
	amount decimal.Decimal,
	income bool,
	note *string,
	now time.Time,
) (*domain.WalletTransaction, error) {
	transaction := &domain.WalletTransaction{
		ID:        uc.idGen.Generate(),
		WalletID:  wallet.ID,
		Amount:    amount,
		Income:    income,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, transaction); err != nil {
		return nil, err
	}

	requireFunds := !income && !uc.policy.AllowCredit

	updated, err := uc.projector.Apply(ctx, tx, transaction, requireFunds, now)
	if err != nil {
		if uc.metrics != nil && errors.Is(err, domain.ErrWalletEmpty) {
			uc.metrics.RejectedOutcomes.Inc()
		}

		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transaction.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionCreated,
		Payload: domain.TransactionCreatedEvent{
			TransactionID: transaction.ID,
			WalletID:      transaction.WalletID,
			Amount:        transaction.Amount.String(),
			Income:        transaction.Income,
		}.Payload(),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	wallet.Total = updated.Total
	wallet.AllTimeTotal = updated.AllTimeTotal
	wallet.UpdatedAt = updated.UpdatedAt

	if uc.metrics != nil {
		direction := "outcome"
		if income {
			direction = "income"
		}
		uc.metrics.TransactionsRecorded.WithLabelValues(direction).Inc()
		uc.metrics.TransactionAmount.Observe(amount.InexactFloat64())
	}

	return transaction, nil
}

// runTx executes fn inside a store transaction, retried on transient store
// failures when a retrier is configured. fn must be safe to re-run: each
// attempt begins a fresh transaction.
func (uc *WalletUseCase) runTx(ctx context.Context, fn func(tx Transaction) error) error {
	attempt := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if uc.retrier == nil {
		return attempt()
	}

	return uc.retrier.Retry(ctx, attempt)
}
