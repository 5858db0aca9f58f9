package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// TotalProjector keeps the cached wallet totals in sync with the transaction
// ledger. It runs inside the same store transaction as the transaction insert,
// so the entry and the projected totals become visible together or not at all.
// The increments and decrements are atomic store-level operations; no
// application-level read-modify-write is involved.
type TotalProjector struct {
	walletRepo WalletRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewTotalProjector creates a new TotalProjector.
func NewTotalProjector(walletRepo WalletRepository, outboxRepo OutboxRepository, idGen IDGenerator) *TotalProjector {
	return &TotalProjector{
		walletRepo: walletRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// Apply projects a transaction onto its wallet: income adds the amount to both
// total and all_time_total, outcome subtracts it from total only. With
// requireFunds set, an outcome whose amount the total does not cover fails
// with domain.ErrWalletEmpty and the wallet row stays untouched. A
// wallet-updated outbox event is recorded in the same store transaction.
func (p *TotalProjector) Apply(
	ctx context.Context,
	tx Transaction,
	transaction *domain.WalletTransaction,
	requireFunds bool,
	now time.Time,
) (*domain.Wallet, error) {
	var (
		wallet *domain.Wallet
		err    error
	)

	if transaction.Income {
		wallet, err = p.walletRepo.ApplyIncome(ctx, tx, transaction.WalletID, transaction.Amount, now)
	} else {
		wallet, err = p.walletRepo.ApplyOutcome(ctx, tx, transaction.WalletID, transaction.Amount, requireFunds, now)
	}
	if err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            p.idGen.Generate(),
		AggregateID:   wallet.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeWalletUpdated,
		Payload: domain.WalletUpdatedEvent{
			WalletID:     wallet.ID,
			Currency:     wallet.Currency,
			Total:        wallet.Total.String(),
			AllTimeTotal: wallet.AllTimeTotal.String(),
		}.Payload(),
		CreatedAt: now,
	}
	if err := p.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	return wallet, nil
}
