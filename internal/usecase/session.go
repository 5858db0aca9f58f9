package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletSession is a short-lived handle bound to one resolved wallet, obtained
// from WalletUseCase.Select. It carries no hidden engine state; discard it
// after the operation chain.
type WalletSession struct {
	uc     *WalletUseCase
	wallet *domain.Wallet
}

// Wallet returns the bound wallet snapshot, including totals projected by
// operations performed through this session.
func (s *WalletSession) Wallet() *domain.Wallet {
	return s.wallet
}

// Income records an income transaction on the bound wallet. No balance check
// applies to income.
func (s *WalletSession) Income(ctx context.Context, amount decimal.Decimal) (*domain.WalletTransaction, error) {
	return s.recordTransaction(ctx, amount, true)
}

// Outcome records an outcome transaction on the bound wallet. Under a
// no-credit policy the wallet total must cover the amount; the check and the
// decrement are one atomic store operation, so concurrent outcomes can never
// overdraw the wallet.
func (s *WalletSession) Outcome(ctx context.Context, amount decimal.Decimal) (*domain.WalletTransaction, error) {
	return s.recordTransaction(ctx, amount, false)
}

// CurrentTotal returns the wallet total. With since == nil the cached total is
// read back from the store. Otherwise the total is recomputed by folding every
// transaction created at or after since; the cache is ignored.
func (s *WalletSession) CurrentTotal(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	if since == nil {
		wallet, err := s.uc.walletRepo.GetByID(ctx, s.wallet.ID)
		if err != nil {
			return decimal.Zero, err
		}

		s.wallet = wallet

		return wallet.Total, nil
	}

	return s.uc.transactionRepo.SumSince(ctx, s.wallet.ID, *since)
}

// TotalBetween recomputes the wallet total by folding every transaction with
// a creation time in [from, to] inclusive. The cached total is ignored.
func (s *WalletSession) TotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.uc.transactionRepo.SumBetween(ctx, s.wallet.ID, from, to)
}

func (s *WalletSession) recordTransaction(ctx context.Context, amount decimal.Decimal, income bool) (*domain.WalletTransaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var transaction *domain.WalletTransaction

	err := s.uc.runTx(ctx, func(tx Transaction) error {
		var err error
		transaction, err = s.uc.record(ctx, tx, s.wallet, amount, income, nil, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}
