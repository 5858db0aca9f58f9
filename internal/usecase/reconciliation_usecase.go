package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies that cached wallet totals match the fold of
// the transaction ledger.
type ReconciliationUseCase struct {
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	metrics         *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case. metrics may
// be nil.
func NewReconciliationUseCase(walletRepo WalletRepository, transactionRepo TransactionRepository, m *metrics.Metrics) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		metrics:         m,
	}
}

// ReconciliationResult represents the result of a reconciliation check.
type ReconciliationResult struct {
	WalletID             string
	Currency             string
	CachedTotal          decimal.Decimal
	ComputedTotal        decimal.Decimal
	CachedAllTimeTotal   decimal.Decimal
	ComputedAllTimeTotal decimal.Decimal
	Difference           decimal.Decimal
	IsReconciled         bool
	LastChecked          time.Time
}

// CheckWallet recomputes the full ledger fold and the income-only fold for a
// wallet and compares both against the cached columns.
func (uc *ReconciliationUseCase) CheckWallet(ctx context.Context, walletID string) (*ReconciliationResult, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return uc.check(ctx, wallet)
}

// CheckAll reconciles every wallet in the store.
func (uc *ReconciliationUseCase) CheckAll(ctx context.Context) ([]*ReconciliationResult, error) {
	const pageSize = 1000

	var results []*ReconciliationResult

	for offset := 0; ; offset += pageSize {
		wallets, err := uc.walletRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, wallet := range wallets {
			result, err := uc.check(ctx, wallet)
			if err != nil {
				return nil, err
			}

			results = append(results, result)
		}

		if len(wallets) < pageSize {
			break
		}
	}

	return results, nil
}

func (uc *ReconciliationUseCase) check(ctx context.Context, wallet *domain.Wallet) (*ReconciliationResult, error) {
	total, incomeTotal, err := uc.transactionRepo.Totals(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	reconciled := wallet.Total.Equal(total) && wallet.AllTimeTotal.Equal(incomeTotal)

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		if !reconciled {
			uc.metrics.ReconciliationDrift.Inc()
		}
	}

	return &ReconciliationResult{
		WalletID:             wallet.ID,
		Currency:             wallet.Currency,
		CachedTotal:          wallet.Total,
		ComputedTotal:        total,
		CachedAllTimeTotal:   wallet.AllTimeTotal,
		ComputedAllTimeTotal: incomeTotal,
		Difference:           wallet.Total.Sub(total),
		IsReconciled:         reconciled,
		LastChecked:          time.Now().UTC(),
	}, nil
}
