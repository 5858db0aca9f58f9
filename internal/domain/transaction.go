package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialIncomeNote tags the income transaction recorded when a wallet is
// opened with a starting amount.
const InitialIncomeNote = "Initial income"

// WalletTransaction is a single immutable ledger movement belonging to exactly
// one wallet. Amount is always non-negative; direction is carried by Income,
// never by sign. Note and Details may be attached after creation, everything
// else is immutable.
type WalletTransaction struct {
	ID        string
	WalletID  string
	Amount    decimal.Decimal
	Income    bool
	Note      *string
	Details   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Signed returns the amount with the direction applied.
func (t *WalletTransaction) Signed() decimal.Decimal {
	if t.Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// FoldTransactions folds a transaction set into a total: income adds,
// outcome subtracts.
func FoldTransactions(transactions []*WalletTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Signed())
	}
	return total
}
