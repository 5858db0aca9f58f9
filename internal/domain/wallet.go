package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Owner is a polymorphic reference to the entity a wallet belongs to.
// Any entity kind can own wallets; the ledger only ever sees this pair.
type Owner struct {
	Kind string
	ID   int64
}

// Valid reports whether the owner reference can be bound to wallet operations.
func (o Owner) Valid() bool {
	return strings.TrimSpace(o.Kind) != "" && o.ID > 0
}

// Wallet represents a per-owner, per-currency balance with a cached running total.
//
// Total always equals the fold of the wallet's transactions (income adds,
// outcome subtracts). AllTimeTotal is the income-only running sum and never
// decreases.
type Wallet struct {
	ID           string
	OwnerID      int64
	OwnerKind    string
	Currency     string
	Total        decimal.Decimal
	AllTimeTotal decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Owner returns the polymorphic owner reference of the wallet.
func (w *Wallet) Owner() Owner {
	return Owner{Kind: w.OwnerKind, ID: w.OwnerID}
}

// NormalizeCurrency upper-cases a currency code the way it is stored.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// CreditPolicy governs whether an outcome may reduce a wallet total below zero.
type CreditPolicy struct {
	AllowCredit bool
}

// Allows reports whether an outcome of amount is permitted against total.
func (p CreditPolicy) Allows(total, amount decimal.Decimal) bool {
	if p.AllowCredit {
		return true
	}
	return total.Sub(amount).GreaterThanOrEqual(decimal.Zero)
}
