package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestWalletTransaction_Signed(t *testing.T) {
	income := &WalletTransaction{Amount: decimal.NewFromInt(50), Income: true}
	if !income.Signed().Equal(decimal.NewFromInt(50)) {
		t.Errorf("income Signed() = %s, want 50", income.Signed())
	}

	outcome := &WalletTransaction{Amount: decimal.NewFromInt(20), Income: false}
	if !outcome.Signed().Equal(decimal.NewFromInt(-20)) {
		t.Errorf("outcome Signed() = %s, want -20", outcome.Signed())
	}
}

func TestFoldTransactions(t *testing.T) {
	tests := []struct {
		name         string
		transactions []*WalletTransaction
		want         decimal.Decimal
	}{
		{
			name:         "empty ledger folds to zero",
			transactions: nil,
			want:         decimal.Zero,
		},
		{
			name: "income adds, outcome subtracts",
			transactions: []*WalletTransaction{
				{Amount: decimal.NewFromInt(100), Income: true},
				{Amount: decimal.NewFromInt(30), Income: false},
				{Amount: decimal.NewFromFloat(0.5), Income: true},
			},
			want: decimal.NewFromFloat(70.5),
		},
		{
			name: "outcomes may fold below zero",
			transactions: []*WalletTransaction{
				{Amount: decimal.NewFromInt(100), Income: true},
				{Amount: decimal.NewFromInt(150), Income: false},
			},
			want: decimal.NewFromInt(-50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldTransactions(tt.transactions); !got.Equal(tt.want) {
				t.Errorf("FoldTransactions() = %s, want %s", got, tt.want)
			}
		})
	}
}
