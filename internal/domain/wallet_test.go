package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreditPolicy_Allows(t *testing.T) {
	tests := []struct {
		name        string
		allowCredit bool
		total       decimal.Decimal
		amount      decimal.Decimal
		want        bool
	}{
		{
			name:        "credit allowed - overdraw permitted",
			allowCredit: true,
			total:       decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(150),
			want:        true,
		},
		{
			name:        "credit disallowed - overdraw rejected",
			allowCredit: false,
			total:       decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(150),
			want:        false,
		},
		{
			name:        "credit disallowed - exact balance permitted",
			allowCredit: false,
			total:       decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(100),
			want:        true,
		},
		{
			name:        "credit disallowed - below balance permitted",
			allowCredit: false,
			total:       decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(50),
			want:        true,
		},
		{
			name:        "credit disallowed - negative total rejects any outcome",
			allowCredit: false,
			total:       decimal.NewFromInt(-10),
			amount:      decimal.NewFromInt(1),
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := CreditPolicy{AllowCredit: tt.allowCredit}

			if got := policy.Allows(tt.total, tt.amount); got != tt.want {
				t.Errorf("Allows(%s, %s) = %v, want %v", tt.total, tt.amount, got, tt.want)
			}
		})
	}
}

func TestOwner_Valid(t *testing.T) {
	tests := []struct {
		name  string
		owner Owner
		want  bool
	}{
		{name: "valid owner", owner: Owner{Kind: "user", ID: 1}, want: true},
		{name: "missing kind", owner: Owner{ID: 1}, want: false},
		{name: "blank kind", owner: Owner{Kind: "   ", ID: 1}, want: false},
		{name: "zero id", owner: Owner{Kind: "user"}, want: false},
		{name: "negative id", owner: Owner{Kind: "user", ID: -3}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.owner.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"usd", "USD"},
		{"USD", "USD"},
		{" eur ", "EUR"},
		{"pLn", "PLN"},
	}

	for _, tt := range tests {
		if got := NormalizeCurrency(tt.in); got != tt.want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
