package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// OpenWalletRequest represents a request to open a wallet.
type OpenWalletRequest struct {
	Currency      string           `json:"currency"`
	InitialAmount *decimal.Decimal `json:"initial_amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenWalletRequest) ToUseCaseInput(owner domain.Owner) usecase.OpenWalletInput {
	return usecase.OpenWalletInput{
		Owner:         owner,
		Currency:      r.Currency,
		InitialAmount: r.InitialAmount,
	}
}

// TransactionRequest represents an income or outcome request.
type TransactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// NoteRequest represents a request to attach a note to a transaction.
type NoteRequest struct {
	Note string `json:"note"`
}

// DetailsRequest represents a request to attach details to a transaction.
type DetailsRequest struct {
	Details map[string]any `json:"details"`
}
