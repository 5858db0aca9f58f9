package domain

import "errors"

var (
	// Context errors
	ErrInvalidContext = errors.New("no valid wallet owner bound")

	// Wallet errors
	ErrWalletDuplicate = errors.New("wallet already exists for currency")
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrWalletEmpty     = errors.New("wallet balance does not cover outcome")

	// Transaction errors
	ErrTransactionNotFound = errors.New("wallet transaction not found")
	ErrInvalidAmount       = errors.New("amount must not be negative")
)
