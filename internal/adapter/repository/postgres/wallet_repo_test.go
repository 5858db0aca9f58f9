package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

func beginTx(t *testing.T, mockPool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	return tx
}

func TestWalletRepositoryCreateDuplicate(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO wallets").
		WithArgs("wallet-1", int64(1), "user", "USD",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	tx := beginTx(t, mockPool)

	repo := NewWalletRepository(nil)
	now := time.Now().UTC()

	err := repo.Create(context.Background(), tx, &domain.Wallet{
		ID:        "wallet-1",
		OwnerID:   1,
		OwnerKind: "user",
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if !errors.Is(err, domain.ErrWalletDuplicate) {
		t.Fatalf("expected ErrWalletDuplicate, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestWalletRepositoryApplyIncome(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "owner_kind", "currency", "total", "all_time_total", "created_at", "updated_at",
	}).AddRow("wallet-1", int64(1), "user", "USD", "140", "140", now, now)

	mockPool.ExpectQuery("UPDATE wallets").
		WithArgs("wallet-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	tx := beginTx(t, mockPool)

	repo := NewWalletRepository(nil)

	wallet, err := repo.ApplyIncome(context.Background(), tx, "wallet-1", decimal.NewFromInt(40), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !wallet.Total.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("total = %s, want 140", wallet.Total)
	}

	if !wallet.AllTimeTotal.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("all-time total = %s, want 140", wallet.AllTimeTotal)
	}

	assertExpectations(t, mockPool)
}

func TestWalletRepositoryApplyOutcomeInsufficientFunds(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	// The conditional update matches no row when the total cannot cover
	// the amount.
	mockPool.ExpectQuery("UPDATE wallets").
		WithArgs("wallet-1", pgxmock.AnyArg(), pgxmock.AnyArg(), true).
		WillReturnError(pgx.ErrNoRows)

	tx := beginTx(t, mockPool)

	repo := NewWalletRepository(nil)

	_, err := repo.ApplyOutcome(context.Background(), tx, "wallet-1", decimal.NewFromInt(150), true, time.Now().UTC())
	if !errors.Is(err, domain.ErrWalletEmpty) {
		t.Fatalf("expected ErrWalletEmpty, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestWalletRepositoryApplyOutcomeMissingWallet(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery("UPDATE wallets").
		WithArgs("missing", pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnError(pgx.ErrNoRows)

	tx := beginTx(t, mockPool)

	repo := NewWalletRepository(nil)

	_, err := repo.ApplyOutcome(context.Background(), tx, "missing", decimal.NewFromInt(10), false, time.Now().UTC())
	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}
