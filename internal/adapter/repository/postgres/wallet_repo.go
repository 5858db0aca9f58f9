package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const walletColumns = `id, owner_id, owner_kind, currency, total, all_time_total, created_at, updated_at`

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) querier(tx usecase.Transaction) querier {
	if tx != nil {
		return tx.(*Tx).PgxTx()
	}

	return r.pool
}

// Create inserts a wallet. The (owner_kind, owner_id, currency) unique index
// maps to domain.ErrWalletDuplicate.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	const query = `
		INSERT INTO wallets (id, owner_id, owner_kind, currency, total, all_time_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.querier(tx).Exec(ctx, query,
		wallet.ID,
		wallet.OwnerID,
		wallet.OwnerKind,
		wallet.Currency,
		decimalToNumeric(wallet.Total),
		decimalToNumeric(wallet.AllTimeTotal),
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrWalletDuplicate
		}

		return err
	}

	return nil
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	const query = `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByOwnerAndCurrency retrieves the owner's wallet for a currency.
func (r *WalletRepository) GetByOwnerAndCurrency(ctx context.Context, owner domain.Owner, currency string) (*domain.Wallet, error) {
	const query = `SELECT ` + walletColumns + ` FROM wallets
		WHERE owner_kind = $1 AND owner_id = $2 AND currency = $3`

	return r.scanWallet(r.pool.QueryRow(ctx, query, owner.Kind, owner.ID, currency))
}

// ListByOwner retrieves every wallet of the owner in insertion order.
func (r *WalletRepository) ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Wallet, error) {
	const query = `SELECT ` + walletColumns + ` FROM wallets
		WHERE owner_kind = $1 AND owner_id = $2
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, owner.Kind, owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanWallets(rows)
}

// List lists wallets with pagination.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	const query = `SELECT ` + walletColumns + ` FROM wallets
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanWallets(rows)
}

// ApplyIncome atomically adds amount to total and all_time_total.
func (r *WalletRepository) ApplyIncome(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error) {
	const query = `
		UPDATE wallets
		SET total = total + $2, all_time_total = all_time_total + $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + walletColumns

	return r.scanWallet(r.querier(tx).QueryRow(ctx, query, id, decimalToNumeric(amount), timeToPgTimestamptz(updatedAt)))
}

// ApplyOutcome atomically subtracts amount from total. With requireFunds the
// update is conditional on the current total covering the amount; when it does
// not, no row matches and domain.ErrWalletEmpty is returned with the wallet
// untouched. The check and the decrement are one statement, so concurrent
// outcomes cannot overdraw the wallet.
func (r *WalletRepository) ApplyOutcome(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, requireFunds bool, updatedAt time.Time) (*domain.Wallet, error) {
	const query = `
		UPDATE wallets
		SET total = total - $2, updated_at = $3
		WHERE id = $1 AND ($4 = false OR total >= $2)
		RETURNING ` + walletColumns

	wallet, err := r.scanWallet(r.querier(tx).QueryRow(ctx, query,
		id, decimalToNumeric(amount), timeToPgTimestamptz(updatedAt), requireFunds))
	if err != nil {
		if requireFunds && errors.Is(err, domain.ErrWalletNotFound) {
			return nil, domain.ErrWalletEmpty
		}

		return nil, err
	}

	return wallet, nil
}

func (r *WalletRepository) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet               domain.Wallet
		total, allTimeTotal  pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.OwnerKind,
		&wallet.Currency,
		&total,
		&allTimeTotal,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	wallet.Total = numericToDecimal(total)
	wallet.AllTimeTotal = numericToDecimal(allTimeTotal)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}

func (r *WalletRepository) scanWallets(rows pgx.Rows) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet

	for rows.Next() {
		wallet, err := r.scanWallet(rows)
		if err != nil {
			return nil, err
		}

		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}
