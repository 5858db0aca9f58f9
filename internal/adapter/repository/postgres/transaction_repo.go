package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const transactionColumns = `id, wallet_id, amount, income, note, details, created_at, updated_at`

// signedSumExpr folds entries with their direction: income adds, outcome
// subtracts.
const signedSumExpr = `COALESCE(SUM(CASE WHEN income THEN amount ELSE -amount END), 0)`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) querier(tx usecase.Transaction) querier {
	if tx != nil {
		return tx.(*Tx).PgxTx()
	}

	return r.pool
}

// Create inserts a wallet transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.WalletTransaction) error {
	const query = `
		INSERT INTO wallet_transactions (id, wallet_id, amount, income, note, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var details []byte
	if transaction.Details != nil {
		var err error
		details, err = json.Marshal(transaction.Details)
		if err != nil {
			return err
		}
	}

	_, err := r.querier(tx).Exec(ctx, query,
		transaction.ID,
		transaction.WalletID,
		decimalToNumeric(transaction.Amount),
		transaction.Income,
		transaction.Note,
		details,
		timeToPgTimestamptz(transaction.CreatedAt),
		timeToPgTimestamptz(transaction.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListByWallet retrieves a wallet's transactions oldest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.WalletTransaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.WalletTransaction

	for rows.Next() {
		transaction, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

// SumSince folds every transaction created at or after since.
func (r *TransactionRepository) SumSince(ctx context.Context, walletID string, since time.Time) (decimal.Decimal, error) {
	const query = `SELECT ` + signedSumExpr + ` FROM wallet_transactions
		WHERE wallet_id = $1 AND created_at >= $2`

	return r.scanSum(r.pool.QueryRow(ctx, query, walletID, timeToPgTimestamptz(since)))
}

// SumBetween folds every transaction created within [from, to] inclusive.
func (r *TransactionRepository) SumBetween(ctx context.Context, walletID string, from, to time.Time) (decimal.Decimal, error) {
	const query = `SELECT ` + signedSumExpr + ` FROM wallet_transactions
		WHERE wallet_id = $1 AND created_at >= $2 AND created_at <= $3`

	return r.scanSum(r.pool.QueryRow(ctx, query, walletID, timeToPgTimestamptz(from), timeToPgTimestamptz(to)))
}

// Totals folds the full ledger of a wallet: the signed total and the
// income-only total.
func (r *TransactionRepository) Totals(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	const query = `SELECT ` + signedSumExpr + `,
		COALESCE(SUM(CASE WHEN income THEN amount ELSE 0 END), 0)
		FROM wallet_transactions WHERE wallet_id = $1`

	var total, incomeTotal pgtype.Numeric

	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&total, &incomeTotal); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(total), numericToDecimal(incomeTotal), nil
}

// UpdateNote sets the note of a transaction.
func (r *TransactionRepository) UpdateNote(ctx context.Context, id string, note string, updatedAt time.Time) (*domain.WalletTransaction, error) {
	const query = `
		UPDATE wallet_transactions
		SET note = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + transactionColumns

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id, note, timeToPgTimestamptz(updatedAt)))
}

// UpdateDetails sets the structured details of a transaction.
func (r *TransactionRepository) UpdateDetails(ctx context.Context, id string, details map[string]any, updatedAt time.Time) (*domain.WalletTransaction, error) {
	const query = `
		UPDATE wallet_transactions
		SET details = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + transactionColumns

	payload, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id, payload, timeToPgTimestamptz(updatedAt)))
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.WalletTransaction, error) {
	var (
		transaction          domain.WalletTransaction
		amount               pgtype.Numeric
		note                 pgtype.Text
		details              []byte
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&transaction.ID,
		&transaction.WalletID,
		&amount,
		&transaction.Income,
		&note,
		&details,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	transaction.Amount = numericToDecimal(amount)
	transaction.Note = textToPtr(note)
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time

	if len(details) > 0 {
		if err := json.Unmarshal(details, &transaction.Details); err != nil {
			return nil, err
		}
	}

	return &transaction, nil
}

func (r *TransactionRepository) scanSum(row pgx.Row) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}
