package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

// Every mutating operation must run under the retrier so transient store
// failures are retried with a fresh transaction.
func TestWalletUseCase_RetrierWrapsTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	retries := 0

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().
		Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, operation func() error) error {
			retries++
			return operation()
		}).
		AnyTimes()

	txManager := mocks.NewMockTxManager()
	walletRepo := mocks.NewMockWalletRepository()
	transactionRepo := mocks.NewMockTransactionRepository()
	outboxRepo := mocks.NewMockOutboxRepository()

	uc := usecase.NewWalletUseCase(
		txManager,
		walletRepo,
		transactionRepo,
		outboxRepo,
		mocks.NewMockIDGenerator(),
		retrier,
		nil,
		domain.CreditPolicy{AllowCredit: true},
	)

	ctx := context.Background()

	if _, err := uc.OpenWallet(ctx, usecase.OpenWalletInput{Owner: testOwner, Currency: "USD"}); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	session, err := uc.Select(ctx, testOwner, "USD")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if _, err := session.Income(ctx, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("income failed: %v", err)
	}

	if _, err := session.Outcome(ctx, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("outcome failed: %v", err)
	}

	// Open, income and outcome each run one store transaction.
	if retries != 3 {
		t.Errorf("retrier invoked %d times, want 3", retries)
	}
}
