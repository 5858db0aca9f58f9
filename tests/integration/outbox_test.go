package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func TestOutboxEventCreation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	walletUC := usecase.NewWalletUseCase(
		txManager,
		walletRepo,
		transactionRepo,
		outboxRepo,
		idGen,
		retrier,
		nil,
		domain.CreditPolicy{AllowCredit: true},
	)

	owner := domain.Owner{Kind: "user", ID: 9}
	initial := decimal.NewFromInt(100)

	wallet, err := walletUC.OpenWallet(ctx, usecase.OpenWalletInput{
		Owner:         owner,
		Currency:      "USD",
		InitialAmount: &initial,
	})
	if err != nil {
		t.Fatalf("failed to open wallet: %v", err)
	}

	// Opening with an initial amount writes the full event trail in one
	// transaction: wallet.opened, transaction.created and wallet.updated.
	events, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get unpublished events: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 unpublished events, got %d", len(events))
	}

	var openedEvent *domain.OutboxEvent
	for _, event := range events {
		if event.EventType == domain.EventTypeWalletOpened && event.AggregateID == wallet.ID {
			openedEvent = event
			break
		}
	}

	if openedEvent == nil {
		t.Fatal("wallet opened event not found in outbox")
	}

	if openedEvent.AggregateType != domain.AggregateTypeWallet {
		t.Errorf("expected aggregate type %s, got %s", domain.AggregateTypeWallet, openedEvent.AggregateType)
	}
	if openedEvent.Published {
		t.Error("event should not be published yet")
	}
	if openedEvent.Payload["currency"] != "USD" {
		t.Errorf("payload currency mismatch: got %v", openedEvent.Payload["currency"])
	}

	// Marking published removes events from the unpublished feed
	for _, event := range events {
		if err := outboxRepo.MarkPublished(ctx, event.ID, time.Now()); err != nil {
			t.Fatalf("failed to mark event published: %v", err)
		}
	}

	remaining, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get unpublished events: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no unpublished events, got %d", len(remaining))
	}

	// The aggregate history is still queryable
	history, err := outboxRepo.GetByAggregate(ctx, domain.AggregateTypeWallet, wallet.ID, 10, 0)
	if err != nil {
		t.Fatalf("failed to get aggregate events: %v", err)
	}
	if len(history) == 0 {
		t.Error("expected aggregate events for the wallet")
	}
}
