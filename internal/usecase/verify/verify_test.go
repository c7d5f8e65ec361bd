package verify_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/memory"
	"github.com/williamsclintwayne/YourBank-backend/internal/txid"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/transfer"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/verify"
)

type noopDispatcher struct{}

func (noopDispatcher) NotifyTransfer(context.Context, *entity.Account, *entity.Account, int64, string) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedTransfer(t *testing.T) (*memory.Store, *transfer.Result) {
	t.Helper()
	store := memory.NewStore()

	alice := entity.ReconstructOwner(uuid.New(), "Alice Smith", "alice@example.com")
	bob := entity.ReconstructOwner(uuid.New(), "Bob Jones", "bob@example.com")
	store.SeedOwner(alice)
	store.SeedOwner(bob)

	sender := entity.NewAccount(alice.ID(), entity.AccountSavings, "1000000001", 100000, true)
	beneficiary := entity.NewAccount(bob.ID(), entity.AccountChecking, "1000000002", 0, true)
	store.SeedAccount(sender)
	store.SeedAccount(beneficiary)

	engine := transfer.NewEngine(store, txid.NewGenerator("YB"), noopDispatcher{}, testLogger())
	res, err := engine.Execute(context.Background(), transfer.Request{
		FromAccountID:   sender.ID(),
		ToAccountNumber: beneficiary.AccountNumber(),
		Amount:          25000,
		Reference:       "rent",
	})
	require.NoError(t, err)
	return store, res
}

func TestVerify_DebitSide(t *testing.T) {
	store, res := seedTransfer(t)
	service := verify.NewService(store, testLogger())

	result := service.Verify(context.Background(), res.DebitTransactionID)
	assert.True(t, result.Valid)
	assert.Equal(t, res.DebitTransactionID, result.TransactionID)
	assert.Equal(t, int64(25000), result.Amount)
	assert.Equal(t, "rent", result.Reference)
	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Equal(t, "Alice Smith", result.SenderName)
	assert.Equal(t, "1000000001", result.SenderAccountNumber)
}

func TestVerify_CreditSideNamesSender(t *testing.T) {
	store, res := seedTransfer(t)
	service := verify.NewService(store, testLogger())

	result := service.Verify(context.Background(), res.CreditTransactionID)
	assert.True(t, result.Valid)
	assert.Equal(t, "Alice Smith", result.SenderName)
	assert.Equal(t, "1000000001", result.SenderAccountNumber)
}

func TestVerify_ExternalSender(t *testing.T) {
	store, _ := seedTransfer(t)
	ctx := context.Background()

	account, err := store.Accounts().FindByNumber(ctx, "1000000002")
	require.NoError(t, err)

	entry := entity.NewLedgerEntry(
		"YB99999999ZZZZZZ", account.ID(), entity.DirectionCredit, 7000,
		"Received from 8888888888", "8888888888", 7000, 0, entity.StatusCompleted,
	)
	require.NoError(t, store.Ledger().Append(ctx, entry))

	result := verify.NewService(store, testLogger()).Verify(ctx, entry.TransactionID())
	assert.True(t, result.Valid)
	assert.Equal(t, "External Account", result.SenderName)
	assert.Equal(t, "8888888888", result.SenderAccountNumber)
}

func TestVerify_UnknownID(t *testing.T) {
	store, _ := seedTransfer(t)
	service := verify.NewService(store, testLogger())

	result := service.Verify(context.Background(), "YB00000000XXXXXX")
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, result.TransactionID)
	assert.Empty(t, result.SenderName)
}

func TestVerify_Idempotent(t *testing.T) {
	store, res := seedTransfer(t)
	service := verify.NewService(store, testLogger())
	ctx := context.Background()

	first := service.Verify(ctx, res.DebitTransactionID)
	second := service.Verify(ctx, res.DebitTransactionID)
	assert.Equal(t, first, second)

	missFirst := service.Verify(ctx, "YB00000000XXXXXX")
	missSecond := service.Verify(ctx, "YB00000000XXXXXX")
	assert.Equal(t, missFirst, missSecond)
}
