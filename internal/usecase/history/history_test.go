package history_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/memory"
	"github.com/williamsclintwayne/YourBank-backend/internal/txid"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/history"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/transfer"
)

type noopDispatcher struct{}

func (noopDispatcher) NotifyTransfer(context.Context, *entity.Account, *entity.Account, int64, string) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store  *memory.Store
	engine *transfer.Engine
	alice  *entity.Owner
	bob    *entity.Owner
	acctA1 *entity.Account
	acctA2 *entity.Account
	acctB  *entity.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	alice := entity.ReconstructOwner(uuid.New(), "Alice Smith", "alice@example.com")
	bob := entity.ReconstructOwner(uuid.New(), "Bob Jones", "bob@example.com")
	store.SeedOwner(alice)
	store.SeedOwner(bob)

	acctA1 := entity.NewAccount(alice.ID(), entity.AccountSavings, "1000000001", 100000, true)
	acctA2 := entity.NewAccount(alice.ID(), entity.AccountChecking, "1000000003", 50000, false)
	acctB := entity.NewAccount(bob.ID(), entity.AccountChecking, "1000000002", 0, true)
	store.SeedAccount(acctA1)
	store.SeedAccount(acctA2)
	store.SeedAccount(acctB)

	engine := transfer.NewEngine(store, txid.NewGenerator("YB"), noopDispatcher{}, testLogger())
	return &fixture{
		store: store, engine: engine,
		alice: alice, bob: bob, acctA1: acctA1, acctA2: acctA2, acctB: acctB,
	}
}

func (f *fixture) transfer(t *testing.T, from *entity.Account, toNumber string, amount int64, reference string) {
	t.Helper()
	_, err := f.engine.Execute(context.Background(), transfer.Request{
		FromAccountID:   from.ID(),
		ToAccountNumber: toNumber,
		Amount:          amount,
		Reference:       reference,
	})
	require.NoError(t, err)
}

func TestList_AggregatesAllAccounts(t *testing.T) {
	f := newFixture(t)
	f.transfer(t, f.acctA1, "1000000002", 1000, "first")
	f.transfer(t, f.acctA2, "1000000002", 2000, "second")

	page, err := history.NewService(f.store).List(context.Background(), f.alice.ID(), 1, 20)
	require.NoError(t, err)

	// Both debit rows, none of Bob's credit rows.
	assert.Equal(t, 2, page.TotalTransactions)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Equal(t, entity.DirectionDebit, item.Direction)
		assert.Negative(t, item.SignedAmount)
		assert.True(t, item.CanGenerateProof)
		assert.False(t, item.ProofGenerated)
	}

	byRef := map[string]history.Item{}
	for _, item := range page.Items {
		byRef[item.Reference] = item
	}
	assert.Equal(t, "1000000001", byRef["first"].AccountNumber)
	assert.Equal(t, "1000000003", byRef["second"].AccountNumber)
}

func TestList_NewestFirst(t *testing.T) {
	f := newFixture(t)
	f.transfer(t, f.acctA1, "1000000002", 1000, "older")
	f.transfer(t, f.acctA1, "1000000002", 2000, "newer")

	page, err := history.NewService(f.store).List(context.Background(), f.alice.ID(), 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	first, second := page.Items[0], page.Items[1]
	assert.False(t, first.Date.Before(second.Date))
	if first.Date.After(second.Date) {
		assert.Equal(t, "newer", first.Reference)
	}
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.transfer(t, f.acctA1, "1000000002", 1000, "drip")
	}

	service := history.NewService(f.store)
	ctx := context.Background()

	page, err := service.List(ctx, f.alice.ID(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.TotalTransactions)

	last, err := service.List(ctx, f.alice.ID(), 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)

	beyond, err := service.List(ctx, f.alice.ID(), 4, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 5, beyond.TotalTransactions)
}

func TestList_ClampsPageAndLimit(t *testing.T) {
	f := newFixture(t)
	f.transfer(t, f.acctA1, "1000000002", 1000, "only")

	page, err := history.NewService(f.store).List(context.Background(), f.alice.ID(), -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 1)
}

func TestList_CreditSideForRecipient(t *testing.T) {
	f := newFixture(t)
	f.transfer(t, f.acctA1, "1000000002", 25000, "rent")

	page, err := history.NewService(f.store).List(context.Background(), f.bob.ID(), 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, entity.DirectionCredit, item.Direction)
	assert.Equal(t, "1000000002", item.AccountNumber)
	assert.Equal(t, "Received from 1000000001", item.Reference)
	assert.Positive(t, item.SignedAmount)
	assert.Equal(t, int64(25000), item.BalanceAfter)
}

func TestList_UnknownOwner(t *testing.T) {
	f := newFixture(t)

	_, err := history.NewService(f.store).List(context.Background(), uuid.New(), 1, 20)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestList_OwnerWithNoTransactions(t *testing.T) {
	f := newFixture(t)

	page, err := history.NewService(f.store).List(context.Background(), f.bob.ID(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalTransactions)
	assert.Equal(t, 1, page.TotalPages)
}
