package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/notify"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
	"github.com/williamsclintwayne/YourBank-backend/internal/txid"
)

var (
	ErrSameAccount        = errors.New("cannot transfer to the same account")
	ErrMissingReference   = errors.New("reference is required")
	ErrMissingBeneficiary = errors.New("beneficiary account number is required")
)

const (
	maxIDAttempts = 5
	notifyTimeout = 10 * time.Second
)

type Request struct {
	FromAccountID   uuid.UUID
	ToAccountNumber string
	Amount          int64
	Reference       string
}

type Result struct {
	DebitTransactionID  string
	CreditTransactionID string
	SenderBalance       int64
	BeneficiaryBalance  int64
}

// Engine moves value between two accounts. Both balance updates and both
// ledger rows commit as one unit of work; every precondition is checked
// before anything is written, so failures leave no partial state.
type Engine struct {
	uow        repository.UnitOfWork
	ids        txid.Generator
	dispatcher notify.Dispatcher
	logger     *slog.Logger
}

func NewEngine(uow repository.UnitOfWork, ids txid.Generator, dispatcher notify.Dispatcher, logger *slog.Logger) *Engine {
	return &Engine{uow: uow, ids: ids, dispatcher: dispatcher, logger: logger}
}

func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	if req.Amount <= 0 {
		return nil, entity.ErrNegativeAmount
	}
	if req.Reference == "" {
		return nil, ErrMissingReference
	}
	if req.ToAccountNumber == "" {
		return nil, ErrMissingBeneficiary
	}

	tx, err := e.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	beneficiary, err := tx.Accounts().FindByNumber(ctx, req.ToAccountNumber)
	if err != nil {
		return nil, fmt.Errorf("beneficiary account: %w", err)
	}
	if beneficiary.ID() == req.FromAccountID {
		return nil, ErrSameAccount
	}

	sender, recipient, err := e.lockPair(ctx, tx, req.FromAccountID, beneficiary.ID())
	if err != nil {
		return nil, err
	}

	if err := sender.Debit(req.Amount); err != nil {
		return nil, err
	}
	if err := recipient.Credit(req.Amount); err != nil {
		return nil, err
	}

	debitID, err := e.nextID(ctx, tx.Ledger())
	if err != nil {
		return nil, err
	}
	creditID, err := e.nextID(ctx, tx.Ledger())
	if err != nil {
		return nil, err
	}
	for creditID == debitID {
		creditID, err = e.nextID(ctx, tx.Ledger())
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Accounts().Save(ctx, sender); err != nil {
		return nil, fmt.Errorf("save sender: %w", err)
	}
	if err := tx.Accounts().Save(ctx, recipient); err != nil {
		return nil, fmt.Errorf("save beneficiary: %w", err)
	}

	debit := entity.NewLedgerEntry(
		debitID, sender.ID(), entity.DirectionDebit, req.Amount,
		req.Reference, recipient.AccountNumber(), sender.Balance(), 0, entity.StatusCompleted,
	)
	credit := entity.NewLedgerEntry(
		creditID, recipient.ID(), entity.DirectionCredit, req.Amount,
		"Received from "+sender.AccountNumber(), sender.AccountNumber(),
		recipient.Balance(), 0, entity.StatusCompleted,
	)

	if err := tx.Ledger().Append(ctx, debit); err != nil {
		return nil, fmt.Errorf("record debit: %w", err)
	}
	if err := tx.Ledger().Append(ctx, credit); err != nil {
		return nil, fmt.Errorf("record credit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transfer: %w", err)
	}

	e.dispatch(sender, recipient, req.Amount, req.Reference)

	return &Result{
		DebitTransactionID:  debitID,
		CreditTransactionID: creditID,
		SenderBalance:       sender.Balance(),
		BeneficiaryBalance:  recipient.Balance(),
	}, nil
}

// lockPair locks both accounts in ascending account-id order regardless
// of transfer direction, so opposite transfers between the same pair
// cannot deadlock.
func (e *Engine) lockPair(
	ctx context.Context,
	tx repository.UnitOfWork,
	fromID, toID uuid.UUID,
) (sender, recipient *entity.Account, err error) {
	firstID, secondID := fromID, toID
	if bytes.Compare(secondID[:], firstID[:]) < 0 {
		firstID, secondID = secondID, firstID
	}

	first, err := tx.Accounts().FindByIDForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", sideName(firstID, fromID), err)
	}
	second, err := tx.Accounts().FindByIDForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", sideName(secondID, fromID), err)
	}

	if first.ID() == fromID {
		return first, second, nil
	}
	return second, first, nil
}

func sideName(id, fromID uuid.UUID) string {
	if id == fromID {
		return "sender account"
	}
	return "beneficiary account"
}

// nextID returns a transaction id verified unused against the ledger,
// regenerating on collision. The ledger's uniqueness constraint remains
// the backstop for ids raced in by a concurrent commit.
func (e *Engine) nextID(ctx context.Context, ledger repository.LedgerRepository) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := e.ids.Generate()
		_, err := ledger.FindByTransactionID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("check transaction id: %w", err)
		}
	}
	return "", fmt.Errorf("transaction id generation: %w", repository.ErrDuplicateTransactionID)
}

// dispatch notifies after commit. Best-effort: failures are logged and
// never turn a committed transfer into an error.
func (e *Engine) dispatch(sender, recipient *entity.Account, amount int64, reference string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := e.dispatcher.NotifyTransfer(ctx, sender, recipient, amount, reference); err != nil {
			e.logger.Warn("transfer notification failed", "error", err)
		}
	}()
}
