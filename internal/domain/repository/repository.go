package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
	ErrVersionConflict        = errors.New("account version conflict")
)

type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindByNumber(ctx context.Context, number string) (*entity.Account, error)
	// FindByIDForUpdate locks the account row for the duration of the
	// enclosing unit of work. Callers locking more than one account must
	// do so in ascending account-id order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Account, error)
	// Save persists balance changes, failing with ErrVersionConflict when
	// the stored version no longer matches the entity's.
	Save(ctx context.Context, account *entity.Account) error
}

type LedgerRepository interface {
	// Append fails with ErrDuplicateTransactionID when the transaction id
	// is already recorded.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	FindByTransactionID(ctx context.Context, transactionID string) (*entity.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*entity.LedgerEntry, error)
	// ListByAccountSet returns a page of entries across the given accounts,
	// newest first, along with the total entry count.
	ListByAccountSet(ctx context.Context, accountIDs []uuid.UUID, page, limit int) ([]*entity.LedgerEntry, int, error)
	SetProofGenerated(ctx context.Context, transactionID string) error
}

type OwnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error)
}
