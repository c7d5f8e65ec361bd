package repository

import "context"

// UnitOfWork scopes repository access. The root unit of work serves plain
// reads; Begin returns a transactional one whose writes become visible
// atomically on Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) (UnitOfWork, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Accounts() AccountRepository
	Ledger() LedgerRepository
	Owners() OwnerRepository
}
