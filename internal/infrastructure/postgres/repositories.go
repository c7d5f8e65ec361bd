package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
)

const uniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repositories serve plain reads and transactional work.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{pool: u.pool, tx: tx}, nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}

func (u *UnitOfWork) q() querier {
	if u.tx != nil {
		return u.tx
	}
	return u.pool
}

func (u *UnitOfWork) Accounts() repository.AccountRepository {
	return &AccountRepo{q: u.q()}
}

func (u *UnitOfWork) Ledger() repository.LedgerRepository {
	return &LedgerRepo{q: u.q()}
}

func (u *UnitOfWork) Owners() repository.OwnerRepository {
	return &OwnerRepo{q: u.q()}
}

type AccountRepo struct {
	q querier
}

const accountColumns = `id, owner_id, account_type, account_number, balance, is_primary, version`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		id, ownerID   uuid.UUID
		accountType   string
		accountNumber string
		balance       int64
		isPrimary     bool
		version       int64
	)
	err := row.Scan(&id, &ownerID, &accountType, &accountNumber, &balance, &isPrimary, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entity.ReconstructAccount(
		id, ownerID, entity.AccountType(accountType), accountNumber, balance, isPrimary, version,
	), nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return scanAccount(r.q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepo) FindByNumber(ctx context.Context, number string) (*entity.Account, error) {
	return scanAccount(r.q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number))
}

func (r *AccountRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return scanAccount(r.q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
}

func (r *AccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Account, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 ORDER BY account_number`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepo) Save(ctx context.Context, account *entity.Account) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE accounts SET balance = $1, version = version + 1 WHERE id = $2 AND version = $3`,
		account.Balance(), account.ID(), account.Version(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVersionConflict
	}
	return nil
}

type LedgerRepo struct {
	q querier
}

const ledgerColumns = `transaction_id, account_id, direction, amount, reference,
	counterparty, balance_after, fee, status, created_at, proof_generated`

func scanEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var (
		transactionID  string
		accountID      uuid.UUID
		direction      string
		amount         int64
		reference      string
		counterparty   string
		balanceAfter   int64
		fee            int64
		status         string
		createdAt      time.Time
		proofGenerated bool
	)
	err := row.Scan(&transactionID, &accountID, &direction, &amount, &reference,
		&counterparty, &balanceAfter, &fee, &status, &createdAt, &proofGenerated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entity.ReconstructLedgerEntry(
		transactionID, accountID, entity.Direction(direction), amount, reference,
		counterparty, balanceAfter, fee, entity.TransactionStatus(status),
		createdAt, proofGenerated,
	), nil
}

func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO ledger_entries
		 (transaction_id, account_id, direction, amount, reference,
		  counterparty, balance_after, fee, status, created_at, proof_generated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.TransactionID(), e.AccountID(), string(e.Direction()), e.Amount(), e.Reference(),
		e.Counterparty(), e.BalanceAfter(), e.Fee(), string(e.Status()), e.CreatedAt(), e.ProofGenerated(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateTransactionID
	}
	return err
}

func (r *LedgerRepo) FindByTransactionID(ctx context.Context, transactionID string) (*entity.LedgerEntry, error) {
	return scanEntry(r.q.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE transaction_id = $1`, transactionID))
}

func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*entity.LedgerEntry, error) {
	entries, _, err := r.ListByAccountSet(ctx, []uuid.UUID{accountID}, page, limit)
	return entries, err
}

func (r *LedgerRepo) ListByAccountSet(ctx context.Context, accountIDs []uuid.UUID, page, limit int) ([]*entity.LedgerEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE account_id = ANY($1)`, accountIDs,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		 WHERE account_id = ANY($1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		accountIDs, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *LedgerRepo) SetProofGenerated(ctx context.Context, transactionID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE ledger_entries SET proof_generated = TRUE WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type OwnerRepo struct {
	q querier
}

func (r *OwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error) {
	var (
		name  string
		email string
	)
	err := r.q.QueryRow(ctx,
		`SELECT name, email FROM owners WHERE id = $1`, id,
	).Scan(&name, &email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entity.ReconstructOwner(id, name, email), nil
}
