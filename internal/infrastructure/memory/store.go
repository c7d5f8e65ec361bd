// Package memory implements the repository contracts in process memory.
// It backs the test suites and any environment without Postgres. A
// transactional unit of work holds the store lock from Begin until
// Commit or Rollback, so staged writes become visible atomically.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
)

type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
	byNumber map[string]uuid.UUID
	entries  []*entity.LedgerEntry
	byTxID   map[string]int
	owners   map[uuid.UUID]*entity.Owner
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*entity.Account),
		byNumber: make(map[string]uuid.UUID),
		byTxID:   make(map[string]int),
		owners:   make(map[uuid.UUID]*entity.Owner),
	}
}

func (s *Store) SeedOwner(o *entity.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[o.ID()] = o
}

func (s *Store) SeedAccount(a *entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID()] = copyAccount(a)
	s.byNumber[a.AccountNumber()] = a.ID()
}

func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	s.mu.Lock()
	return &Tx{
		s:      s,
		staged: make(map[uuid.UUID]*entity.Account),
	}, nil
}

func (s *Store) Commit(ctx context.Context) error {
	return nil
}

func (s *Store) Rollback(ctx context.Context) error {
	return nil
}

func (s *Store) Accounts() repository.AccountRepository {
	return &rootAccounts{s: s}
}

func (s *Store) Ledger() repository.LedgerRepository {
	return &rootLedger{s: s}
}

func (s *Store) Owners() repository.OwnerRepository {
	return &rootOwners{s: s}
}

// Tx stages writes under the store lock acquired by Begin.
type Tx struct {
	s        *Store
	done     bool
	staged   map[uuid.UUID]*entity.Account
	appended []*entity.LedgerEntry
}

func (t *Tx) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	return nil, errors.New("memory: nested transactions not supported")
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("memory: transaction already finished")
	}
	for id, a := range t.staged {
		t.s.accounts[id] = entity.ReconstructAccount(
			a.ID(), a.OwnerID(), a.Type(), a.AccountNumber(),
			a.Balance(), a.IsPrimary(), a.Version()+1,
		)
	}
	for _, e := range t.appended {
		t.s.byTxID[e.TransactionID()] = len(t.s.entries)
		t.s.entries = append(t.s.entries, e)
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *Tx) Accounts() repository.AccountRepository {
	return &txAccounts{t: t}
}

func (t *Tx) Ledger() repository.LedgerRepository {
	return &txLedger{t: t}
}

func (t *Tx) Owners() repository.OwnerRepository {
	return &txOwners{t: t}
}

type txAccounts struct {
	t *Tx
}

func (r *txAccounts) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return r.find(id)
}

func (r *txAccounts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	// The whole store is locked for the transaction's duration, so a plain
	// read already has update semantics here.
	return r.find(id)
}

func (r *txAccounts) find(id uuid.UUID) (*entity.Account, error) {
	if a, ok := r.t.staged[id]; ok {
		return copyAccount(a), nil
	}
	a, ok := r.t.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyAccount(a), nil
}

func (r *txAccounts) FindByNumber(ctx context.Context, number string) (*entity.Account, error) {
	id, ok := r.t.s.byNumber[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.find(id)
}

func (r *txAccounts) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Account, error) {
	return listByOwner(r.t.s, ownerID), nil
}

func (r *txAccounts) Save(ctx context.Context, account *entity.Account) error {
	current, ok := r.t.s.accounts[account.ID()]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Version() != account.Version() {
		return repository.ErrVersionConflict
	}
	r.t.staged[account.ID()] = copyAccount(account)
	return nil
}

type txLedger struct {
	t *Tx
}

func (r *txLedger) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if _, ok := r.t.s.byTxID[entry.TransactionID()]; ok {
		return repository.ErrDuplicateTransactionID
	}
	for _, staged := range r.t.appended {
		if staged.TransactionID() == entry.TransactionID() {
			return repository.ErrDuplicateTransactionID
		}
	}
	r.t.appended = append(r.t.appended, copyEntry(entry))
	return nil
}

func (r *txLedger) FindByTransactionID(ctx context.Context, transactionID string) (*entity.LedgerEntry, error) {
	for _, staged := range r.t.appended {
		if staged.TransactionID() == transactionID {
			return copyEntry(staged), nil
		}
	}
	return findCommitted(r.t.s, transactionID)
}

func (r *txLedger) ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*entity.LedgerEntry, error) {
	entries, _ := listBySet(r.t.s, []uuid.UUID{accountID}, page, limit)
	return entries, nil
}

func (r *txLedger) ListByAccountSet(ctx context.Context, accountIDs []uuid.UUID, page, limit int) ([]*entity.LedgerEntry, int, error) {
	entries, total := listBySet(r.t.s, accountIDs, page, limit)
	return entries, total, nil
}

func (r *txLedger) SetProofGenerated(ctx context.Context, transactionID string) error {
	return setProofGenerated(r.t.s, transactionID)
}

type txOwners struct {
	t *Tx
}

func (r *txOwners) FindByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error) {
	o, ok := r.t.s.owners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

type rootAccounts struct {
	s *Store
}

func (r *rootAccounts) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyAccount(a), nil
}

func (r *rootAccounts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return r.FindByID(ctx, id)
}

func (r *rootAccounts) FindByNumber(ctx context.Context, number string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.byNumber[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyAccount(r.s.accounts[id]), nil
}

func (r *rootAccounts) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return listByOwner(r.s, ownerID), nil
}

func (r *rootAccounts) Save(ctx context.Context, account *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.accounts[account.ID()]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Version() != account.Version() {
		return repository.ErrVersionConflict
	}
	r.s.accounts[account.ID()] = entity.ReconstructAccount(
		account.ID(), account.OwnerID(), account.Type(), account.AccountNumber(),
		account.Balance(), account.IsPrimary(), account.Version()+1,
	)
	return nil
}

type rootLedger struct {
	s *Store
}

func (r *rootLedger) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.byTxID[entry.TransactionID()]; ok {
		return repository.ErrDuplicateTransactionID
	}
	r.s.byTxID[entry.TransactionID()] = len(r.s.entries)
	r.s.entries = append(r.s.entries, copyEntry(entry))
	return nil
}

func (r *rootLedger) FindByTransactionID(ctx context.Context, transactionID string) (*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return findCommitted(r.s, transactionID)
}

func (r *rootLedger) ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries, _ := listBySet(r.s, []uuid.UUID{accountID}, page, limit)
	return entries, nil
}

func (r *rootLedger) ListByAccountSet(ctx context.Context, accountIDs []uuid.UUID, page, limit int) ([]*entity.LedgerEntry, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries, total := listBySet(r.s, accountIDs, page, limit)
	return entries, total, nil
}

func (r *rootLedger) SetProofGenerated(ctx context.Context, transactionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return setProofGenerated(r.s, transactionID)
}

type rootOwners struct {
	s *Store
}

func (r *rootOwners) FindByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.owners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func listByOwner(s *Store, ownerID uuid.UUID) []*entity.Account {
	var out []*entity.Account
	for _, a := range s.accounts {
		if a.OwnerID() == ownerID {
			out = append(out, copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountNumber() < out[j].AccountNumber()
	})
	return out
}

func findCommitted(s *Store, transactionID string) (*entity.LedgerEntry, error) {
	idx, ok := s.byTxID[transactionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyEntry(s.entries[idx]), nil
}

func setProofGenerated(s *Store, transactionID string) error {
	idx, ok := s.byTxID[transactionID]
	if !ok {
		return repository.ErrNotFound
	}
	e := s.entries[idx]
	s.entries[idx] = entity.ReconstructLedgerEntry(
		e.TransactionID(), e.AccountID(), e.Direction(), e.Amount(),
		e.Reference(), e.Counterparty(), e.BalanceAfter(), e.Fee(),
		e.Status(), e.CreatedAt(), true,
	)
	return nil
}

// listBySet returns a page of matching entries, newest first, plus the
// total match count. Entries with equal timestamps keep append order.
func listBySet(s *Store, accountIDs []uuid.UUID, page, limit int) ([]*entity.LedgerEntry, int) {
	ids := make(map[uuid.UUID]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = struct{}{}
	}
	var matched []*entity.LedgerEntry
	for _, e := range s.entries {
		if _, ok := ids[e.AccountID()]; ok {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]*entity.LedgerEntry, 0, end-start)
	for _, e := range matched[start:end] {
		out = append(out, copyEntry(e))
	}
	return out, len(matched)
}

func copyAccount(a *entity.Account) *entity.Account {
	return entity.ReconstructAccount(
		a.ID(), a.OwnerID(), a.Type(), a.AccountNumber(),
		a.Balance(), a.IsPrimary(), a.Version(),
	)
}

func copyEntry(e *entity.LedgerEntry) *entity.LedgerEntry {
	return entity.ReconstructLedgerEntry(
		e.TransactionID(), e.AccountID(), e.Direction(), e.Amount(),
		e.Reference(), e.Counterparty(), e.BalanceAfter(), e.Fee(),
		e.Status(), e.CreatedAt(), e.ProofGenerated(),
	)
}
