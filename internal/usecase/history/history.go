package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Item is one ledger row shaped for display, with the owning account
// resolved to its number.
type Item struct {
	TransactionID    string
	AccountNumber    string
	Direction        entity.Direction
	Amount           int64
	SignedAmount     int64
	Reference        string
	Counterparty     string
	BalanceAfter     int64
	Status           entity.TransactionStatus
	Date             time.Time
	ProofGenerated   bool
	CanGenerateProof bool
}

// Page is one page of an owner's history across all their accounts,
// newest first.
type Page struct {
	Items             []Item
	CurrentPage       int
	TotalPages        int
	TotalTransactions int
}

type Service struct {
	uow repository.UnitOfWork
}

func NewService(uow repository.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// List returns the owner's transactions across every account they hold,
// date-descending. Page and limit are clamped to sane bounds.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if _, err := s.uow.Owners().FindByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("owner %s: %w", ownerID, err)
	}

	accounts, err := s.uow.Accounts().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("accounts for owner %s: %w", ownerID, err)
	}

	numbers := make(map[uuid.UUID]string, len(accounts))
	ids := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		numbers[account.ID()] = account.AccountNumber()
		ids = append(ids, account.ID())
	}

	entries, total, err := s.uow.Ledger().ListByAccountSet(ctx, ids, page, limit)
	if err != nil {
		return nil, fmt.Errorf("history for owner %s: %w", ownerID, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{
			TransactionID:    entry.TransactionID(),
			AccountNumber:    numbers[entry.AccountID()],
			Direction:        entry.Direction(),
			Amount:           entry.Amount(),
			SignedAmount:     entry.SignedAmount(),
			Reference:        entry.Reference(),
			Counterparty:     entry.Counterparty(),
			BalanceAfter:     entry.BalanceAfter(),
			Status:           entry.Status(),
			Date:             entry.CreatedAt(),
			ProofGenerated:   entry.ProofGenerated(),
			CanGenerateProof: entry.CanGenerateProof(),
		})
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &Page{
		Items:             items,
		CurrentPage:       page,
		TotalPages:        totalPages,
		TotalTransactions: total,
	}, nil
}
