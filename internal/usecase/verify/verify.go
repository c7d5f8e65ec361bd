package verify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
)

const invalidMessage = "This payment could not be verified."

// Result is everything the public verification surface may disclose.
// Invalid lookups all collapse into one generic message so callers cannot
// probe which transaction ids exist.
type Result struct {
	Valid               bool
	Message             string
	TransactionID       string
	Amount              int64
	Date                time.Time
	Reference           string
	Status              entity.TransactionStatus
	SenderName          string
	SenderAccountNumber string
}

// Service answers unauthenticated verification lookups, typically scanned
// from the QR code on a receipt.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Verify never returns an error: unknown ids and internal failures both
// yield the same invalid result. Repeated calls give the same answer.
func (s *Service) Verify(ctx context.Context, transactionID string) *Result {
	entry, err := s.uow.Ledger().FindByTransactionID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("verification lookup failed",
				"transaction_id", transactionID, "error", err)
		}
		return &Result{Valid: false, Message: invalidMessage}
	}

	name, number, err := s.senderFacts(ctx, entry)
	if err != nil {
		s.logger.Warn("verification sender lookup failed",
			"transaction_id", transactionID, "error", err)
		return &Result{Valid: false, Message: invalidMessage}
	}

	return &Result{
		Valid:               true,
		Message:             "Payment verified",
		TransactionID:       entry.TransactionID(),
		Amount:              entry.Amount(),
		Date:                entry.CreatedAt(),
		Reference:           entry.Reference(),
		Status:              entry.Status(),
		SenderName:          name,
		SenderAccountNumber: number,
	}
}

// senderFacts resolves who paid. For a debit row that is the owning
// account; for a credit row it is the counterparty, which may be held at
// another bank.
func (s *Service) senderFacts(ctx context.Context, entry *entity.LedgerEntry) (name, number string, err error) {
	if entry.Direction() == entity.DirectionDebit {
		account, err := s.uow.Accounts().FindByID(ctx, entry.AccountID())
		if err != nil {
			return "", "", err
		}
		owner, err := s.uow.Owners().FindByID(ctx, account.OwnerID())
		if err != nil {
			return "", "", err
		}
		return owner.Name(), account.AccountNumber(), nil
	}

	account, err := s.uow.Accounts().FindByNumber(ctx, entry.Counterparty())
	if errors.Is(err, repository.ErrNotFound) {
		return "External Account", entry.Counterparty(), nil
	}
	if err != nil {
		return "", "", err
	}
	owner, err := s.uow.Owners().FindByID(ctx, account.OwnerID())
	if err != nil {
		return "", "", err
	}
	return owner.Name(), account.AccountNumber(), nil
}
