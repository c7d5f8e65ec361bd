package proof

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/williamsclintwayne/YourBank-backend/internal/currency"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/artifact"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/document"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/qrcode"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
)

var (
	ErrAccessDenied = errors.New("transaction belongs to another owner")
	ErrTooManyIDs   = errors.New("too many transaction ids for one batch")
)

// MaxBulkIDs caps how many receipts a single bulk request may render.
const MaxBulkIDs = 10

const externalAccountName = "External Account"

const dateLayout = "02 Jan 2006 15:04"

// Rendered is one finished receipt, ready to stream or store.
type Rendered struct {
	Bytes    []byte
	FileName string
}

// BulkResult reports the outcome of one id in a bulk render.
type BulkResult struct {
	TransactionID string
	FileName      string
	Err           error
}

// StatusInfo summarises whether a receipt exists or can exist for a
// transaction.
type StatusInfo struct {
	TransactionID    string
	Status           entity.TransactionStatus
	Amount           int64
	Date             time.Time
	Reference        string
	ProofGenerated   bool
	CanGenerateProof bool
}

// Service renders proof-of-payment receipts. The document structure is
// assembled here; the renderer only knows how to draw blocks, and the QR
// generator only knows how to encode a payload.
type Service struct {
	uow           repository.UnitOfWork
	renderer      document.Renderer
	qr            qrcode.Generator
	store         artifact.Store
	bankName      string
	verifyBaseURL string
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(
	uow repository.UnitOfWork,
	renderer document.Renderer,
	qr qrcode.Generator,
	store artifact.Store,
	bankName, verifyBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:           uow,
		renderer:      renderer,
		qr:            qr,
		store:         store,
		bankName:      bankName,
		verifyBaseURL: strings.TrimRight(verifyBaseURL, "/"),
		logger:        logger,
		now:           time.Now,
	}
}

// Render produces the receipt for one transaction, persists it under a
// unique artifact name and marks the ledger row as proven.
func (s *Service) Render(ctx context.Context, transactionID string) (*Rendered, error) {
	entry, err := s.uow.Ledger().FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, err)
	}

	doc, err := s.buildDocument(ctx, entry)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	name := fmt.Sprintf("proof_%s_%d.pdf", entry.TransactionID(), s.now().UnixMilli())
	if err := s.store.Put(ctx, name, data); err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	if err := s.uow.Ledger().SetProofGenerated(ctx, entry.TransactionID()); err != nil {
		// The receipt already exists; the flag is advisory.
		s.logger.Warn("failed to flag proof generated",
			"transaction_id", entry.TransactionID(), "error", err)
	}

	return &Rendered{Bytes: data, FileName: name}, nil
}

// RenderMany renders up to MaxBulkIDs receipts, reporting per-id outcomes.
func (s *Service) RenderMany(ctx context.Context, transactionIDs []string) ([]BulkResult, error) {
	if len(transactionIDs) == 0 {
		return nil, errors.New("no transaction ids given")
	}
	if len(transactionIDs) > MaxBulkIDs {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManyIDs, len(transactionIDs), MaxBulkIDs)
	}

	results := make([]BulkResult, 0, len(transactionIDs))
	for _, id := range transactionIDs {
		rendered, err := s.Render(ctx, id)
		if err != nil {
			results = append(results, BulkResult{TransactionID: id, Err: err})
			continue
		}
		results = append(results, BulkResult{TransactionID: id, FileName: rendered.FileName})
	}
	return results, nil
}

// Status reports receipt availability for a transaction.
func (s *Service) Status(ctx context.Context, transactionID string) (*StatusInfo, error) {
	entry, err := s.uow.Ledger().FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, err)
	}
	return &StatusInfo{
		TransactionID:    entry.TransactionID(),
		Status:           entry.Status(),
		Amount:           entry.Amount(),
		Date:             entry.CreatedAt(),
		Reference:        entry.Reference(),
		ProofGenerated:   entry.ProofGenerated(),
		CanGenerateProof: entry.CanGenerateProof(),
	}, nil
}

// Authorize confirms the caller owns the account behind a transaction.
func (s *Service) Authorize(ctx context.Context, transactionID string, ownerID uuid.UUID) error {
	entry, err := s.uow.Ledger().FindByTransactionID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", transactionID, err)
	}
	account, err := s.uow.Accounts().FindByID(ctx, entry.AccountID())
	if err != nil {
		return fmt.Errorf("account for transaction %s: %w", transactionID, err)
	}
	if account.OwnerID() != ownerID {
		return ErrAccessDenied
	}
	return nil
}

type party struct {
	name          string
	accountNumber string
	accountType   string
}

func (s *Service) buildDocument(ctx context.Context, entry *entity.LedgerEntry) (*document.Document, error) {
	owning, err := s.resolveOwning(ctx, entry)
	if err != nil {
		return nil, err
	}
	counterpart := s.resolveCounterparty(ctx, entry)

	sender, recipient := owning, counterpart
	if entry.Direction() == entity.DirectionCredit {
		sender, recipient = counterpart, owning
	}

	doc := &document.Document{}
	doc.Add(document.Header{Title: s.bankName, Subtitle: "Proof of Payment"})
	doc.Add(document.Badge{
		Label:    strings.ToUpper(string(entry.Status())),
		Positive: entry.Status() == entity.StatusCompleted,
	})

	txFields := []document.Field{
		{Label: "Transaction ID", Value: entry.TransactionID(), Emphasis: true},
		{Label: "Date", Value: entry.CreatedAt().Format(dateLayout)},
		{Label: "Reference", Value: entry.Reference()},
		{Label: "Amount", Value: currency.Format(entry.Amount()), Emphasis: true},
	}
	if entry.Fee() != 0 {
		txFields = append(txFields, document.Field{Label: "Fee", Value: currency.Format(entry.Fee())})
	}
	doc.Add(document.Section{Title: "Transaction Details", Fields: txFields})

	doc.Add(document.Section{Title: "Sender Information", Fields: partyFields(sender)})
	doc.Add(document.Section{Title: "Recipient Information", Fields: partyFields(recipient)})

	s.addVerificationCode(doc, entry)

	doc.Add(document.Footer{Lines: []string{
		fmt.Sprintf("This is an official proof of payment issued by %s.", s.bankName),
		fmt.Sprintf("Verify this document at %s/api/verify/%s", s.verifyBaseURL, entry.TransactionID()),
		fmt.Sprintf("Generated on %s", s.now().UTC().Format(dateLayout)),
	}})
	return doc, nil
}

func (s *Service) resolveOwning(ctx context.Context, entry *entity.LedgerEntry) (party, error) {
	account, err := s.uow.Accounts().FindByID(ctx, entry.AccountID())
	if err != nil {
		return party{}, fmt.Errorf("account for transaction %s: %w", entry.TransactionID(), err)
	}
	owner, err := s.uow.Owners().FindByID(ctx, account.OwnerID())
	if err != nil {
		return party{}, fmt.Errorf("owner for transaction %s: %w", entry.TransactionID(), err)
	}
	return party{
		name:          owner.Name(),
		accountNumber: account.AccountNumber(),
		accountType:   string(account.Type()),
	}, nil
}

// resolveCounterparty falls back to a placeholder when the other side of
// the transfer is not held at this bank.
func (s *Service) resolveCounterparty(ctx context.Context, entry *entity.LedgerEntry) party {
	placeholder := party{name: externalAccountName, accountNumber: entry.Counterparty()}

	account, err := s.uow.Accounts().FindByNumber(ctx, entry.Counterparty())
	if err != nil {
		return placeholder
	}
	owner, err := s.uow.Owners().FindByID(ctx, account.OwnerID())
	if err != nil {
		return placeholder
	}
	return party{
		name:          owner.Name(),
		accountNumber: account.AccountNumber(),
		accountType:   string(account.Type()),
	}
}

// addVerificationCode embeds the QR block. A failed encode degrades to a
// receipt without a code rather than failing the render.
func (s *Service) addVerificationCode(doc *document.Document, entry *entity.LedgerEntry) {
	png, err := s.qr.Generate(qrcode.Payload{
		TransactionID: entry.TransactionID(),
		Amount:        entry.Amount(),
		Date:          entry.CreatedAt(),
		Reference:     entry.Reference(),
		Verification:  fmt.Sprintf("%s/api/verify/%s", s.verifyBaseURL, entry.TransactionID()),
	})
	if err != nil {
		s.logger.Warn("verification code generation failed",
			"transaction_id", entry.TransactionID(), "error", err)
		return
	}
	doc.Add(document.Image{PNG: png, Caption: "Scan to verify"})
}

func partyFields(p party) []document.Field {
	fields := []document.Field{
		{Label: "Name", Value: p.name},
		{Label: "Account Number", Value: p.accountNumber},
	}
	if p.accountType != "" {
		fields = append(fields, document.Field{Label: "Account Type", Value: p.accountType})
	}
	return fields
}
