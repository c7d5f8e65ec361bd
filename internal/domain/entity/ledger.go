package entity

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionDebit  Direction = "Debit"
	DirectionCredit Direction = "Credit"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusCompleted TransactionStatus = "Completed"
	StatusFailed    TransactionStatus = "Failed"
)

// LedgerEntry is one side of a committed transfer. Every transfer writes
// exactly two entries whose signed amounts sum to zero. Entries are
// immutable once written except for the proofGenerated flag.
type LedgerEntry struct {
	transactionID  string
	accountID      uuid.UUID
	direction      Direction
	amount         int64
	reference      string
	counterparty   string
	balanceAfter   int64
	fee            int64
	status         TransactionStatus
	createdAt      time.Time
	proofGenerated bool
}

func NewLedgerEntry(
	transactionID string,
	accountID uuid.UUID,
	direction Direction,
	amount int64,
	reference, counterparty string,
	balanceAfter, fee int64,
	status TransactionStatus,
) *LedgerEntry {
	return &LedgerEntry{
		transactionID: transactionID,
		accountID:     accountID,
		direction:     direction,
		amount:        amount,
		reference:     reference,
		counterparty:  counterparty,
		balanceAfter:  balanceAfter,
		fee:           fee,
		status:        status,
		createdAt:     time.Now().UTC(),
	}
}

func ReconstructLedgerEntry(
	transactionID string,
	accountID uuid.UUID,
	direction Direction,
	amount int64,
	reference, counterparty string,
	balanceAfter, fee int64,
	status TransactionStatus,
	createdAt time.Time,
	proofGenerated bool,
) *LedgerEntry {
	return &LedgerEntry{
		transactionID:  transactionID,
		accountID:      accountID,
		direction:      direction,
		amount:         amount,
		reference:      reference,
		counterparty:   counterparty,
		balanceAfter:   balanceAfter,
		fee:            fee,
		status:         status,
		createdAt:      createdAt,
		proofGenerated: proofGenerated,
	}
}

func (e *LedgerEntry) TransactionID() string {
	return e.transactionID
}

func (e *LedgerEntry) AccountID() uuid.UUID {
	return e.accountID
}

func (e *LedgerEntry) Direction() Direction {
	return e.direction
}

// Amount is the entry's magnitude, always positive.
func (e *LedgerEntry) Amount() int64 {
	return e.amount
}

// SignedAmount is negative for debits and positive for credits.
func (e *LedgerEntry) SignedAmount() int64 {
	if e.direction == DirectionDebit {
		return -e.amount
	}
	return e.amount
}

func (e *LedgerEntry) Reference() string {
	return e.reference
}

// Counterparty is the account number on the other side of the transfer.
func (e *LedgerEntry) Counterparty() string {
	return e.counterparty
}

func (e *LedgerEntry) BalanceAfter() int64 {
	return e.balanceAfter
}

func (e *LedgerEntry) Fee() int64 {
	return e.fee
}

func (e *LedgerEntry) Status() TransactionStatus {
	return e.status
}

func (e *LedgerEntry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *LedgerEntry) ProofGenerated() bool {
	return e.proofGenerated
}

func (e *LedgerEntry) CanGenerateProof() bool {
	return e.status == StatusCompleted
}
