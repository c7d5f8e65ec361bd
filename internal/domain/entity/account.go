package entity

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeAmount    = errors.New("amount must be positive")
)

type AccountType string

const (
	AccountSavings  AccountType = "Savings"
	AccountChecking AccountType = "Checking"
)

// Account balances are stored in minor units (cents).
type Account struct {
	id            uuid.UUID
	ownerID       uuid.UUID
	accountType   AccountType
	accountNumber string
	balance       int64
	isPrimary     bool
	version       int64
}

func NewAccount(ownerID uuid.UUID, accountType AccountType, accountNumber string, balance int64, isPrimary bool) *Account {
	return &Account{
		id:            uuid.New(),
		ownerID:       ownerID,
		accountType:   accountType,
		accountNumber: accountNumber,
		balance:       balance,
		isPrimary:     isPrimary,
	}
}

func ReconstructAccount(
	id, ownerID uuid.UUID,
	accountType AccountType,
	accountNumber string,
	balance int64,
	isPrimary bool,
	version int64,
) *Account {
	return &Account{
		id:            id,
		ownerID:       ownerID,
		accountType:   accountType,
		accountNumber: accountNumber,
		balance:       balance,
		isPrimary:     isPrimary,
		version:       version,
	}
}

func (a *Account) ID() uuid.UUID {
	return a.id
}

func (a *Account) OwnerID() uuid.UUID {
	return a.ownerID
}

func (a *Account) Type() AccountType {
	return a.accountType
}

func (a *Account) AccountNumber() string {
	return a.accountNumber
}

func (a *Account) Balance() int64 {
	return a.balance
}

func (a *Account) IsPrimary() bool {
	return a.isPrimary
}

func (a *Account) Version() int64 {
	return a.version
}

func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}
	if a.balance < amount {
		return ErrInsufficientFunds
	}
	a.balance -= amount
	return nil
}

func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}
	a.balance += amount
	return nil
}
