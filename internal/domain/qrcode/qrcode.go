package qrcode

import "time"

// Payload is the machine-readable verification code embedded in a receipt.
// It carries only facts the public verification endpoint also exposes.
type Payload struct {
	TransactionID string    `json:"transactionId"`
	Amount        int64     `json:"amount"`
	Date          time.Time `json:"date"`
	Reference     string    `json:"reference"`
	Verification  string    `json:"verification"`
}

type Generator interface {
	Generate(p Payload) ([]byte, error)
}
