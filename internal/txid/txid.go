// Package txid generates display-ready transaction identifiers: a bank
// prefix, the trailing digits of the generation time, and a random base36
// suffix. Uniqueness is not assumed from randomness alone — the transfer
// engine checks candidates against the ledger and regenerates on collision.
package txid

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	timeDigits = 8
	suffixLen  = 6
	alphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type Generator interface {
	Generate() string
}

type TimeRandomGenerator struct {
	prefix string
	now    func() time.Time
}

func NewGenerator(prefix string) *TimeRandomGenerator {
	return &TimeRandomGenerator{prefix: prefix, now: time.Now}
}

func (g *TimeRandomGenerator) Generate() string {
	ms := g.now().UnixMilli() % 1e8
	suffix := make([]byte, suffixLen)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("%s%0*d%s", g.prefix, timeDigits, ms, suffix)
}
