package qrgen

import (
	"encoding/json"

	qr "github.com/skip2/go-qrcode"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/qrcode"
)

type Generator struct {
	size int
}

func NewGenerator(size int) *Generator {
	return &Generator{size: size}
}

func (g *Generator) Generate(p qrcode.Payload) ([]byte, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return qr.Encode(string(content), qr.Medium, g.size)
}
