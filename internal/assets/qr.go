package assets

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the rendered PNG edge length in pixels.
const DefaultQRSize = 256

// QRGenerator renders content into a PNG QR code.
type QRGenerator interface {
	GeneratePNG(content string, size int) ([]byte, error)
}

type qrGenerator struct{}

// NewQRGenerator returns the production QR renderer.
func NewQRGenerator() QRGenerator {
	return qrGenerator{}
}

func (qrGenerator) GeneratePNG(content string, size int) ([]byte, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("qr content is required")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(trimmed, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
