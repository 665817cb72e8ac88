package source

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
)

// QR encodes content as a square QR code of size×size pixels with medium
// error correction.
func QR(content string, size int) (image.Image, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: empty content")
	}
	if size <= 0 {
		size = 256
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	return q.Image(size), nil
}
