package ticketgen

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Rendered QR edge length in pixels. Fixed so the same payload always
// produces byte-identical output.
const qrImageSize = 256

// EncodeQR encodes a ticket identifier into a PNG QR bitmap with error
// correction level Low (matching what venue scanners are calibrated
// against). A payload that exceeds the symbol capacity is a
// configuration error and is returned loudly, never truncated.
func EncodeQR(payload string) ([]byte, error) {
	q, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("qr encoding failed for payload %q: %w", payload, err)
	}
	png, err := q.PNG(qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("qr png render failed: %w", err)
	}
	return png, nil
}
