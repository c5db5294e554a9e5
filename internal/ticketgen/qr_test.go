package ticketgen

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQRDeterministic(t *testing.T) {
	payload := "TKT-20250614193042-9F3A61C08B"

	first, err := EncodeQR(payload)
	require.NoError(t, err)
	second, err := EncodeQR(payload)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "same payload must yield byte-identical bitmaps")
}

func TestEncodeQRProducesValidPNG(t *testing.T) {
	data, err := EncodeQR(NewTicketIdentifier())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, qrImageSize, img.Bounds().Dx())
	assert.Equal(t, qrImageSize, img.Bounds().Dy())
}

func TestEncodeQROversizedPayloadFailsLoudly(t *testing.T) {
	_, err := EncodeQR(strings.Repeat("A", 5000))
	assert.Error(t, err, "payload beyond symbol capacity must be rejected, not truncated")
}
