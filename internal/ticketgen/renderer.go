package ticketgen

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ticket9ja/ticket9ja-backend/internal/filestore"
)

// Canvas geometry. All positions are fixed so a re-render of the same
// inputs overwrites the previous file with an identical layout.
const (
	canvasW = 800
	canvasH = 400

	qrSize = 120
	qrX    = 650
	qrY    = 20

	maxTitleLen = 40
)

// Renderer composites the final ticket image: background (uploaded design
// or gradient placeholder), QR code, legibility panel and text fields.
// It holds no state beyond font configuration; Render is a pure function
// of its inputs plus the background file on disk.
type Renderer struct {
	files       *filestore.Store
	boldPath    string
	regularPath string
}

func NewRenderer(files *filestore.Store, boldFontPath, regularFontPath string) *Renderer {
	return &Renderer{
		files:       files,
		boldPath:    boldFontPath,
		regularPath: regularFontPath,
	}
}

// Render produces the ticket JPEG for one ticket and writes it to the
// canonical ticket_<identifier>.jpg path, overwriting any previous
// render. Returns the stored reference.
func (r *Renderer) Render(
	designPath, attendeeName, ticketType, identifier string,
	qrPNG []byte,
	eventName, eventDate, eventTime, venue string,
) (string, error) {
	dc := gg.NewContext(canvasW, canvasH)

	if err := r.drawBackground(dc, designPath); err != nil {
		return "", err
	}

	if err := drawQR(dc, qrPNG); err != nil {
		return "", err
	}

	// Semi-transparent dark panel over the text area so the fields stay
	// legible on any background.
	dc.SetRGBA255(0, 0, 0, 150)
	dc.DrawRectangle(20, 20, 580, 360)
	dc.Fill()

	fontTitle := r.face(r.boldPath, 28)
	fontLarge := r.face(r.boldPath, 24)
	fontMedium := r.face(r.regularPath, 18)
	fontSmall := r.face(r.regularPath, 14)

	dc.SetRGB255(255, 255, 255)

	dc.SetFontFace(fontTitle)
	dc.DrawString(truncate(eventName, maxTitleLen), 40, 40+28)

	dc.SetFontFace(fontLarge)
	dc.DrawString("Attendee: "+attendeeName, 40, 90+24)

	dc.SetFontFace(fontMedium)
	dc.DrawString("Type: "+ticketType, 40, 130+18)
	dc.DrawString("Date: "+eventDate, 40, 170+18)
	dc.DrawString("Time: "+eventTime, 40, 200+18)
	dc.DrawString("Venue: "+venue, 40, 230+18)

	dc.SetFontFace(fontSmall)
	dc.DrawString("Ticket ID: "+identifier, 40, 350+14)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: 95}); err != nil {
		return "", fmt.Errorf("ticket jpeg encode failed: %w", err)
	}

	ref, err := r.files.Save(buf.Bytes(), r.files.TicketPath(identifier))
	if err != nil {
		return "", fmt.Errorf("ticket image save failed: %w", err)
	}
	return ref, nil
}

// drawBackground paints the uploaded design resized to the canvas, or a
// deterministic vertical gradient with a border when no design exists.
func (r *Renderer) drawBackground(dc *gg.Context, designPath string) error {
	if designPath != "" && r.files.Exists(designPath) {
		src, err := imaging.Open(designPath)
		if err != nil {
			return fmt.Errorf("failed to open design %s: %w", designPath, err)
		}
		dc.DrawImage(imaging.Resize(src, canvasW, canvasH, imaging.Lanczos), 0, 0)
		return nil
	}

	grad := gg.NewLinearGradient(0, 0, 0, canvasH)
	grad.AddColorStop(0, color.NRGBA{R: 200, G: 220, B: 250, A: 255})
	grad.AddColorStop(1, color.NRGBA{R: 80, G: 100, B: 130, A: 255})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, canvasW, canvasH)
	dc.Fill()

	dc.SetRGB255(255, 255, 255)
	dc.SetLineWidth(3)
	dc.DrawRectangle(10, 10, canvasW-20, canvasH-20)
	dc.Stroke()
	return nil
}

func drawQR(dc *gg.Context, qrPNG []byte) error {
	img, err := png.Decode(bytes.NewReader(qrPNG))
	if err != nil {
		return fmt.Errorf("qr bitmap decode failed: %w", err)
	}
	dc.DrawImage(imaging.Resize(img, qrSize, qrSize, imaging.Lanczos), qrX, qrY)
	return nil
}

// face loads the preferred typeface from disk and falls back to the
// embedded Go fonts when it is missing or unreadable. Rendering must
// never fail solely because a system font is absent.
func (r *Renderer) face(path string, size float64) font.Face {
	if data, err := os.ReadFile(path); err == nil {
		if f, err := opentype.Parse(data); err == nil {
			if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}); err == nil {
				return face
			}
		}
	}

	builtin := goregular.TTF
	if path == r.boldPath {
		builtin = gobold.TTF
	}
	if f, err := opentype.Parse(builtin); err == nil {
		if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
