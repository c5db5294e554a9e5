package notification

import (
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/ticket9ja/ticket9ja-backend/config"
	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
)

// EmailSender delivers rendered tickets over SMTP. It satisfies
// ticket.Notifier.
type EmailSender struct {
	host      string
	port      string
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	fromEmail := cfg.SMTPFromEmail
	if fromEmail == "" {
		fromEmail = cfg.SMTPUsername
	}
	return &EmailSender{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromName:  cfg.SMTPFromName,
		fromEmail: fromEmail,
	}
}

// SendTicket emails the attendee their ticket: the rendered image shown
// inline in the HTML body and attached as a file. The image is read from
// imageRef on disk.
func (e *EmailSender) SendTicket(toEmail, attendeeName string, ev *event.Event, t *ticket.Ticket, imageRef string) error {
	if e.host == "" || e.username == "" || e.password == "" {
		log.Println("⚠️ SMTP not configured. Ticket email not sent.")
		return fmt.Errorf("smtp not configured")
	}

	image, err := os.ReadFile(imageRef)
	if err != nil {
		return fmt.Errorf("failed to read ticket image: %w", err)
	}

	subject := fmt.Sprintf("Your Ticket for %s 🎟️", ev.Name)
	msg := e.buildMessage(toEmail, subject, attendeeName, ev, t, image)
	return e.send(toEmail, msg)
}

func (e *EmailSender) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%s", e.host, e.port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         e.host,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(e.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		log.Printf("⚠️ QUIT command error (non-critical): %v", err)
	}
	return nil
}

func randomBoundary() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return "ticket9ja-" + hex.EncodeToString(b)
}

// buildMessage assembles a multipart/related message: HTML body with the
// ticket shown inline via cid, plus the same image as an attachment.
func (e *EmailSender) buildMessage(to, subject, attendeeName string, ev *event.Event, t *ticket.Ticket, image []byte) []byte {
	boundary := randomBoundary()
	attachName := fmt.Sprintf("ticket_%s.jpg", t.TicketID)

	from := e.fromEmail
	if e.fromName != "" {
		from = fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail)
	}

	html := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Hello %s,</h2>
  <p>Your ticket for <b>%s</b> is ready!</p>
  <p>
    📅 %s at %s<br>
    📍 %s, %s
  </p>
  <img src="cid:ticket_image" alt="Your ticket" style="max-width: 100%%;">
  <p>Ticket ID: <b>%s</b></p>
  <p>Present the QR code at the entrance. See you there!</p>
</body>
</html>`, attendeeName, ev.Name, ev.EventDate, ev.EventTime, ev.Venue, ev.City, t.TicketID)

	encoded := base64.StdEncoding.EncodeToString(image)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/related; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: image/jpeg\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("Content-ID: <ticket_image>\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", attachName))
	b.WriteString("\r\n")
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
		b.WriteString("\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}
