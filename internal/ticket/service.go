package ticket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/ticket9ja/ticket9ja-backend/internal/auditlog"
	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticketgen"
)

// ErrRenderFailed marks an image pipeline failure. The affected ticket is
// never persisted: creation is a saga where QR and image generation must
// complete before the row is written.
var ErrRenderFailed = errors.New("ticket image rendering failed")

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EventStore is the slice of the event module the lifecycle needs.
type EventStore interface {
	GetByID(id uint) (*event.Event, error)
	LockOnFirstTicket(e *event.Event) error
}

// Renderer produces the composited ticket image and returns its stored
// reference.
type Renderer interface {
	Render(designPath, attendeeName, ticketType, identifier string, qrPNG []byte,
		eventName, eventDate, eventTime, venue string) (string, error)
}

// Notifier delivers the rendered ticket to the attendee.
type Notifier interface {
	SendTicket(toEmail, attendeeName string, ev *event.Event, t *Ticket, imageRef string) error
}

// FileStore is the slice of the file store the lifecycle needs.
type FileStore interface {
	QRPath(identifier string) string
	Save(data []byte, path string) (string, error)
	Delete(ref string) error
}

// Service orchestrates the ticket lifecycle: batch creation, edits with
// re-render, resend and deletion. Door-scan validation lives in the scan
// package.
type Service struct {
	Repo   Repository
	Events EventStore
	Render Renderer
	Notify Notifier
	Files  FileStore
	Audit  auditlog.Service
}

func NewService(repo Repository, events EventStore, render Renderer, notify Notifier, files FileStore, audit auditlog.Service) *Service {
	return &Service{Repo: repo, Events: events, Render: render, Notify: notify, Files: files, Audit: audit}
}

// ===========================
// CreateBatch
//
// Locks the event once for the whole batch, then per unit: identifier →
// QR → render → persist → email. Email failure is reported per ticket
// and never rolls anything back. A render or storage failure aborts the
// remaining units; tickets already persisted stay valid.
func (s *Service) CreateBatch(eventID uint, req *CreateBatchRequest) ([]CreatedTicket, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if !emailRe.MatchString(req.AttendeeEmail) {
		return nil, fmt.Errorf("%w: malformed attendee email", ErrValidation)
	}

	ev, err := s.Events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if err := s.Events.LockOnFirstTicket(ev); err != nil {
		return nil, err
	}

	created := make([]CreatedTicket, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		ct, err := s.createOne(ev, req)
		if err != nil {
			return created, err
		}
		created = append(created, *ct)
	}
	return created, nil
}

func (s *Service) createOne(ev *event.Event, req *CreateBatchRequest) (*CreatedTicket, error) {
	identifier := ticketgen.NewTicketIdentifier()

	qr, err := ticketgen.EncodeQR(identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	qrRef, err := s.Files.Save(qr, s.Files.QRPath(identifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	imageRef, err := s.Render.Render(
		ev.TicketDesignPath, req.AttendeeName, req.TicketType, identifier, qr,
		ev.Name, ev.EventDate, ev.EventTime, ev.Venue,
	)
	if err != nil {
		// Saga abort: no row exists yet, drop the orphaned QR file.
		if derr := s.Files.Delete(qrRef); derr != nil {
			log.Printf("⚠️ Could not delete QR file %s: %v", qrRef, derr)
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	t := &Ticket{
		TicketID:        identifier,
		EventID:         ev.ID,
		AttendeeName:    req.AttendeeName,
		AttendeeEmail:   req.AttendeeEmail,
		TicketType:      req.TicketType,
		QRCodePath:      qrRef,
		TicketImagePath: imageRef,
		IsUsed:          false,
	}
	if err := s.Repo.Create(t); err != nil {
		if derr := s.Files.Delete(qrRef); derr != nil {
			log.Printf("⚠️ Could not delete QR file %s: %v", qrRef, derr)
		}
		if derr := s.Files.Delete(imageRef); derr != nil {
			log.Printf("⚠️ Could not delete ticket image %s: %v", imageRef, derr)
		}
		return nil, fmt.Errorf("failed to persist ticket: %w", err)
	}

	emailSent := true
	if err := s.Notify.SendTicket(t.AttendeeEmail, t.AttendeeName, ev, t, imageRef); err != nil {
		emailSent = false
		log.Printf("✗ Email error for %s (ticket %s): %v", t.AttendeeEmail, identifier, err)
	}

	s.audit(auditlog.ActionTicketCreated, map[string]interface{}{
		"ticket_id":  t.TicketID,
		"event_id":   ev.ID,
		"attendee":   t.AttendeeName,
		"email_sent": emailSent,
	}, "success")

	return &CreatedTicket{Ticket: t, EmailSent: emailSent}, nil
}

func (s *Service) GetByID(id uint) (*Ticket, error) {
	return s.Repo.GetByID(id)
}

func (s *Service) ListAll() ([]Ticket, error) {
	return s.Repo.ListAll()
}

func (s *Service) ListByEvent(eventID uint) ([]Ticket, error) {
	return s.Repo.ListByEvent(eventID)
}

// ===========================
// Update
//
// Only supplied fields change. The ticket image is always re-rendered;
// the identifier and QR payload never change, so the QR is re-encoded
// deterministically rather than read back from disk.
func (s *Service) Update(id uint, req *UpdateTicketRequest) (*Ticket, error) {
	t, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.AttendeeName != nil {
		t.AttendeeName = *req.AttendeeName
	}
	if req.AttendeeEmail != nil {
		if !emailRe.MatchString(*req.AttendeeEmail) {
			return nil, fmt.Errorf("%w: malformed attendee email", ErrValidation)
		}
		t.AttendeeEmail = *req.AttendeeEmail
	}
	if req.TicketType != nil {
		t.TicketType = *req.TicketType
	}

	ev, err := s.Events.GetByID(t.EventID)
	if err != nil {
		return nil, err
	}

	qr, err := ticketgen.EncodeQR(t.TicketID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	imageRef, err := s.Render.Render(
		ev.TicketDesignPath, t.AttendeeName, t.TicketType, t.TicketID, qr,
		ev.Name, ev.EventDate, ev.EventTime, ev.Venue,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	t.TicketImagePath = imageRef

	if err := s.Repo.Update(t); err != nil {
		return nil, err
	}

	s.audit(auditlog.ActionTicketUpdated, map[string]interface{}{
		"ticket_id": t.TicketID,
		"attendee":  t.AttendeeName,
	}, "success")

	return t, nil
}

// ===========================
// Resend re-sends the existing rendered image without regenerating
// anything.
func (s *Service) Resend(id uint) error {
	t, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	ev, err := s.Events.GetByID(t.EventID)
	if err != nil {
		return err
	}

	if err := s.Notify.SendTicket(t.AttendeeEmail, t.AttendeeName, ev, t, t.TicketImagePath); err != nil {
		s.audit(auditlog.ActionTicketResent, map[string]interface{}{
			"ticket_id": t.TicketID,
			"error":     err.Error(),
		}, "failure")
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	s.audit(auditlog.ActionTicketResent, map[string]interface{}{"ticket_id": t.TicketID}, "success")
	return nil
}

// ===========================
// Delete removes the row first (source of truth), then best-effort
// removes the generated files.
func (s *Service) Delete(id uint) (*Ticket, error) {
	t, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Delete(t.ID); err != nil {
		return nil, err
	}

	if err := s.Files.Delete(t.QRCodePath); err != nil {
		log.Printf("⚠️ Could not delete QR file %s: %v", t.QRCodePath, err)
	}
	if err := s.Files.Delete(t.TicketImagePath); err != nil {
		log.Printf("⚠️ Could not delete ticket image %s: %v", t.TicketImagePath, err)
	}

	s.audit(auditlog.ActionTicketDeleted, map[string]interface{}{
		"ticket_id": t.TicketID,
		"attendee":  t.AttendeeName,
	}, "success")

	return t, nil
}

func (s *Service) audit(action string, details map[string]interface{}, status string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.LogAction(context.Background(), nil, action, details, "", status); err != nil {
		log.Printf("⚠️ Audit log write failed for %s: %v", action, err)
	}
}
