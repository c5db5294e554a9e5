package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ticket9ja/ticket9ja-backend/internal/auditlog"
	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
)

// Scan outcomes.
const (
	StatusValid       = "valid"
	StatusAlreadyUsed = "already_used"
	StatusInvalid     = "invalid"
)

// TicketStore is the slice of ticket storage the door scanner needs.
// MarkUsed must be a compare-and-set on is_used so that exactly one of
// two concurrent scans of the same identifier succeeds.
type TicketStore interface {
	GetByIdentifier(identifier string) (*ticket.Ticket, error)
	MarkUsed(identifier string, at time.Time) (bool, error)
}

type EventStore interface {
	GetByID(id uint) (*event.Event, error)
}

// Publisher streams scan outcomes to downstream consumers (dashboards,
// analytics). Best effort: a publish failure never affects the scan.
type Publisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// TicketInfo is the operator-facing detail shown on the scanner screen.
type TicketInfo struct {
	AttendeeName string     `json:"attendee_name"`
	TicketType   string     `json:"ticket_type"`
	TicketID     string     `json:"ticket_id,omitempty"`
	EventName    string     `json:"event_name,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}

// Result is the outcome of one scan attempt.
type Result struct {
	Valid   bool        `json:"valid"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Ticket  *TicketInfo `json:"ticket,omitempty"`
}

// Service applies the Issued → Redeemed state machine at the venue door.
type Service struct {
	Tickets TicketStore
	Events  EventStore
	Stream  Publisher
	Audit   auditlog.Service
}

func NewService(tickets TicketStore, events EventStore, stream Publisher, audit auditlog.Service) *Service {
	return &Service{Tickets: tickets, Events: events, Stream: stream, Audit: audit}
}

// Validate resolves a scanned identifier and redeems the ticket at most
// once. Unknown identifiers and repeat scans mutate nothing; the winning
// scan flips is_used/used_at atomically via the store's compare-and-set.
func (s *Service) Validate(ctx context.Context, identifier, ip string) (*Result, error) {
	t, err := s.Tickets.GetByIdentifier(identifier)
	if errors.Is(err, ticket.ErrNotFound) {
		res := &Result{Valid: false, Status: StatusInvalid, Message: "Invalid ticket - not found"}
		s.report(ctx, identifier, ip, res)
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	if t.IsUsed {
		res := alreadyUsed(t)
		s.report(ctx, identifier, ip, res)
		return res, nil
	}

	now := time.Now().UTC()
	won, err := s.Tickets.MarkUsed(identifier, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race against a concurrent scan; re-read for the
		// authoritative redemption timestamp.
		if fresh, err := s.Tickets.GetByIdentifier(identifier); err == nil {
			t = fresh
		}
		res := alreadyUsed(t)
		s.report(ctx, identifier, ip, res)
		return res, nil
	}

	t.IsUsed = true
	t.UsedAt = &now

	eventName := ""
	if ev, err := s.Events.GetByID(t.EventID); err == nil {
		eventName = ev.Name
	}

	res := &Result{
		Valid:   true,
		Status:  StatusValid,
		Message: "Entry granted",
		Ticket: &TicketInfo{
			AttendeeName: t.AttendeeName,
			TicketType:   t.TicketType,
			TicketID:     t.TicketID,
			EventName:    eventName,
		},
	}
	s.report(ctx, identifier, ip, res)
	return res, nil
}

func alreadyUsed(t *ticket.Ticket) *Result {
	msg := "Ticket already used"
	if t.UsedAt != nil {
		msg = fmt.Sprintf("Ticket already used on %s", t.UsedAt.Format("2006-01-02 15:04:05"))
	}
	return &Result{
		Valid:   false,
		Status:  StatusAlreadyUsed,
		Message: msg,
		Ticket: &TicketInfo{
			AttendeeName: t.AttendeeName,
			TicketType:   t.TicketType,
			UsedAt:       t.UsedAt,
		},
	}
}

// report fans the outcome out to the audit log and the scan stream.
// Both are best effort.
func (s *Service) report(ctx context.Context, identifier, ip string, res *Result) {
	if s.Audit != nil {
		status := "failure"
		if res.Valid {
			status = "success"
		}
		details := map[string]interface{}{
			"ticket_id": identifier,
			"status":    res.Status,
		}
		if err := s.Audit.LogAction(ctx, nil, auditlog.ActionTicketScanned, details, ip, status); err != nil {
			log.Printf("⚠️ Audit log write failed for scan of %s: %v", identifier, err)
		}
	}

	if s.Stream != nil {
		payload := map[string]interface{}{
			"ticket_id":  identifier,
			"status":     res.Status,
			"scanned_at": time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.Stream.Publish(ctx, identifier, payload); err != nil {
			log.Printf("⚠️ Scan event publish failed for %s: %v", identifier, err)
		}
	}
}
