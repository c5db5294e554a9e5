package reports

import (
	"fmt"

	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
)

// Export bundles generated bytes with the metadata the HTTP layer needs
// to serve them as a download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type TicketStore interface {
	GetByID(id uint) (*ticket.Ticket, error)
	ListByEvent(eventID uint) ([]ticket.Ticket, error)
}

type EventStore interface {
	GetByID(id uint) (*event.Event, error)
}

type Service struct {
	Tickets TicketStore
	Events  EventStore
}

func NewService(tickets TicketStore, events EventStore) *Service {
	return &Service{Tickets: tickets, Events: events}
}

// GuestList exports the attendee list for one event in the requested
// format: xlsx (default), csv or pdf.
func (s *Service) GuestList(eventID uint, format string) (*Export, error) {
	ev, err := s.Events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.Tickets.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}

	switch format {
	case "", "xlsx":
		data, err := GuestListXLSX(ev, tickets)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("guestlist_event_%d.xlsx", ev.ID),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case "csv":
		data, err := GuestListCSV(tickets)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("guestlist_event_%d.csv", ev.ID),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		data, err := GuestListPDF(ev, tickets)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("guestlist_event_%d.pdf", ev.ID),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported guest list format: %s", format)
	}
}

// TicketDocument exports one ticket as a printable PDF.
func (s *Service) TicketDocument(ticketID uint) (*Export, error) {
	t, err := s.Tickets.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	ev, err := s.Events.GetByID(t.EventID)
	if err != nil {
		return nil, err
	}

	data, err := TicketPDF(ev, t)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    fmt.Sprintf("ticket_%s.pdf", t.TicketID),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
