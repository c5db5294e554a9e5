package dashboard

import (
	"github.com/ticket9ja/ticket9ja-backend/internal/event"
)

// TicketCounter is the slice of ticket storage the dashboard reads.
type TicketCounter interface {
	CountAll() (int64, error)
	CountUsed() (int64, error)
	CountByEvent(eventID uint) (int64, error)
	CountUsedByEvent(eventID uint) (int64, error)
}

// EventCounter is the slice of event storage the dashboard reads.
type EventCounter interface {
	GetByID(id uint) (*event.Event, error)
	CountAll() (int64, error)
	CountActive() (int64, error)
}

// Stats is the operator overview across all events.
type Stats struct {
	TotalTickets     int64 `json:"total_tickets"`
	UsedTickets      int64 `json:"used_tickets"`
	RemainingTickets int64 `json:"remaining_tickets"`
	TotalEvents      int64 `json:"total_events"`
	ActiveEvents     int64 `json:"active_events"`
}

// EventStats is the attendance breakdown for a single event.
type EventStats struct {
	EventID          uint   `json:"event_id"`
	EventName        string `json:"event_name"`
	TotalTickets     int64  `json:"total_tickets"`
	UsedTickets      int64  `json:"used_tickets"`
	RemainingTickets int64  `json:"remaining_tickets"`
	IsActive         bool   `json:"is_active"`
	IsLocked         bool   `json:"is_locked"`
}

type Service struct {
	Tickets TicketCounter
	Events  EventCounter
}

func NewService(tickets TicketCounter, events EventCounter) *Service {
	return &Service{Tickets: tickets, Events: events}
}

func (s *Service) Overview() (*Stats, error) {
	total, err := s.Tickets.CountAll()
	if err != nil {
		return nil, err
	}
	used, err := s.Tickets.CountUsed()
	if err != nil {
		return nil, err
	}
	events, err := s.Events.CountAll()
	if err != nil {
		return nil, err
	}
	active, err := s.Events.CountActive()
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalTickets:     total,
		UsedTickets:      used,
		RemainingTickets: total - used,
		TotalEvents:      events,
		ActiveEvents:     active,
	}, nil
}

func (s *Service) ForEvent(eventID uint) (*EventStats, error) {
	ev, err := s.Events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	total, err := s.Tickets.CountByEvent(eventID)
	if err != nil {
		return nil, err
	}
	used, err := s.Tickets.CountUsedByEvent(eventID)
	if err != nil {
		return nil, err
	}

	return &EventStats{
		EventID:          ev.ID,
		EventName:        ev.Name,
		TotalTickets:     total,
		UsedTickets:      used,
		RemainingTickets: total - used,
		IsActive:         ev.IsActive,
		IsLocked:         ev.IsLocked,
	}, nil
}
