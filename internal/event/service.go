package event

import (
	"context"
	"fmt"
	"log"

	"github.com/ticket9ja/ticket9ja-backend/internal/auditlog"
)

// FileStore is the slice of the file store the event module needs.
type FileStore interface {
	DesignPath(eventID uint, ext string) string
	Save(data []byte, path string) (string, error)
	Delete(ref string) error
}

// Service wraps business logic for events, including the
// editable-until-first-ticket lock.
type Service struct {
	Repo  Repository
	Files FileStore
	Audit auditlog.Service
}

func NewService(r Repository, files FileStore, audit auditlog.Service) *Service {
	return &Service{Repo: r, Files: files, Audit: audit}
}

// ===========================
// Create Event
func (s *Service) Create(req *CreateEventRequest) (*Event, error) {
	e := &Event{
		Name:        req.Name,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
		Venue:       req.Venue,
		City:        req.City,
		Description: req.Description,
		IsActive:    true,
		IsLocked:    false,
	}
	if err := s.Repo.Create(e); err != nil {
		return nil, err
	}

	s.audit(auditlog.ActionEventCreated, map[string]interface{}{
		"event_id": e.ID,
		"name":     e.Name,
		"venue":    e.Venue,
		"city":     e.City,
	}, "success")

	return e, nil
}

func (s *Service) GetByID(id uint) (*Event, error) {
	return s.Repo.GetByID(id)
}

func (s *Service) ListAll() ([]Event, error) {
	return s.Repo.ListAll()
}

func (s *Service) ListActive() ([]Event, error) {
	return s.Repo.ListActive()
}

// ===========================
// Update Event (only while unlocked)
//
// Every structural field is rejected once the event is locked; nothing
// is partially applied on failure.
func (s *Service) Update(id uint, req *CreateEventRequest) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if e.IsLocked {
		s.audit(auditlog.ActionEventUpdated, map[string]interface{}{
			"event_id": id,
			"error":    ErrEventLocked.Error(),
		}, "failure")
		return nil, ErrEventLocked
	}

	e.Name = req.Name
	e.EventDate = req.EventDate
	e.EventTime = req.EventTime
	e.Venue = req.Venue
	e.City = req.City
	e.Description = req.Description

	if err := s.Repo.Update(e); err != nil {
		return nil, err
	}

	s.audit(auditlog.ActionEventUpdated, map[string]interface{}{
		"event_id": e.ID,
		"name":     e.Name,
	}, "success")

	return e, nil
}

// ===========================
// Toggle active/inactive
//
// Archiving mutates visibility only, so it stays permitted after lock.
func (s *Service) ToggleActive(id uint) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	e.IsActive = !e.IsActive
	if err := s.Repo.Update(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ===========================
// Upload ticket design
func (s *Service) UploadDesign(id uint, ext string, data []byte) (string, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		return "", err
	}

	path, err := s.Files.Save(data, s.Files.DesignPath(e.ID, ext))
	if err != nil {
		return "", fmt.Errorf("failed to store design: %w", err)
	}
	if err := s.Repo.SetDesignPath(e.ID, path); err != nil {
		return "", err
	}
	return path, nil
}

// ===========================
// Delete Event (cascades to tickets and their generated files)
func (s *Service) Delete(id uint) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	ticketFiles, err := s.Repo.DeleteCascade(id)
	if err != nil {
		return nil, err
	}

	// Row deletion is the source of truth; file cleanup is best effort.
	for _, tf := range ticketFiles {
		if err := s.Files.Delete(tf.QRCodePath); err != nil {
			log.Printf("⚠️ Could not delete QR file %s: %v", tf.QRCodePath, err)
		}
		if err := s.Files.Delete(tf.TicketImagePath); err != nil {
			log.Printf("⚠️ Could not delete ticket image %s: %v", tf.TicketImagePath, err)
		}
	}
	if err := s.Files.Delete(e.TicketDesignPath); err != nil {
		log.Printf("⚠️ Could not delete design file %s: %v", e.TicketDesignPath, err)
	}

	s.audit(auditlog.ActionEventDeleted, map[string]interface{}{
		"event_id":        e.ID,
		"name":            e.Name,
		"tickets_deleted": len(ticketFiles),
	}, "success")

	return e, nil
}

// ===========================
// LockOnFirstTicket enforces the event-lock invariant. Called once per
// ticket-creation batch, before any ticket is persisted. Idempotent.
func (s *Service) LockOnFirstTicket(e *Event) error {
	if e.IsLocked {
		return nil
	}
	if err := s.Repo.Lock(e.ID); err != nil {
		return fmt.Errorf("failed to lock event %d: %w", e.ID, err)
	}
	e.IsLocked = true
	log.Printf("🔒 Event %d locked on first ticket", e.ID)
	return nil
}

func (s *Service) audit(action string, details map[string]interface{}, status string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.LogAction(context.Background(), nil, action, details, "", status); err != nil {
		log.Printf("⚠️ Audit log write failed for %s: %v", action, err)
	}
}
