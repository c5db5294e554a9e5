package event

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an event id does not resolve.
	ErrNotFound = errors.New("event not found")

	// ErrEventLocked is returned for any structural edit once ticket
	// issuance has begun. Toggling active is exempt.
	ErrEventLocked = errors.New("cannot edit event after tickets have been generated")
)

// ============================
// GORM Event Model
//
// Date and time are opaque display strings: they are printed on tickets
// and emails exactly as the organizer typed them.
type Event struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(200);not null" json:"name"`
	EventDate        string    `gorm:"type:varchar(50);not null" json:"event_date"`
	EventTime        string    `gorm:"type:varchar(50);not null" json:"event_time"`
	Venue            string    `gorm:"type:varchar(200);not null" json:"venue"`
	City             string    `gorm:"type:varchar(100);not null" json:"city"`
	Description      string    `gorm:"type:text" json:"description"`
	TicketDesignPath string    `gorm:"type:varchar(500)" json:"ticket_design_path"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	IsLocked         bool      `gorm:"default:false" json:"is_locked"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ============================
// Create / Update Event Request
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	EventDate   string `json:"event_date" binding:"required"`
	EventTime   string `json:"event_time" binding:"required"`
	Venue       string `json:"venue" binding:"required"`
	City        string `json:"city" binding:"required"`
	Description string `json:"description"`
}
