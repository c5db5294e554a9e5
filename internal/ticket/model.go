package ticket

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a ticket id or identifier does not resolve.
	ErrNotFound = errors.New("ticket not found")

	// ErrValidation is returned for malformed input, before any side effect.
	ErrValidation = errors.New("validation failed")

	// ErrNotificationFailed marks an email delivery failure. It never
	// invalidates a ticket or rolls back its creation.
	ErrNotificationFailed = errors.New("failed to send ticket email")
)

// ============================
// GORM Ticket Model
//
// TicketID is the external identifier embedded in the QR code. It is
// unique, immutable once issued, and distinct from the row id.
type Ticket struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TicketID        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"ticket_id"`
	EventID         uint       `gorm:"not null;index" json:"event_id"`
	AttendeeName    string     `gorm:"type:varchar(200);not null" json:"attendee_name"`
	AttendeeEmail   string     `gorm:"type:varchar(200);not null" json:"attendee_email"`
	TicketType      string     `gorm:"type:varchar(50);not null" json:"ticket_type"`
	QRCodePath      string     `gorm:"type:varchar(500)" json:"-"`
	TicketImagePath string     `gorm:"type:varchar(500)" json:"-"`
	IsUsed          bool       `gorm:"default:false" json:"is_used"`
	UsedAt          *time.Time `json:"used_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ============================
// Requests / responses

type CreateBatchRequest struct {
	AttendeeName  string `json:"attendee_name" binding:"required"`
	AttendeeEmail string `json:"attendee_email" binding:"required"`
	TicketType    string `json:"ticket_type" binding:"required"`
	Quantity      int    `json:"quantity"`
}

type UpdateTicketRequest struct {
	AttendeeName  *string `json:"attendee_name"`
	AttendeeEmail *string `json:"attendee_email"`
	TicketType    *string `json:"ticket_type"`
}

// CreatedTicket pairs a persisted ticket with its notification outcome.
// Email failure is surfaced here so the operator can trigger a resend;
// the ticket itself is valid regardless.
type CreatedTicket struct {
	Ticket    *Ticket `json:"ticket"`
	EmailSent bool    `json:"email_sent"`
}
