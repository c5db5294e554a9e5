package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Actions recorded by the ticketing core.
const (
	ActionEventCreated  = "EVENT_CREATED"
	ActionEventUpdated  = "EVENT_UPDATED"
	ActionEventDeleted  = "EVENT_DELETED"
	ActionTicketCreated = "TICKET_CREATED"
	ActionTicketUpdated = "TICKET_UPDATED"
	ActionTicketDeleted = "TICKET_DELETED"
	ActionTicketResent  = "TICKET_RESENT"
	ActionTicketScanned = "TICKET_SCANNED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"` // nullable (door scans run unattended)
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Filter narrows the audit log listing.
type Filter struct {
	Action string
	Status string
	Page   int
	Limit  int
}

// Page is one page of audit log entries.
type Page struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	PageNum    int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
