package event

import (
	"errors"

	"gorm.io/gorm"
)

// TicketFiles carries the generated-file references of tickets removed by
// a cascade delete so the caller can clean up the files afterwards.
type TicketFiles struct {
	QRCodePath      string
	TicketImagePath string
}

type Repository interface {
	Create(e *Event) error
	GetByID(id uint) (*Event, error)
	ListAll() ([]Event, error)
	ListActive() ([]Event, error)
	Update(e *Event) error
	Lock(id uint) error
	SetDesignPath(id uint, path string) error
	DeleteCascade(id uint) ([]TicketFiles, error)
	CountAll() (int64, error)
	CountActive() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(e *Event) error {
	return r.db.Create(e).Error
}

func (r *repository) GetByID(id uint) (*Event, error) {
	var e Event
	if err := r.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListAll() ([]Event, error) {
	var events []Event
	err := r.db.Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *repository) ListActive() ([]Event, error) {
	var events []Event
	err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&events).Error
	return events, err
}

// Update writes the editable columns only. is_locked is owned by Lock
// and never reverts, so a stale struct written here cannot unlock the
// event; ticket_design_path is owned by SetDesignPath.
func (r *repository) Update(e *Event) error {
	return r.db.Model(e).
		Select("name", "event_date", "event_time", "venue", "city", "description", "is_active", "updated_at").
		Updates(e).Error
}

// Lock flips is_locked once; the column never reverts to false.
func (r *repository) Lock(id uint) error {
	return r.db.Model(&Event{}).Where("id = ?", id).Update("is_locked", true).Error
}

func (r *repository) SetDesignPath(id uint, path string) error {
	return r.db.Model(&Event{}).Where("id = ?", id).Update("ticket_design_path", path).Error
}

// DeleteCascade removes the event and every ticket that belongs to it in
// one transaction, returning the ticket file references for best-effort
// cleanup. Explicit rather than a DB-level cascade so ownership stays
// visible and testable.
func (r *repository) DeleteCascade(id uint) ([]TicketFiles, error) {
	var files []TicketFiles
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("tickets").
			Select("qr_code_path", "ticket_image_path").
			Where("event_id = ?", id).
			Scan(&files).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM tickets WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Event{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *repository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&Event{}).Count(&count).Error
	return count, err
}

func (r *repository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&Event{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
