package ticket

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(t *Ticket) error
	GetByID(id uint) (*Ticket, error)
	GetByIdentifier(identifier string) (*Ticket, error)
	ListByEvent(eventID uint) ([]Ticket, error)
	ListAll() ([]Ticket, error)
	Update(t *Ticket) error
	Delete(id uint) error
	MarkUsed(identifier string, at time.Time) (bool, error)
	CountAll() (int64, error)
	CountUsed() (int64, error)
	CountByEvent(eventID uint) (int64, error)
	CountUsedByEvent(eventID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(t *Ticket) error {
	return r.db.Create(t).Error
}

func (r *repository) GetByID(id uint) (*Ticket, error) {
	var t Ticket
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetByIdentifier(identifier string) (*Ticket, error) {
	var t Ticket
	if err := r.db.Where("ticket_id = ?", identifier).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListByEvent(eventID uint) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.Where("event_id = ?", eventID).Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *repository) ListAll() ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

// Update writes the mutable columns only. The redemption columns
// (is_used, used_at) are owned by MarkUsed: a full-row write here could
// revert a redemption that happened after the caller read the ticket.
func (r *repository) Update(t *Ticket) error {
	return r.db.Model(t).
		Select("attendee_name", "attendee_email", "ticket_type", "ticket_image_path", "updated_at").
		Updates(t).Error
}

func (r *repository) Delete(id uint) error {
	res := r.db.Delete(&Ticket{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkUsed is the redemption compare-and-set: the update only applies
// while is_used is still false, so two concurrent scans of the same
// identifier cannot both succeed. Returns whether this caller won.
func (r *repository) MarkUsed(identifier string, at time.Time) (bool, error) {
	res := r.db.Model(&Ticket{}).
		Where("ticket_id = ? AND is_used = ?", identifier, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&Ticket{}).Count(&count).Error
	return count, err
}

func (r *repository) CountUsed() (int64, error) {
	var count int64
	err := r.db.Model(&Ticket{}).Where("is_used = ?", true).Count(&count).Error
	return count, err
}

func (r *repository) CountByEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Ticket{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *repository) CountUsedByEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Ticket{}).Where("event_id = ? AND is_used = ?", eventID, true).Count(&count).Error
	return count, err
}
