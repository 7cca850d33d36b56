package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is one of the three defined lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the stored entity. CreatedAt/UpdatedAt are storage bookkeeping
// managed by gorm and are not part of the public shape.
type Ticket struct {
	ID          uint64       `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    int          `gorm:"index;not null" json:"priority"`
	Status      TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TicketPublic is the shape clients observe: the full entity minus storage
// bookkeeping.
type TicketPublic struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    int          `json:"priority"`
	Status      TicketStatus `json:"status"`
}

// Public projects the stored entity onto its client-visible shape.
func (t *Ticket) Public() TicketPublic {
	return TicketPublic{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
	}
}
