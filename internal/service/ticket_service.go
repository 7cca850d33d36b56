package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/errs"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/model"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is used when a request carries no limit.
	DefaultLimit = 100
	// MaxLimit is the hard cap; a larger limit is rejected, never clamped.
	MaxLimit = 100
)

// Page is the offset/limit window shared by list and search. A nil Limit
// means "not sent" and falls back to DefaultLimit; an explicit zero is a
// real window of zero rows.
type Page struct {
	Offset int
	Limit  *int
}

func (p Page) validate() error {
	if p.Offset < 0 {
		return errs.Validation("offset", "must not be negative")
	}
	if p.Limit != nil {
		if *p.Limit < 0 {
			return errs.Validation("limit", "must not be negative")
		}
		if *p.Limit > MaxLimit {
			return errs.Validation("limit", fmt.Sprintf("must not exceed %d", MaxLimit))
		}
	}
	return nil
}

func (p Page) limit() int {
	if p.Limit == nil {
		return DefaultLimit
	}
	return *p.Limit
}

// SearchFilter holds the optional search predicates. A nil field imposes no
// constraint; present fields are combined with AND.
type SearchFilter struct {
	Title       *string
	Description *string
	Priority    *int
	Status      *model.TicketStatus
}

func (f SearchFilter) validate() error {
	if f.Priority != nil {
		if err := model.ValidatePriority(*f.Priority); err != nil {
			return err
		}
	}
	if f.Status != nil && !f.Status.Valid() {
		return errs.Validation("status", "unknown status value")
	}
	return nil
}

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

// Create validates the creation input and persists a fresh ticket. The
// status always starts open and the id is assigned by storage.
func (s *TicketService) Create(ctx context.Context, in *model.TicketCreate) (*model.Ticket, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := in.NewTicket()
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TicketService) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tickets in insertion order, skipping page.Offset rows and
// returning at most page.Limit.
func (s *TicketService) List(ctx context.Context, page Page) ([]model.Ticket, error) {
	return s.Search(ctx, SearchFilter{}, page)
}

// Search applies the present filters conjunctively on top of list paging.
// Title and description match the stored value exactly but case-insensitively.
func (s *TicketService) Search(ctx context.Context, filter SearchFilter, page Page) ([]model.Ticket, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	if err := page.validate(); err != nil {
		return nil, err
	}
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	if filter.Title != nil {
		tx = tx.Where("LOWER(title) = LOWER(?)", *filter.Title)
	}
	if filter.Description != nil {
		tx = tx.Where("LOWER(description) = LOWER(?)", *filter.Description)
	}
	if filter.Priority != nil {
		tx = tx.Where("priority = ?", *filter.Priority)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", *filter.Status)
	}
	var items []model.Ticket
	if err := tx.Order("id ASC").Offset(page.Offset).Limit(page.limit()).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a field-level merge: only the fields present in the input
// overwrite stored values, everything else is untouched. An empty input is a
// no-op that returns the ticket unchanged.
func (s *TicketService) Update(ctx context.Context, id uint64, in *model.TicketUpdate) (*model.Ticket, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := in.Changes()
	if len(changes) == 0 {
		return t, nil
	}
	if err := s.db.WithContext(ctx).Model(t).Updates(changes).Error; err != nil {
		return nil, err
	}
	// Re-read so the caller sees exactly what storage holds.
	return s.GetByID(ctx, id)
}

// Delete removes the ticket and returns its pre-delete snapshot. A second
// delete of the same id fails with not-found.
func (s *TicketService) Delete(ctx context.Context, id uint64) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error; err != nil {
		return nil, err
	}
	return t, nil
}
