package model

import (
	"fmt"
	"strings"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/errs"
)

const (
	PriorityMin = 1
	PriorityMax = 5
)

// ValidatePriority enforces the [PriorityMin, PriorityMax] range.
func ValidatePriority(p int) error {
	if p < PriorityMin || p > PriorityMax {
		return errs.Validation("priority", fmt.Sprintf("must be between %d and %d", PriorityMin, PriorityMax))
	}
	return nil
}

func validateStatus(s TicketStatus) error {
	if !s.Valid() {
		return errs.Validation("status", fmt.Sprintf("must be one of %q, %q, %q",
			TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed))
	}
	return nil
}

// TicketCreate is the creation input: the only fields a client may set when
// making a new ticket. Status is structurally excluded so new tickets always
// start open; pointer fields distinguish a missing key from a zero value.
type TicketCreate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
}

func (in *TicketCreate) Validate() error {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return errs.Validation("title", "is required")
	}
	if in.Description == nil {
		return errs.Validation("description", "is required")
	}
	if in.Priority == nil {
		return errs.Validation("priority", "is required")
	}
	return ValidatePriority(*in.Priority)
}

// NewTicket projects the creation input onto a fresh entity. The id is left
// for storage to assign and the status always starts open.
func (in *TicketCreate) NewTicket() *Ticket {
	return &Ticket{
		Title:       *in.Title,
		Description: *in.Description,
		Priority:    *in.Priority,
		Status:      TicketStatusOpen,
	}
}

// TicketUpdate is the partial-update input. Every field is optional; a nil
// pointer means "leave unchanged", which is distinct from a pointer to an
// empty or zero value.
type TicketUpdate struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Priority    *int          `json:"priority"`
	Status      *TicketStatus `json:"status"`
}

// Validate checks only the fields that are present.
func (in *TicketUpdate) Validate() error {
	if in.Priority != nil {
		if err := ValidatePriority(*in.Priority); err != nil {
			return err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return err
		}
	}
	return nil
}

// Changes returns the column map for the merge: one entry per field the
// client actually sent. An empty map means the patch is a no-op.
func (in *TicketUpdate) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if in.Priority != nil {
		changes["priority"] = *in.Priority
	}
	if in.Status != nil {
		changes["status"] = *in.Status
	}
	return changes
}
