package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the completion state of an item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggle flips pending and completed.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// UnmarshalJSON rejects anything the board cannot place in exactly one view.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st := Status(raw)
	if !st.Valid() {
		return fmt.Errorf("unknown status %q", raw)
	}
	*s = st
	return nil
}

// Item is the domain model for a task entry. The remote collaborator owns it;
// the id is assigned there, never here.
type Item struct {
	ID           int       `json:"id"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	CreationDate time.Time `json:"creationDate"`
}

func (i Item) Done() bool { return i.Status == StatusCompleted }

// NewItem is the create request body.
type NewItem struct {
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	CreationDate time.Time `json:"creationDate"`
}

// StatusUpdate is the patch request body. Description is resubmitted unchanged.
type StatusUpdate struct {
	Description string `json:"description"`
	Status      Status `json:"status"`
}
