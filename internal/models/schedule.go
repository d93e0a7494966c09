package models

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleEvent struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CompanyID    uuid.UUID  `json:"company_id" db:"company_id"`
	JobID        *uuid.UUID `json:"job_id" db:"job_id"`
	TechnicianID *uuid.UUID `json:"technician_id" db:"technician_id"`
	Title        string     `json:"title" db:"title"`
	Start        time.Time  `json:"start" db:"start"`
	End          time.Time  `json:"end" db:"end"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ScheduleEventFilter narrows the event listing.
type ScheduleEventFilter struct {
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty"`
}
