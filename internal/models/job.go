package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobPriority is the closed set of job priorities.
type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityMedium JobPriority = "medium"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

// ParseJobPriority validates a priority value at the boundary.
func ParseJobPriority(s string) (JobPriority, error) {
	switch JobPriority(s) {
	case JobPriorityLow, JobPriorityMedium, JobPriorityHigh, JobPriorityUrgent:
		return JobPriority(s), nil
	}
	return "", fmt.Errorf("job priority must be one of: low, medium, high, urgent")
}

const JobStatusScheduled = "scheduled"

type Job struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	CompanyID          uuid.UUID        `json:"company_id" db:"company_id"`
	ClientID           uuid.UUID        `json:"client_id" db:"client_id"`
	QuoteID            *uuid.UUID       `json:"quote_id" db:"quote_id"`
	Title              string           `json:"title" db:"title"`
	Description        string           `json:"description" db:"description"`
	Status             string           `json:"status" db:"status"`
	Priority           JobPriority      `json:"priority" db:"priority"`
	EstimatedDuration  *decimal.Decimal `json:"estimated_duration" db:"estimated_duration"`
	AssignedTechnician *uuid.UUID       `json:"assigned_technician" db:"assigned_technician"`
	ScheduledDate      time.Time        `json:"scheduled_date" db:"scheduled_date"`
	Location           Address          `json:"location" db:"location"`
	Notes              *string          `json:"notes" db:"notes"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}
