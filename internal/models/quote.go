package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus is the closed set of quote lifecycle states.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// ParseQuoteStatus validates a status value at the boundary.
func ParseQuoteStatus(s string) (QuoteStatus, error) {
	switch QuoteStatus(s) {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return QuoteStatus(s), nil
	}
	return "", fmt.Errorf("quote status must be one of: draft, sent, accepted, rejected, expired")
}

// quoteTransitions is the legal forward edges of the lifecycle graph.
// Expiry is reached only from sent, recorded lazily on a stale accept.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft: {QuoteStatusSent},
	QuoteStatusSent:  {QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired},
}

// CanTransition reports whether moving from s to next is a legal edge.
// Re-sending an already sent quote is allowed; draft -> draft is not a
// transition and send from draft is modeled as draft -> sent.
func (s QuoteStatus) CanTransition(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further lifecycle operation (other than
// delete) applies.
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusRejected || s == QuoteStatusExpired
}

// Mutable reports whether field/item updates are still permitted.
func (s QuoteStatus) Mutable() bool {
	return s == QuoteStatusDraft || s == QuoteStatusSent
}

type Quote struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CompanyID    uuid.UUID       `json:"company_id" db:"company_id"`
	ClientID     uuid.UUID       `json:"client_id" db:"client_id"`
	Subtotal     decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	Total        decimal.Decimal `json:"total" db:"total"`
	ProfitMargin decimal.Decimal `json:"profit_margin" db:"profit_margin"`
	Status       QuoteStatus     `json:"status" db:"status"`
	ValidUntil   time.Time       `json:"valid_until" db:"valid_until"`
	Notes        *string         `json:"notes" db:"notes"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	// Loaded relations, populated by the repository on reads.
	Client *Client      `json:"client,omitempty" db:"-"`
	Items  []*QuoteItem `json:"items,omitempty" db:"-"`
}

type QuoteItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	QuoteID     uuid.UUID       `json:"quote_id" db:"quote_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total" db:"line_total"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// QuoteSearchFilter holds search and filter criteria for quote listing
type QuoteSearchFilter struct {
	Status        *QuoteStatus `json:"status,omitempty"`         // Status filter
	ClientID      *uuid.UUID   `json:"client_id,omitempty"`      // Client filter
	Search        string       `json:"search,omitempty"`         // Substring match on client name, client email, quote notes
	SortBy        string       `json:"sort_by,omitempty"`        // Sort column, whitelisted by the repository
	SortDirection string       `json:"sort_direction,omitempty"` // asc or desc
	Page          int          `json:"page,omitempty"`           // 1-based page number
	Limit         int          `json:"limit,omitempty"`          // Page size (default 10)
}

// QuotePatch carries the optional scalar fields of a quote update. Nil
// means "leave untouched".
type QuotePatch struct {
	ValidUntil   *time.Time
	Notes        *string
	ProfitMargin *decimal.Decimal
	Status       *QuoteStatus
}

// Empty reports whether the patch changes nothing.
func (p QuotePatch) Empty() bool {
	return p.ValidUntil == nil && p.Notes == nil && p.ProfitMargin == nil && p.Status == nil
}
