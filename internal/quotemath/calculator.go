// Package quotemath derives quote totals from line-item inputs. All
// arithmetic is fixed-point decimal; binary floats never touch money.
package quotemath

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"workero/internal/common"
)

// MoneyScale is the stored scale of every monetary amount.
const MoneyScale = 2

// MaxDescriptionLen bounds a line item description.
const MaxDescriptionLen = 255

var oneHundred = decimal.NewFromInt(100)

// ItemInput is one line of a quote as submitted by the caller. TaxRate
// is a percentage in [0,100]; nil means untaxed.
type ItemInput struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// ItemResult is one computed line.
type ItemResult struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal
}

// Totals is the computed money summary of a quote.
type Totals struct {
	Items     []ItemResult
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Compute validates the item set and derives line totals, subtotal, tax
// and total. Line totals are rounded to the stored scale per line; tax
// is accumulated at full precision and rounded once at the end. Returns
// a validation error naming every offending field; nothing is computed
// partially.
func Compute(items []ItemInput) (*Totals, error) {
	if err := Validate(items); err != nil {
		return nil, err
	}

	totals := &Totals{
		Items:     make([]ItemResult, 0, len(items)),
		Subtotal:  decimal.Zero,
		TaxAmount: decimal.Zero,
		Total:     decimal.Zero,
	}

	tax := decimal.Zero
	for _, item := range items {
		rate := decimal.Zero
		if item.TaxRate != nil {
			rate = *item.TaxRate
		}

		lineTotal := item.Quantity.Mul(item.UnitPrice).Round(MoneyScale)
		tax = tax.Add(lineTotal.Mul(rate.Div(oneHundred)))

		totals.Items = append(totals.Items, ItemResult{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     rate,
			LineTotal:   lineTotal,
		})
		totals.Subtotal = totals.Subtotal.Add(lineTotal)
	}

	totals.TaxAmount = tax.Round(MoneyScale)
	totals.Total = totals.Subtotal.Add(totals.TaxAmount)
	return totals, nil
}

// Validate checks every item against the input constraints and reports
// all violations at once.
func Validate(items []ItemInput) error {
	fields := map[string]string{}
	if len(items) == 0 {
		fields["items"] = "at least one item is required"
		return common.NewValidationError("Validation error", fields)
	}

	for i, item := range items {
		if item.Description == "" {
			fields[fmt.Sprintf("items.%d.description", i)] = "description is required"
		} else if utf8.RuneCountInString(item.Description) > MaxDescriptionLen {
			fields[fmt.Sprintf("items.%d.description", i)] = fmt.Sprintf("description cannot exceed %d characters", MaxDescriptionLen)
		}
		if !item.Quantity.IsPositive() {
			fields[fmt.Sprintf("items.%d.quantity", i)] = "quantity must be greater than 0"
		}
		if item.UnitPrice.IsNegative() {
			fields[fmt.Sprintf("items.%d.unit_price", i)] = "unit price cannot be negative"
		}
		if item.TaxRate != nil && (item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(oneHundred)) {
			fields[fmt.Sprintf("items.%d.tax_rate", i)] = "tax rate must be between 0 and 100"
		}
	}

	if len(fields) > 0 {
		return common.NewValidationError("Validation error", fields)
	}
	return nil
}
