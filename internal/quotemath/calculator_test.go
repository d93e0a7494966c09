package quotemath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workero/internal/common"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCompute_SimpleQuote(t *testing.T) {
	totals, err := Compute([]ItemInput{
		{Description: "Labor", Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: decPtr("10")},
		{Description: "Parts", Quantity: dec("1"), UnitPrice: dec("20")},
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("120.00")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(dec("10.00")), "tax = %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(dec("130.00")), "total = %s", totals.Total)

	require.Len(t, totals.Items, 2)
	assert.True(t, totals.Items[0].LineTotal.Equal(dec("100.00")))
	assert.True(t, totals.Items[1].LineTotal.Equal(dec("20.00")))
	assert.True(t, totals.Items[1].TaxRate.Equal(decimal.Zero), "missing tax rate defaults to 0")
}

func TestCompute_TotalInvariant(t *testing.T) {
	cases := [][]ItemInput{
		{{Description: "a", Quantity: dec("3"), UnitPrice: dec("19.99"), TaxRate: decPtr("7.5")}},
		{
			{Description: "a", Quantity: dec("0.5"), UnitPrice: dec("33.33"), TaxRate: decPtr("21")},
			{Description: "b", Quantity: dec("12"), UnitPrice: dec("0.07")},
			{Description: "c", Quantity: dec("1"), UnitPrice: dec("0"), TaxRate: decPtr("100")},
		},
		{{Description: "a", Quantity: dec("1000000"), UnitPrice: dec("0.01"), TaxRate: decPtr("0.01")}},
	}

	for _, items := range cases {
		totals, err := Compute(items)
		require.NoError(t, err)

		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)),
			"total %s != subtotal %s + tax %s", totals.Total, totals.Subtotal, totals.TaxAmount)

		sum := decimal.Zero
		for _, line := range totals.Items {
			assert.True(t, line.LineTotal.Equal(line.Quantity.Mul(line.UnitPrice).Round(2)))
			sum = sum.Add(line.LineTotal)
		}
		assert.True(t, totals.Subtotal.Equal(sum))
	}
}

func TestCompute_LineTotalsRoundPerLine(t *testing.T) {
	// 3 * 0.333 = 0.999 rounds to 1.00 per line before summing.
	totals, err := Compute([]ItemInput{
		{Description: "a", Quantity: dec("3"), UnitPrice: dec("0.333")},
		{Description: "b", Quantity: dec("3"), UnitPrice: dec("0.333")},
	})
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("2.00")), "subtotal = %s", totals.Subtotal)
}

func TestCompute_TaxRoundedOnceAtEnd(t *testing.T) {
	// Each line's tax is 0.075; per-line rounding would give 0.16,
	// aggregate rounding gives 0.15.
	totals, err := Compute([]ItemInput{
		{Description: "a", Quantity: dec("1"), UnitPrice: dec("1.50"), TaxRate: decPtr("5")},
		{Description: "b", Quantity: dec("1"), UnitPrice: dec("1.50"), TaxRate: decPtr("5")},
	})
	require.NoError(t, err)
	assert.True(t, totals.TaxAmount.Equal(dec("0.15")), "tax = %s", totals.TaxAmount)
}

func TestCompute_EmptyItems(t *testing.T) {
	_, err := Compute(nil)
	require.Error(t, err)

	appErr := common.AsAppError(err)
	assert.Equal(t, common.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "items")
}

func TestCompute_ReportsEveryViolation(t *testing.T) {
	long := make([]byte, MaxDescriptionLen+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := Compute([]ItemInput{
		{Description: "", Quantity: dec("0"), UnitPrice: dec("-1"), TaxRate: decPtr("101")},
		{Description: string(long), Quantity: dec("1"), UnitPrice: dec("5")},
	})
	require.Error(t, err)

	appErr := common.AsAppError(err)
	assert.Equal(t, common.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "items.0.description")
	assert.Contains(t, appErr.Fields, "items.0.quantity")
	assert.Contains(t, appErr.Fields, "items.0.unit_price")
	assert.Contains(t, appErr.Fields, "items.0.tax_rate")
	assert.Contains(t, appErr.Fields, "items.1.description")
}

func TestValidate_DescriptionLimitCountsCharacters(t *testing.T) {
	// 200 two-byte runes exceed 255 bytes but stay within the limit.
	multibyte := ""
	for i := 0; i < 200; i++ {
		multibyte += "é"
	}
	require.NoError(t, Validate([]ItemInput{
		{Description: multibyte, Quantity: dec("1"), UnitPrice: dec("5")},
	}))

	overlong := ""
	for i := 0; i < MaxDescriptionLen+1; i++ {
		overlong += "é"
	}
	err := Validate([]ItemInput{
		{Description: overlong, Quantity: dec("1"), UnitPrice: dec("5")},
	})
	require.Error(t, err)
	assert.Contains(t, common.AsAppError(err).Fields, "items.0.description")
}

func TestCompute_BoundaryValues(t *testing.T) {
	// Zero unit price and the tax rate endpoints are all legal.
	totals, err := Compute([]ItemInput{
		{Description: "free", Quantity: dec("5"), UnitPrice: dec("0"), TaxRate: decPtr("0")},
		{Description: "full tax", Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: decPtr("100")},
	})
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("10.00")))
	assert.True(t, totals.TaxAmount.Equal(dec("10.00")))
	assert.True(t, totals.Total.Equal(dec("20.00")))
}
