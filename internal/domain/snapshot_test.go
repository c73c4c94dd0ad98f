package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(variationID int64, discountPrice string, qty int) CartLine {
	return CartLine{
		ID: variationID * 100,
		Product: Variation{
			ID:            variationID,
			OriginalPrice: discountPrice,
			DiscountPrice: discountPrice,
			Stock:         10,
			ProductName:   "shirt",
		},
		Quantity: qty,
	}
}

func TestNewCartSnapshot_Totals(t *testing.T) {
	snapshot := NewCartSnapshot([]CartLine{
		line(10, "100.00", 2),
		line(20, "50.00", 1),
	})

	require.Len(t, snapshot.Lines, 2)
	assert.Equal(t, int64(10), snapshot.Lines[0].VariationID)
	assert.Equal(t, 200.0, snapshot.Lines[0].Subtotal)
	assert.Equal(t, 250.0, snapshot.Total)
	assert.Equal(t, "INR", snapshot.Currency)
	assert.Equal(t, int64(25000), snapshot.TotalMinorUnits())
}

func TestTotalMinorUnits_RoundsAccumulation(t *testing.T) {
	// 33.33 * 3 = 99.99 in decimal but not exactly in binary floating
	// point; the minor-unit conversion must still come out at 9999.
	snapshot := NewCartSnapshot([]CartLine{line(1, "33.33", 3)})
	assert.Equal(t, int64(9999), snapshot.TotalMinorUnits())
}

func TestNewCartSnapshot_Empty(t *testing.T) {
	snapshot := NewCartSnapshot(nil)
	assert.True(t, snapshot.Empty())
	assert.Equal(t, int64(0), snapshot.TotalMinorUnits())
}

func TestVariation_PriceParsing(t *testing.T) {
	v := Variation{OriginalPrice: "129.50", DiscountPrice: "not-a-price"}
	assert.Equal(t, 129.5, v.OriginalPriceValue())
	assert.Equal(t, 0.0, v.DiscountPriceValue())
}
