package domain

import (
	"math"
	"time"
)

type SnapshotLine struct {
	LineID      int64   `json:"line_id"`
	VariationID int64   `json:"variation_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// CartSnapshot is the cart's line-item contents frozen at the moment payment
// is initiated. The total charged to the payment gateway and the per-line
// order records always come from the snapshot, never from the live cart.
type CartSnapshot struct {
	Lines      []SnapshotLine `json:"lines"`
	Total      float64        `json:"total"`
	Currency   string         `json:"currency"`
	CapturedAt time.Time      `json:"captured_at"`
}

// NewCartSnapshot freezes the given cart lines. The total is the running
// float64 accumulation of discount price times quantity over the lines.
func NewCartSnapshot(lines []CartLine) *CartSnapshot {
	snapshot := &CartSnapshot{
		Lines:      make([]SnapshotLine, 0, len(lines)),
		Currency:   "INR",
		CapturedAt: time.Now(),
	}

	var total float64
	for _, line := range lines {
		subtotal := line.Product.DiscountPriceValue() * float64(line.Quantity)
		snapshot.Lines = append(snapshot.Lines, SnapshotLine{
			LineID:      line.ID,
			VariationID: line.Product.ID,
			ProductName: line.Product.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.DiscountPriceValue(),
			Subtotal:    subtotal,
		})
		total += subtotal
	}

	snapshot.Total = total
	return snapshot
}

// TotalMinorUnits converts the unrounded total to the gateway's minor unit
// (paise). Display rounding never feeds back into this value.
func (s *CartSnapshot) TotalMinorUnits() int64 {
	return int64(math.Round(s.Total * 100))
}

func (s *CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}
