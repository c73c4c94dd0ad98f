package domain

import "strconv"

// Color and Size are the variation axes the storefront exposes.
type Color struct {
	ID    int64  `json:"id"`
	Color string `json:"color"`
}

type Size struct {
	ID   int64  `json:"id"`
	Size string `json:"size"`
}

// Variation is one purchasable product variation. The server serializes
// prices as strings.
type Variation struct {
	ID            int64  `json:"id"`
	Color         Color  `json:"color"`
	Size          Size   `json:"size"`
	OriginalPrice string `json:"original_price"`
	DiscountPrice string `json:"discount_price"`
	Stock         int    `json:"stock"`
	ProductName   string `json:"product_name"`
	ProductImage  string `json:"product_image"`
}

// CartLine is one variation entry in a customer's cart. Lines are created
// server-side; the client only mutates quantity or requests deletion.
type CartLine struct {
	ID       int64     `json:"id"`
	Product  Variation `json:"product"`
	Quantity int       `json:"quantity"`
	Customer int64     `json:"customer"`
}

func (v Variation) OriginalPriceValue() float64 {
	return parsePrice(v.OriginalPrice)
}

func (v Variation) DiscountPriceValue() float64 {
	return parsePrice(v.DiscountPrice)
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
