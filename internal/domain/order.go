package domain

// OrderVariation is the product summary attached to an order record.
type OrderVariation struct {
	ID           int64  `json:"id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
}

// Order is one placed order as returned by the order listing endpoint.
// One order record exists per former cart line.
type Order struct {
	OrderID          int64          `json:"order_id"`
	Customer         int64          `json:"customer"`
	ProductVariation OrderVariation `json:"product_variation"`
	OrderStatus      string         `json:"order_status"`
	OrderDate        string         `json:"order_date"`
}
