package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Ashutosh2ingh/AshMart/internal/api"
	"github.com/Ashutosh2ingh/AshMart/internal/domain"
)

// Client talks to the order and payment-confirmation endpoints.
type Client struct {
	client *api.Client
}

func NewClient(client *api.Client) *Client {
	return &Client{client: client}
}

type confirmPaymentRequest struct {
	Amount            float64 `json:"amount"`
	RazorpayPaymentID string  `json:"razorpay_payment_id"`
	PaymentStatus     string  `json:"payment_status"`
}

// ConfirmPayment records the gateway result server-side. The amount is the
// snapshot total in major units, exactly the value the gateway charged.
func (c *Client) ConfirmPayment(ctx context.Context, amount float64, paymentID string) error {
	req := confirmPaymentRequest{
		Amount:            amount,
		RazorpayPaymentID: paymentID,
		PaymentStatus:     "Success",
	}
	if err := c.client.Post(ctx, "/payment/", req, nil, nil); err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}
	return nil
}

type CreateOrderRequest struct {
	PaymentID          string `json:"payment_id"`
	ProductVariationID int64  `json:"product_variation_id"`
	Quantity           int    `json:"quantity"`
	ShipmentAddressID  int64  `json:"shipment_address_id"`

	// IdempotencyKey travels as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

// Create places one order record for a former cart line.
func (c *Client) Create(ctx context.Context, req CreateOrderRequest) error {
	var headers http.Header
	if req.IdempotencyKey != "" {
		headers = http.Header{api.IdempotencyKeyHeader: []string{req.IdempotencyKey}}
	}
	if err := c.client.Post(ctx, "/order/", req, nil, headers); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

type listOrdersResponse struct {
	Data []domain.Order `json:"data"`
}

// List returns the customer's placed orders.
func (c *Client) List(ctx context.Context) ([]domain.Order, error) {
	var res listOrdersResponse
	if err := c.client.Get(ctx, "/order/", &res); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return res.Data, nil
}
