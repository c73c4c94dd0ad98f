package cart

import (
	"context"
	"fmt"

	"github.com/Ashutosh2ingh/AshMart/internal/api"
	"github.com/Ashutosh2ingh/AshMart/internal/domain"
)

// API is the remote cart contract as the reconciler and the checkout
// orchestrator consume it. Consumers define this interface, not the HTTP
// implementation.
type API interface {
	FetchCart(ctx context.Context) ([]domain.CartLine, error)
	UpdateQuantity(ctx context.Context, variationID int64, quantity int) error
	DeleteLine(ctx context.Context, variationID int64) error
}

// Repository is a stateless façade over the remote cart resource. Every
// call is one fresh HTTP round trip; no retries, no caching.
type Repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := r.client.Get(ctx, "/cart/", &lines); err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return lines, nil
}

type updateCartRequest struct {
	ProductVariationID int64 `json:"product_variation_id"`
	Quantity           int   `json:"quantity"`
}

func (r *Repository) UpdateQuantity(ctx context.Context, variationID int64, quantity int) error {
	req := updateCartRequest{ProductVariationID: variationID, Quantity: quantity}
	if err := r.client.Post(ctx, "/update-cart/", req, nil, nil); err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}

func (r *Repository) DeleteLine(ctx context.Context, variationID int64) error {
	path := fmt.Sprintf("/delete-cart/%d/", variationID)
	if err := r.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}
