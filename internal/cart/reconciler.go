package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Ashutosh2ingh/AshMart/internal/domain"
)

// Reconciler owns the in-memory cart line state. Quantity mutations are
// applied locally first, then pushed to the server; if the remote update
// fails the local value is reverted to the last known-good server value so
// client and server never diverge indefinitely.
type Reconciler struct {
	api API
	log *zap.Logger

	mu    sync.Mutex
	lines []domain.CartLine
	sfg   singleflight.Group
}

func NewReconciler(api API, log *zap.Logger) *Reconciler {
	return &Reconciler{api: api, log: log}
}

// Refresh reloads the cart from the server. Concurrent callers share one
// round trip.
func (r *Reconciler) Refresh(ctx context.Context) ([]domain.CartLine, error) {
	v, err, _ := r.sfg.Do("cart", func() (interface{}, error) {
		lines, err := r.api.FetchCart(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.lines = lines
		r.mu.Unlock()
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartLine), nil
}

// Lines returns a copy of the current local cart state.
func (r *Reconciler) Lines() []domain.CartLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CartLine, len(r.lines))
	copy(out, r.lines)
	return out
}

// Increase bumps a line's quantity by one. At the stock ceiling it refuses
// without mutating anything or touching the network.
func (r *Reconciler) Increase(ctx context.Context, lineID int64) error {
	r.mu.Lock()
	line := r.find(lineID)
	if line == nil {
		r.mu.Unlock()
		return ErrLineNotFound
	}
	if line.Quantity >= line.Product.Stock {
		r.mu.Unlock()
		return ErrStockLimit
	}
	previous := line.Quantity
	line.Quantity = previous + 1 // optimistic
	variationID := line.Product.ID
	r.mu.Unlock()

	if err := r.api.UpdateQuantity(ctx, variationID, previous+1); err != nil {
		r.revert(lineID, previous)
		r.log.Warn("quantity increase rejected, reverting",
			zap.Int64("line_id", lineID), zap.Int("quantity", previous), zap.Error(err))
		return err
	}
	return nil
}

// Decrease lowers a line's quantity by one. At quantity one the semantic is
// removal: the remote quantity is set to zero, the cart is refetched and
// removed=true is reported.
func (r *Reconciler) Decrease(ctx context.Context, lineID int64) (removed bool, err error) {
	r.mu.Lock()
	line := r.find(lineID)
	if line == nil {
		r.mu.Unlock()
		return false, ErrLineNotFound
	}
	previous := line.Quantity
	variationID := line.Product.ID

	if previous <= 1 {
		r.mu.Unlock()
		if e2 := r.api.UpdateQuantity(ctx, variationID, 0); e2 != nil {
			return false, e2
		}
		if _, e2 := r.Refresh(ctx); e2 != nil {
			return true, e2
		}
		return true, nil
	}

	line.Quantity = previous - 1 // optimistic
	r.mu.Unlock()

	if e2 := r.api.UpdateQuantity(ctx, variationID, previous-1); e2 != nil {
		r.revert(lineID, previous)
		r.log.Warn("quantity decrease rejected, reverting",
			zap.Int64("line_id", lineID), zap.Int("quantity", previous), zap.Error(e2))
		return false, e2
	}
	return false, nil
}

// Remove deletes a line by its variation id, then refetches the cart
// regardless of how the delete went.
func (r *Reconciler) Remove(ctx context.Context, lineID int64) error {
	r.mu.Lock()
	line := r.find(lineID)
	if line == nil {
		r.mu.Unlock()
		return ErrLineNotFound
	}
	variationID := line.Product.ID
	r.mu.Unlock()

	if err := r.api.DeleteLine(ctx, variationID); err != nil {
		r.log.Warn("cart line delete failed, refetching anyway",
			zap.Int64("variation_id", variationID), zap.Error(err))
	}
	_, err := r.Refresh(ctx)
	return err
}

// Subtotal is the original-price total of the local cart state.
func (r *Reconciler) Subtotal() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, line := range r.lines {
		sum += line.Product.OriginalPriceValue() * float64(line.Quantity)
	}
	return sum
}

// Discount is the total saved against the original prices.
func (r *Reconciler) Discount() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, line := range r.lines {
		perItem := line.Product.OriginalPriceValue() - line.Product.DiscountPriceValue()
		sum += perItem * float64(line.Quantity)
	}
	return sum
}

// Total is the payable discount-price total.
func (r *Reconciler) Total() float64 {
	return r.Subtotal() - r.Discount()
}

// find returns a pointer into r.lines; callers hold r.mu.
func (r *Reconciler) find(lineID int64) *domain.CartLine {
	for i := range r.lines {
		if r.lines[i].ID == lineID {
			return &r.lines[i]
		}
	}
	return nil
}

func (r *Reconciler) revert(lineID int64, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if line := r.find(lineID); line != nil {
		line.Quantity = quantity
	}
}
