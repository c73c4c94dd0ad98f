package cart

import (
	"context"

	"github.com/Ashutosh2ingh/AshMart/internal/domain"
)

type updateCall struct {
	VariationID int64
	Quantity    int
}

type mockAPI struct {
	lines []domain.CartLine

	fetchErr  error
	updateErr error
	deleteErr error

	fetchCalls  int
	updateCalls []updateCall
	deleteCalls []int64
}

func (m *mockAPI) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *mockAPI) UpdateQuantity(ctx context.Context, variationID int64, quantity int) error {
	m.updateCalls = append(m.updateCalls, updateCall{VariationID: variationID, Quantity: quantity})
	return m.updateErr
}

func (m *mockAPI) DeleteLine(ctx context.Context, variationID int64) error {
	m.deleteCalls = append(m.deleteCalls, variationID)
	return m.deleteErr
}
