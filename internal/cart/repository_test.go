package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/internal/api"
)

type staticTokens string

func (s staticTokens) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

const cartPayload = `[
	{
		"id": 100,
		"product": {
			"id": 10,
			"color": {"id": 1, "color": "Red"},
			"size": {"id": 2, "size": "M"},
			"original_price": "100.00",
			"discount_price": "90.00",
			"stock": 5,
			"product_name": "Shirt",
			"product_image": "/media/shirt.png"
		},
		"quantity": 2,
		"customer": 7
	}
]`

func TestFetchCart(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Token secret", req.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cartPayload))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, staticTokens("secret"), zap.NewNop()))
	lines, err := repo.FetchCart(context.Background())
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(100), lines[0].ID)
	assert.Equal(t, int64(10), lines[0].Product.ID)
	assert.Equal(t, "90.00", lines[0].Product.DiscountPrice)
	assert.Equal(t, 90.0, lines[0].Product.DiscountPriceValue())
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	var got updateCartRequest
	r := chi.NewRouter()
	r.Post("/update-cart/", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		w.Write([]byte(`{"message": "Cart Updated Successfully"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, staticTokens("secret"), zap.NewNop()))
	require.NoError(t, repo.UpdateQuantity(context.Background(), 10, 3))

	assert.Equal(t, updateCartRequest{ProductVariationID: 10, Quantity: 3}, got)
}

func TestDeleteLine(t *testing.T) {
	var gotID string
	r := chi.NewRouter()
	r.Delete("/delete-cart/{variationID}/", func(w http.ResponseWriter, req *http.Request) {
		gotID = chi.URLParam(req, "variationID")
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, staticTokens("secret"), zap.NewNop()))
	require.NoError(t, repo.DeleteLine(context.Background(), 10))
	assert.Equal(t, "10", gotID)
}

func TestUpdateQuantity_ServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/update-cart/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Cannot exceed available stock"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, staticTokens("secret"), zap.NewNop()))
	err := repo.UpdateQuantity(context.Background(), 10, 99)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Cannot exceed available stock", apiErr.Message)
}
