package address

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/internal/api"
	"github.com/Ashutosh2ingh/AshMart/internal/domain"
)

var (
	ErrMissingField   = errors.New("all fields are required")
	ErrInvalidPincode = errors.New("pincode must be numeric")
)

// NewAddress is the user-entered form. Pincode arrives as text and is
// validated before submission; a non-numeric pincode is rejected here
// instead of being coerced into a sentinel the server would bounce.
type NewAddress struct {
	Name           string
	Email          string
	Phone          string
	FlatBuildingNo string
	City           string
	Pincode        string
	State          string
	Country        string
}

// Book is CRUD over shipment addresses. The list is refetched after every
// mutation; there are no optimistic inserts or deletes.
type Book struct {
	client *api.Client
	log    *zap.Logger
}

func NewBook(client *api.Client, log *zap.Logger) *Book {
	return &Book{client: client, log: log}
}

// Fetch returns the address list in server order. The first element is the
// checkout session's default selection when nothing is selected yet.
func (b *Book) Fetch(ctx context.Context) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := b.client.Get(ctx, "/shipment-address/", &addresses); err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}
	return addresses, nil
}

type createAddressRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	FlatBuildingNo string `json:"flat_building_no"`
	City           string `json:"city"`
	Pincode        int    `json:"pincode"`
	State          string `json:"state"`
	Country        string `json:"country"`
}

// Add validates the form, submits it, and returns the refetched list.
func (b *Book) Add(ctx context.Context, in NewAddress) ([]domain.Address, error) {
	for field, value := range map[string]string{
		"name": in.Name, "email": in.Email, "phone": in.Phone,
		"flat_building_no": in.FlatBuildingNo, "city": in.City,
		"pincode": in.Pincode, "state": in.State, "country": in.Country,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrMissingField, field)
		}
	}

	pincode, err := strconv.Atoi(in.Pincode)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPincode, in.Pincode)
	}

	req := createAddressRequest{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		FlatBuildingNo: in.FlatBuildingNo,
		City:           in.City,
		Pincode:        pincode,
		State:          in.State,
		Country:        in.Country,
	}
	if e2 := b.client.Post(ctx, "/shipment-address/", req, nil, nil); e2 != nil {
		return nil, fmt.Errorf("failed to add address: %w", e2)
	}

	return b.Fetch(ctx)
}

// Delete removes an address and returns the refetched list.
func (b *Book) Delete(ctx context.Context, id int64) ([]domain.Address, error) {
	path := fmt.Sprintf("/delete-shipment/%d/", id)
	if err := b.client.Delete(ctx, path); err != nil {
		return nil, fmt.Errorf("failed to delete address: %w", err)
	}
	return b.Fetch(ctx)
}

// DefaultSelection picks the id the checkout session starts with.
func DefaultSelection(addresses []domain.Address) (int64, bool) {
	if len(addresses) == 0 {
		return 0, false
	}
	return addresses[0].ID, true
}
