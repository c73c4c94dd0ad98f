package cart

import "errors"

var (
	ErrStockLimit   = errors.New("cannot exceed available stock")
	ErrLineNotFound = errors.New("cart line not found")
)
