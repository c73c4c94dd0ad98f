package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated means no credential is present in the store. It is
// raised before any network call is made; the surrounding flow should send
// the user to login.
var ErrUnauthenticated = errors.New("not authenticated")

// Error is a non-2xx response from the storefront server, carrying the
// server-provided message when one was given.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}
