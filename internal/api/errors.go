package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain failure reported by the service, carried through to
// callers unchanged so they can display it. Transport failures are returned
// as ordinary errors, never as *Error.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("service returned HTTP %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
