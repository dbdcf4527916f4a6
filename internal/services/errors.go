package services

import "errors"

// Precondition failures are detected before any write and reported with one of
// these sentinels, wrapped with a reason. Handlers map them onto HTTP statuses.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidState    = errors.New("invalid state")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrConflict        = errors.New("conflict")
)

// Identity is the resolved caller passed explicitly into every operation.
type Identity struct {
	ID   uint
	Role string
}
