package domain

import "errors"

// Error kinds shared by every layer. Entity-specific errors wrap one of these
// so callers can classify failures with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("already exists")
	ErrInvalidReference = errors.New("reference is invalid")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("insufficient permissions")
)
