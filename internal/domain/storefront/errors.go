package storefront

import "errors"

var (
	// ErrNotFound indicates the requested storefront entity does not exist.
	ErrNotFound = errors.New("storefront: not found")
	// ErrConflict indicates a create raced with an identical create
	// (duplicate slug or name).
	ErrConflict = errors.New("storefront: conflict")
)
