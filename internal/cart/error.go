package cart

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyLineID     = errors.New("cart line id is required")
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidPrice    = errors.New("invalid price")

	// -- Resource State --
	ErrLineNotFound = errors.New("cart line not found")
)
