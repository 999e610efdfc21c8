package register

import (
	"errors"

	"quickcheckout/internal/cart"
	"quickcheckout/internal/catalog"
)

var (
	ErrInvalidTransition      = errors.New("action not available in current state")
	ErrEmptyCart              = errors.New("cannot complete a sale with an empty cart")
	ErrAgeVerificationPending = errors.New("verify the customer's age first")
	ErrOverrideNotPermitted   = errors.New("price override requires a supervisor or manager")
	ErrInvalidOverridePrice   = errors.New("please enter a valid price")
	ErrNoOverrideOpen         = errors.New("no price override in progress")
)

// Message is the text shown at the register for a failed action.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrEmptyCode):
		return "Please enter a valid barcode"
	case errors.Is(err, catalog.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, cart.ErrLineNotFound):
		return "Item is no longer in the cart"
	case errors.Is(err, ErrInvalidOverridePrice):
		return "Please enter a valid price"
	default:
		return err.Error()
	}
}
