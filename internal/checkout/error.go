package checkout

import (
	"errors"
	"fmt"

	"quickcheckout/internal/catalog"
	"quickcheckout/internal/pricing"
)

var (
	ErrInvalidTransition    = errors.New("action not available in current state")
	ErrEmptyCart            = errors.New("please add at least one item to proceed")
	ErrPaymentProcessing    = errors.New("payment is being processed")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidReceiptMethod = errors.New("invalid receipt method")
	ErrTooManyBags          = fmt.Errorf("no more than %d bags per transaction", pricing.MaxBags)
)

// Message is the user-facing text for a failed action.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrEmptyCode):
		return "Please enter a valid barcode"
	case errors.Is(err, catalog.ErrProductNotFound):
		return "Product not found. Please try another barcode."
	case errors.Is(err, ErrEmptyCart):
		return "Please add at least one item to proceed"
	default:
		return err.Error()
	}
}
