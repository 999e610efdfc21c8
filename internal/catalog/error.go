package catalog

import "errors"

var (
	ErrEmptyCode       = errors.New("please enter a valid barcode")
	ErrProductNotFound = errors.New("product not found")
)
