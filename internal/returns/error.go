package returns

import "errors"

var (
	ErrReturnNotFound   = errors.New("return not found")
	ErrReturnNotPending = errors.New("return has already been processed")
	ErrInvalidStatus    = errors.New("invalid return status")
)
