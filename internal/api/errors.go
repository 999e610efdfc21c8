package api

import (
	"errors"
	"net/http"

	"quickcheckout/internal/auth"
	"quickcheckout/internal/cart"
	"quickcheckout/internal/catalog"
	"quickcheckout/internal/checkout"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/register"
	"quickcheckout/internal/returns"
	"quickcheckout/internal/session"
	"quickcheckout/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrBadRequest = errors.New("invalid request body")
	ErrForbidden  = errors.New("not allowed for this operator")
)

var statusByErr = []struct {
	err    error
	status int
}{
	{ErrBadRequest, http.StatusBadRequest},
	{catalog.ErrEmptyCode, http.StatusBadRequest},
	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{session.ErrInvalidIdentificationMode, http.StatusBadRequest},
	{checkout.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{checkout.ErrInvalidReceiptMethod, http.StatusBadRequest},
	{checkout.ErrTooManyBags, http.StatusBadRequest},
	{register.ErrInvalidOverridePrice, http.StatusBadRequest},
	{returns.ErrInvalidStatus, http.StatusBadRequest},
	{auth.ErrMissingCredentials, http.StatusBadRequest},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},

	{ErrForbidden, http.StatusForbidden},
	{register.ErrOverrideNotPermitted, http.StatusForbidden},

	{catalog.ErrProductNotFound, http.StatusNotFound},
	{cart.ErrLineNotFound, http.StatusNotFound},
	{session.ErrSessionNotFound, http.StatusNotFound},
	{returns.ErrReturnNotFound, http.StatusNotFound},

	{checkout.ErrInvalidTransition, http.StatusConflict},
	{checkout.ErrEmptyCart, http.StatusConflict},
	{checkout.ErrPaymentProcessing, http.StatusConflict},
	{register.ErrInvalidTransition, http.StatusConflict},
	{register.ErrEmptyCart, http.StatusConflict},
	{register.ErrAgeVerificationPending, http.StatusConflict},
	{register.ErrNoOverrideOpen, http.StatusConflict},
	{returns.ErrReturnNotPending, http.StatusConflict},
}

func statusFor(err error) int {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError responds with {"error": message}. Unmapped errors are logged and
// hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "api"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		message = http.StatusText(status)
	}
	if message == "" {
		message = err.Error()
	}
	utils.WriteJSONError(w, message, status)
}
