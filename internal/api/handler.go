package api

import (
	"quickcheckout/internal/auth"
	"quickcheckout/internal/catalog"
	"quickcheckout/internal/checkout"
	"quickcheckout/internal/metrics"
	"quickcheckout/internal/register"
	"quickcheckout/internal/returns"
	"quickcheckout/internal/session"
)

type Deps struct {
	Catalog       catalog.Service
	Returns       returns.Service
	Authenticator auth.Authenticator
	Tokens        *auth.Tokens
	Sales         *metrics.Sales

	Checkout checkout.Options
	Register register.Options

	// SecureCookies marks the access token cookie Secure.
	SecureCookies bool
}

// Handler serves the kiosk and staff endpoints. Each checkout or register
// session owns its own flow; flows are closed when their session is deleted.
type Handler struct {
	deps      Deps
	checkouts *session.Store[*checkout.Flow]
	registers *session.Store[*register.Flow]
}

func NewHandler(deps Deps) *Handler {
	if deps.Sales == nil {
		deps.Sales = metrics.NewSales()
	}
	return &Handler{
		deps:      deps,
		checkouts: session.NewStore(func(f *checkout.Flow) { f.Close() }),
		registers: session.NewStore(func(f *register.Flow) { f.Close() }),
	}
}

// Close ends every live session.
func (h *Handler) Close() {
	h.checkouts.Close()
	h.registers.Close()
}
