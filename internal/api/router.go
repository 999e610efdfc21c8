package api

import (
	"quickcheckout/internal/logger"
	m "quickcheckout/internal/middleware"
	"quickcheckout/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	AllowedOrigin string
	// Limiter is optional; nil disables rate limiting.
	Limiter *m.RateLimiter
}

func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(m.CORS(opts.AllowedOrigin))
	r.Use(m.AuthMiddleware(h.deps.Tokens))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.Get("/healthz", h.Health)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{code}", h.GetProduct)
	})

	// Customer kiosk
	r.Route("/checkout/sessions", func(r chi.Router) {
		r.Post("/", h.CreateCheckout)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.CheckoutSession)
			r.Get("/", h.GetCheckout)
			r.Delete("/", h.DeleteCheckout)

			r.Post("/start", startCheckout)
			r.Post("/identify", identifyCustomer)
			r.Post("/scan", scanItem)
			r.Post("/camera-scan", startCameraScan)
			r.Delete("/camera-scan", stopCameraScan)
			r.Put("/lines/{lineID}", setCheckoutQuantity)
			r.Delete("/lines/{lineID}", removeCheckoutLine)
			r.Post("/lines/{lineID}/verify-weight", verifyWeight)

			r.Post("/payment", proceedToPayment)
			r.Post("/back", backToScanner)
			r.Post("/coupon", applyCoupon)
			r.Post("/bags", setBags)
			r.Post("/payment-method", selectPaymentMethod)
			r.Post("/receipt", setReceipt)
			r.Post("/pay", pay)
			r.Post("/new", newCheckoutTransaction)
		})
	})

	// Staff
	r.Route("/staff", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(m.RequireOperatorOrInternal).Get("/register/stats", h.Stats)

		r.Group(func(r chi.Router) {
			r.Use(m.RequireOperator)

			r.Route("/register", func(r chi.Router) {
				r.Post("/", h.OpenRegister)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.RegisterSession)
					r.Get("/", h.GetRegister)
					r.Delete("/", h.CloseRegister)

					r.Post("/scan", registerScan)
					r.Post("/age/confirm", confirmAge)
					r.Post("/age/cancel", cancelAge)
					r.Post("/override", openOverride)
					r.Post("/override/submit", submitOverride)
					r.Put("/lines/{lineID}", setRegisterQuantity)
					r.Delete("/lines/{lineID}", removeRegisterLine)
					r.Post("/void", voidTransaction)
					r.Post("/complete", completeSale)
					r.Post("/new", newRegisterTransaction)
				})
			})

			r.Route("/returns", func(r chi.Router) {
				r.Use(RequireCapability(session.CapManageReturns))
				r.Get("/", h.ListReturns)
				r.Post("/{id}/approve", h.ApproveReturn)
				r.Post("/{id}/reject", h.RejectReturn)
			})
		})
	})

	return r
}
