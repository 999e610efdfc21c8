package api

import (
	"context"
	"net/http"

	"quickcheckout/internal/checkout"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const SessionIDHeader = "X-Session-ID"

type ctxKey string

const (
	checkoutFlowKey ctxKey = "checkout_flow"
	registerFlowKey ctxKey = "register_flow"
)

func checkoutFrom(ctx context.Context) *checkout.Flow {
	f, _ := ctx.Value(checkoutFlowKey).(*checkout.Flow)
	return f
}

// CheckoutSession loads the flow named by the {id} route parameter.
func (h *Handler) CheckoutSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		flow, err := h.checkouts.Get(id)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		ctx := logger.WithSessionID(r.Context(), id)
		ctx = context.WithValue(ctx, checkoutFlowKey, flow)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeCheckout(w http.ResponseWriter, status int, f *checkout.Flow) {
	w.Header().Set(SessionIDHeader, f.ID())
	utils.WriteJSON(w, status, toCheckoutDTO(f.Snapshot()))
}

// checkoutCommand runs cmd against the session flow and answers with the
// resulting snapshot.
func checkoutCommand(cmd func(r *http.Request, f *checkout.Flow) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := checkoutFrom(r.Context())
		if err := cmd(r, f); err != nil {
			writeError(w, r, err, checkout.Message(err))
			return
		}
		writeCheckout(w, http.StatusOK, f)
	}
}

func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	entry := h.checkouts.Create(func(id string) *checkout.Flow {
		return checkout.NewFlow(id, h.deps.Catalog, h.deps.Sales, h.deps.Checkout)
	})

	logger.FromCtx(logger.WithSessionID(r.Context(), entry.ID)).Info("checkout session created",
		zap.String("layer", "api"),
	)
	writeCheckout(w, http.StatusCreated, entry.Value)
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	writeCheckout(w, http.StatusOK, checkoutFrom(r.Context()))
}

func (h *Handler) DeleteCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.checkouts.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var (
	startCheckout = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.Start(r.Context())
	})

	identifyCustomer = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var in checkout.IdentifyInput
		if err := decodeJSON(r, &in); err != nil {
			return err
		}
		return f.Identify(r.Context(), in)
	})

	scanItem = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var req codeRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.Scan(r.Context(), req.Code)
	})

	startCameraScan = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.StartCameraScan(r.Context())
	})

	stopCameraScan = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.StopCameraScan(r.Context())
	})

	setCheckoutQuantity = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var req quantityRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		if req.Quantity == nil {
			return ErrBadRequest
		}
		return f.SetQuantity(r.Context(), chi.URLParam(r, "lineID"), *req.Quantity)
	})

	removeCheckoutLine = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.Remove(r.Context(), chi.URLParam(r, "lineID"))
	})

	verifyWeight = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		req := verifyWeightRequest{}
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		verified := true
		if req.Verified != nil {
			verified = *req.Verified
		}
		return f.VerifyWeight(r.Context(), chi.URLParam(r, "lineID"), verified)
	})

	proceedToPayment = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.ProceedToPayment(r.Context())
	})

	backToScanner = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.BackToScanner(r.Context())
	})

	applyCoupon = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var req codeRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.ApplyCoupon(r.Context(), req.Code)
	})

	setBags = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var req bagsRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		if req.Count != nil {
			return f.SetBagCount(r.Context(), *req.Count)
		}
		return f.AdjustBags(r.Context(), req.Delta)
	})

	selectPaymentMethod = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var req methodRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.SelectPaymentMethod(r.Context(), req.Method)
	})

	setReceipt = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		var req methodRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.SetReceipt(r.Context(), req.Method, req.Email)
	})

	pay = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.Pay(r.Context())
	})

	newCheckoutTransaction = checkoutCommand(func(r *http.Request, f *checkout.Flow) error {
		return f.NewTransaction(r.Context())
	})
)
