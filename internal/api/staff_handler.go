package api

import (
	"context"
	"net/http"

	"quickcheckout/internal/auth"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/register"
	"quickcheckout/internal/session"
	"quickcheckout/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

type loginResponse struct {
	Token    string      `json:"token"`
	Operator OperatorDTO `json:"operator"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	if req.Badge {
		req.EmployeeID = auth.SimulatedBadgeID()
		req.Password = auth.SimulatedBadgePassword
	}

	op, err := h.deps.Authenticator.Authenticate(r.Context(), req.EmployeeID, req.Password)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	token, err := h.deps.Tokens.Issue(op)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteJSON(w, http.StatusOK, loginResponse{Token: token, Operator: toOperatorDTO(op)})
}

// Logout clears the cookie and closes every register the operator had open.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if op, ok := utils.GetOperatorFromContext(r.Context()); ok {
		closed := h.registers.DeleteFunc(func(f *register.Flow) bool {
			return f.Operator().EmployeeID == op.EmployeeID
		})
		logger.FromCtx(r.Context()).Info("staff logout",
			zap.String("layer", "api"),
			zap.String("employee_id", op.EmployeeID),
			zap.Int("registers_closed", closed),
		)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, toStatsDTO(h.deps.Sales.Snapshot()))
}

func registerFrom(ctx context.Context) *register.Flow {
	f, _ := ctx.Value(registerFlowKey).(*register.Flow)
	return f
}

// RegisterSession loads the register named by {id}. Only the operator who
// opened it may drive it.
func (h *Handler) RegisterSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		flow, err := h.registers.Get(id)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		op, _ := utils.GetOperatorFromContext(r.Context())
		if flow.Operator().EmployeeID != op.EmployeeID {
			writeError(w, r, ErrForbidden, "")
			return
		}
		ctx := logger.WithSessionID(r.Context(), id)
		ctx = context.WithValue(ctx, registerFlowKey, flow)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeRegister(w http.ResponseWriter, status int, f *register.Flow) {
	w.Header().Set(SessionIDHeader, f.ID())
	utils.WriteJSON(w, status, toRegisterDTO(f.Snapshot()))
}

func registerCommand(cmd func(r *http.Request, f *register.Flow) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := registerFrom(r.Context())
		if err := cmd(r, f); err != nil {
			writeError(w, r, err, register.Message(err))
			return
		}
		writeRegister(w, http.StatusOK, f)
	}
}

func (h *Handler) OpenRegister(w http.ResponseWriter, r *http.Request) {
	op, _ := utils.GetOperatorFromContext(r.Context())
	entry := h.registers.Create(func(id string) *register.Flow {
		return register.NewFlow(id, op, h.deps.Catalog, h.deps.Sales, h.deps.Register)
	})

	logger.FromCtx(logger.WithSessionID(r.Context(), entry.ID)).Info("register opened",
		zap.String("layer", "api"),
		zap.String("employee_id", op.EmployeeID),
	)
	writeRegister(w, http.StatusCreated, entry.Value)
}

func (h *Handler) GetRegister(w http.ResponseWriter, r *http.Request) {
	writeRegister(w, http.StatusOK, registerFrom(r.Context()))
}

func (h *Handler) CloseRegister(w http.ResponseWriter, r *http.Request) {
	if err := h.registers.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireCapability is checked before the flow sees the command.
func requireCapability(c session.Capability, cmd func(r *http.Request, f *register.Flow) error) func(r *http.Request, f *register.Flow) error {
	return func(r *http.Request, f *register.Flow) error {
		if !f.Operator().Role.Can(c) {
			return ErrForbidden
		}
		return cmd(r, f)
	}
}

var (
	registerScan = registerCommand(func(r *http.Request, f *register.Flow) error {
		var req codeRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.Scan(r.Context(), req.Code)
	})

	confirmAge = registerCommand(func(r *http.Request, f *register.Flow) error {
		return f.ConfirmAge(r.Context())
	})

	cancelAge = registerCommand(func(r *http.Request, f *register.Flow) error {
		return f.CancelAge(r.Context())
	})

	openOverride = registerCommand(func(r *http.Request, f *register.Flow) error {
		var req overrideRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.OpenOverride(r.Context(), req.LineID)
	})

	submitOverride = registerCommand(func(r *http.Request, f *register.Flow) error {
		var req overrideSubmitRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		return f.SubmitOverride(r.Context(), req.Price)
	})

	setRegisterQuantity = registerCommand(func(r *http.Request, f *register.Flow) error {
		var req quantityRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		if req.Quantity == nil {
			return ErrBadRequest
		}
		return f.SetQuantity(r.Context(), chi.URLParam(r, "lineID"), *req.Quantity)
	})

	removeRegisterLine = registerCommand(func(r *http.Request, f *register.Flow) error {
		return f.Remove(r.Context(), chi.URLParam(r, "lineID"))
	})

	voidTransaction = registerCommand(requireCapability(session.CapVoidTransaction,
		func(r *http.Request, f *register.Flow) error {
			return f.Void(r.Context())
		}))

	completeSale = registerCommand(func(r *http.Request, f *register.Flow) error {
		return f.CompleteSale(r.Context())
	})

	newRegisterTransaction = registerCommand(func(r *http.Request, f *register.Flow) error {
		return f.NewTransaction(r.Context())
	})
)
