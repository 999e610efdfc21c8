package middleware

import (
	"net/http"

	"quickcheckout/internal/auth"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware attaches the operator carried by the access token. Requests
// without a token pass through anonymously; a bad or expired token is 401.
func AuthMiddleware(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			op, err := tokens.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected access token",
					zap.String("layer", "middleware"),
					zap.Error(err),
				)
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetOperatorContext(r.Context(), op)))
		})
	}
}

// RequireOperator rejects requests without a logged-in operator.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetOperatorFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "staff login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOperatorOrInternal also admits callers the rate limiter tagged as
// internal services.
func RequireOperatorOrInternal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.IsInternalRequest(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		RequireOperator(next).ServeHTTP(w, r)
	})
}
