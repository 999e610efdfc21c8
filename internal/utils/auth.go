package utils

import (
	"context"

	"quickcheckout/internal/session"
)

const operatorKey ctxKey = "operator"

// SetOperatorContext stores the authenticated operator (called by middleware)
func SetOperatorContext(ctx context.Context, op session.Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

// GetOperatorFromContext retrieves the operator safely
func GetOperatorFromContext(ctx context.Context) (session.Operator, bool) {
	op, ok := ctx.Value(operatorKey).(session.Operator)
	if !ok || !op.IsLoggedIn {
		return session.Operator{}, false
	}
	return op, true
}
