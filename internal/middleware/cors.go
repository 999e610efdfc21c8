package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

const DefaultAllowedOrigin = "http://localhost:3000"

// CORS allows the kiosk and staff frontends served from origin.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = DefaultAllowedOrigin
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID", "X-Device-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
