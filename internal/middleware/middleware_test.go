package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickcheckout/internal/auth"
	"quickcheckout/internal/session"
	"quickcheckout/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCors(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORS("")(nextHandler)

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/checkout/sessions", nil)
		req.Header.Set("Origin", DefaultAllowedOrigin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, DefaultAllowedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
		req.Header.Set("Origin", "https://kiosk.example")
		w := httptest.NewRecorder()

		CORS("https://kiosk.example")(nextHandler).ServeHTTP(w, req)

		assert.Equal(t, "https://kiosk.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Session-Id")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	operator := session.Operator{IsLoggedIn: true, EmployeeID: "EMP100", Name: "Sam", Role: session.RoleSupervisor}

	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetOperatorFromContext(r.Context())
			assert.False(t, ok, "Context should not contain an operator")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		AuthMiddleware(tokens)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
	})

	t.Run("Valid Token", func(t *testing.T) {
		tokenString, err := tokens.Issue(operator)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, ok := utils.GetOperatorFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, operator, op)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(tokens)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Cookie Token", func(t *testing.T) {
		tokenString, err := tokens.Issue(operator)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/staff/returns", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: tokenString})
		w := httptest.NewRecorder()

		AuthMiddleware(tokens)(RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
			EmployeeID: "EMP100",
			Role:       "supervisor",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		tokenString, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetOperatorFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(tokens)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireOperator(t *testing.T) {
	handler := RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/staff/returns", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Logged in", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/staff/returns", nil)
		req = req.WithContext(utils.SetOperatorContext(req.Context(), session.Operator{IsLoggedIn: true, EmployeeID: "EMP001"}))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireOperatorOrInternal(t *testing.T) {
	handler := RequireOperatorOrInternal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/staff/register/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Internal service", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		req.Header.Set("X-Service-Auth", "s3cret")
		w := httptest.NewRecorder()

		NewRateLimiter("s3cret").Middleware(handler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Strict tier on login", func(t *testing.T) {
		handler := NewRateLimiter("").Middleware(ok)

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/staff/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, http.StatusOK, codes[0])
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("Separate buckets per device", func(t *testing.T) {
		handler := NewRateLimiter("").Middleware(ok)

		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest("POST", "/staff/login", nil)
			req.Header.Set("X-Device-ID", "kiosk-1")
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest("POST", "/staff/login", nil)
		req.Header.Set("X-Device-ID", "kiosk-2")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Internal callers are tagged", func(t *testing.T) {
		var internal bool
		handler := NewRateLimiter("s3cret").Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			internal = utils.IsInternalRequest(r.Context())
		}))

		req := httptest.NewRequest("GET", "/staff/register/stats", nil)
		req.Header.Set("X-Service-Auth", "s3cret")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, internal)
	})

	t.Run("Tiers", func(t *testing.T) {
		l := NewRateLimiter("")
		_, _, tier := l.resolveRateTier(httptest.NewRequest("GET", "/checkout/sessions/abc", nil))
		assert.Equal(t, "kiosk", tier)
		_, _, tier = l.resolveRateTier(httptest.NewRequest("POST", "/checkout/sessions/abc/scan", nil))
		assert.Equal(t, "general", tier)
	})

	t.Run("Cleanup drops idle visitors", func(t *testing.T) {
		l := NewRateLimiter("")
		l.getVisitor("ip:1:general", limitGeneral, burstGeneral)

		l.cleanup(time.Now())
		assert.Len(t, l.visitors, 1)

		l.cleanup(time.Now().Add(visitorTTL + time.Second))
		assert.Empty(t, l.visitors)
	})
}
