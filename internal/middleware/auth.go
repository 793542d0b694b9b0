package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/senolsoyleyici/poemsite/internal/auth"
	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"
	"github.com/senolsoyleyici/poemsite/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type usernameCtxKey struct{}

// AdminUsername returns the username of the authenticated administrator,
// or an empty string for requests that never passed the token check
func AdminUsername(ctx context.Context) string {
	username, _ := ctx.Value(usernameCtxKey{}).(string)
	return username
}

type AuthMiddlewareHandler struct {
	verifier auth.Verifier
	// routes that skip the token check, keyed by "<METHOD> <path>";
	// a method is needed because e.g. POST /comments is open to any
	// visitor while GET /comments is admin-only
	publicRoutes map[string]bool
	// path prefixes that skip the token check, per method
	publicPrefixes map[string][]string
}

func NewAuthMiddlewareHandler(verifier auth.Verifier) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		verifier: verifier,
		publicRoutes: map[string]bool{
			"GET /":        true,
			"GET /health":  true,
			"GET /version": true,

			// poems are public to read
			"GET /poems": true,

			// anyone can leave a comment (it lands unapproved)
			"POST /comments": true,

			// visit counter
			"GET /visits":            true,
			"POST /visits/increment": true,

			// login-setup
			"POST /admin/login": true,
			"POST /admin/setup": true,
		},
		publicPrefixes: map[string][]string{
			// single poem and its approved comments
			"GET": {"/poems/"},
		},
	}
}

func (h *AuthMiddlewareHandler) requestIsPublic(r *http.Request) bool {
	if h.publicRoutes[r.Method+" "+r.URL.Path] {
		return true
	}
	for _, prefix := range h.publicPrefixes[r.Method] {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.requestIsPublic(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			username, err := h.verifier.VerifyToken(bearerToken(r))
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "token required", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			case errors.Is(err, auth.ErrTokenExpired):
				log.Tracef("[expired token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "invalid token", http.StatusForbidden)
				span.SetStatus(codes.Error, "token-expired")
				return
			case err != nil:
				log.Tracef("[malformed token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "invalid token", http.StatusForbidden)
				span.SetStatus(codes.Error, "token-malformed")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(ctx, usernameCtxKey{}, username),
			))
		})
	}
}

// bearerToken extracts the token from an `Authorization: Bearer <token>` header
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
