package auth

import (
	"context"
	"net/http"

	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/models"
)

type contextKey int

const claimsKey contextKey = iota

// ClaimsFrom returns the authenticated identity for the request, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// WithClaims returns a context carrying the given identity. Exported for
// handler tests.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Middleware wires the per-request authentication state machine and the
// authorization gates.
type Middleware struct {
	tokens *TokenManager
	flash  *flash.Store
}

func NewMiddleware(tokens *TokenManager, fl *flash.Store) *Middleware {
	return &Middleware{tokens: tokens, flash: fl}
}

// Authenticate resolves the session cookie once per request. No cookie
// means anonymous; an invalid or expired token clears the cookie and also
// degrades to anonymous rather than aborting the request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokens.Validate(cookie.Value)
		if err != nil {
			ClearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireLogin short-circuits anonymous requests to the login page.
func (m *Middleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFrom(r.Context()); !ok {
			m.flash.Add(w, r, "notice", "Please log in.")
			http.Redirect(w, r, "/account/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAccountType passes requests whose authenticated identity holds one
// of the given account types. Authentication is checked before the type is
// read, so an anonymous request never reaches the type comparison.
func (m *Middleware) RequireAccountType(types ...models.AccountType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				m.flash.Add(w, r, "notice", "Please log in.")
				http.Redirect(w, r, "/account/login", http.StatusSeeOther)
				return
			}
			for _, t := range types {
				if claims.AccountType == t {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.flash.Add(w, r, "notice", "You do not have permission to access that page.")
			http.Redirect(w, r, "/account/login", http.StatusSeeOther)
		})
	}
}
