package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/prudhvinik1/deviceprov/internal/models"
	"github.com/prudhvinik1/deviceprov/internal/tokens"
)

type ctxKey int

const ownerKey ctxKey = iota

// OwnerVerifier checks an owner bearer token.
type OwnerVerifier interface {
	Verify(token, use string) (*tokens.Claims, error)
}

// OwnerAuth resolves the request owner from "Authorization: Bearer <jwt>".
// Requests without the header pass through with no owner; a malformed or
// invalid token is rejected with 401.
func OwnerAuth(verifier OwnerVerifier, defaultTenant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				writeUnauthorized(w, "missing bearer")
				return
			}
			raw := strings.TrimSpace(authz[len("Bearer "):])

			claims, err := verifier.Verify(raw, tokens.UseOwner)
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			owner := &models.Owner{Username: claims.Subject, Tenant: claims.Tenant}
			if owner.Tenant == "" {
				owner.Tenant = defaultTenant
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

func WithOwner(ctx context.Context, owner *models.Owner) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// OwnerFrom returns the authenticated owner, or nil.
func OwnerFrom(ctx context.Context) *models.Owner {
	owner, _ := ctx.Value(ownerKey).(*models.Owner)
	return owner
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="deviceprov"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
}
