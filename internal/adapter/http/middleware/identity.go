package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/finledger/internal/infrastructure/auth"
)

type contextKey string

const (
	accountIDKey contextKey = "account_id"

	// AccountIDHeader carries the caller's account when authentication is
	// done by an upstream gateway.
	AccountIDHeader = "X-Account-ID"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// WithAccountID returns a copy of ctx carrying the authenticated account.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext returns the authenticated account, if any.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}

// Identity resolves the acting account of a request. With a verifier it
// requires a bearer token carrying an account_id claim; without one it
// trusts the X-Account-ID header.
func Identity(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var accountID string

			if verifier != nil {
				token, ok := bearerToken(r)
				if !ok {
					unauthorized(w, "missing or malformed authorization header")
					return
				}

				claims, err := verifier.Verify(token)
				if err != nil {
					unauthorized(w, "invalid or expired token")
					return
				}
				accountID = claims.AccountID
			} else {
				accountID = strings.TrimSpace(r.Header.Get(AccountIDHeader))
				if accountID == "" {
					unauthorized(w, "missing "+AccountIDHeader+" header")
					return
				}
			}

			ctx := WithAccountID(r.Context(), accountID)
			logger := zerolog.Ctx(ctx).With().Str("account_id", accountID).Logger()
			ctx = logger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
