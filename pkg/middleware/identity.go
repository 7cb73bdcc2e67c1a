package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/configuration"
	"github.com/planora/planora/pkg/httpapi"
)

// Authenticate extracts the caller identity from the bearer token issued
// by the gateway. Tokens carry the subject user id, the email and the
// tenant ids the identity provider vouches for. Tenant claims are only a
// hint; the access verifier re-checks memberships against the store.
func Authenticate() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			identity, err := parseIdentity(raw, conf.Identity)
			if err != nil {
				composables.UseLogger(r.Context()).WithError(err).Warn("token rejected")
				_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type identityClaims struct {
	Email   string   `json:"email"`
	Tenants []string `json:"tenants"`
	jwt.RegisteredClaims
}

func parseIdentity(raw string, opts configuration.IdentityOptions) (*composables.Identity, error) {
	claims := &identityClaims{}

	var parseOpts []jwt.ParserOption
	if opts.Issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parseOpts = append(parseOpts, jwt.WithAudience(opts.Audience))
	}

	if opts.SharedSecret != "" {
		parseOpts = append(parseOpts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(opts.SharedSecret), nil
		}, parseOpts...)
		if err != nil {
			return nil, err
		}
	} else {
		// No shared secret configured: the gateway already verified the
		// signature, so only the claims are read here.
		parser := jwt.NewParser(parseOpts...)
		if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
			return nil, err
		}
		if err := jwt.NewValidator(parseOpts...).Validate(claims); err != nil {
			return nil, err
		}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("subject is not a valid user id: %w", err)
	}

	tenantIDs := make([]uuid.UUID, 0, len(claims.Tenants))
	for _, t := range claims.Tenants {
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, fmt.Errorf("tenant claim %q is not a valid id: %w", t, err)
		}
		tenantIDs = append(tenantIDs, id)
	}

	return &composables.Identity{
		UserID:    userID,
		Email:     claims.Email,
		TenantIDs: tenantIDs,
	}, nil
}
