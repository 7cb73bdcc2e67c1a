package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/configuration"
	"github.com/planora/planora/pkg/httpapi"
	"github.com/planora/planora/pkg/serrors"
)

var ErrNoTenant = serrors.NewForbidden("TENANT_UNRESOLVED", "no tenant could be resolved for this request")

// ResolveTenant picks the tenant a request operates in. An explicit
// header selection wins when the identity actually claims that tenant; a
// selection the identity does not claim is ignored rather than rejected,
// falling back to the identity's first claimed tenant. Membership in the
// resolved tenant is still enforced by the access verifier afterwards.
func ResolveTenant(headerValue string, identity *composables.Identity) (uuid.UUID, error) {
	if headerValue = strings.TrimSpace(headerValue); headerValue != "" {
		selected, err := uuid.Parse(headerValue)
		if err != nil {
			return uuid.Nil, serrors.NewValidation("TENANT_INVALID", "tenant header is not a valid id")
		}
		if identity.ClaimsTenant(selected) {
			return selected, nil
		}
	}
	if len(identity.TenantIDs) == 0 {
		return uuid.Nil, ErrNoTenant
	}
	return identity.TenantIDs[0], nil
}

// RequireTenant resolves the request tenant from the selection header and
// the identity's tenant claims. Must run after Authenticate.
func RequireTenant() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := composables.UseIdentity(r.Context())
			if err != nil {
				_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			headerValue := r.Header.Get(conf.TenantHeader)
			tenantID, err := ResolveTenant(headerValue, identity)
			if err != nil {
				if headerValue != "" {
					composables.UseLogger(r.Context()).
						WithField("tenantHeader", headerValue).
						Warn("tenant resolution failed")
				}
				httpapi.WriteServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}
