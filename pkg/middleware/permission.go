package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/httpapi"
)

// RequirePermission guards a route with a single (resource, action) pair.
// The policy file decides which roles carry the permission; the access
// verifier decides whether the caller holds one of them in the resolved
// tenant. Must run after Authenticate and RequireTenant.
func RequirePermission(access *services.AccessService, resource, action string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := composables.UseIdentity(r.Context())
			if err != nil {
				_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			tenantID, err := composables.UseTenantID(r.Context())
			if err != nil {
				httpapi.WriteServiceError(w, r, ErrNoTenant)
				return
			}

			required := requiredRoles(resource, action)
			decision, err := access.Verify(r.Context(), identity.UserID, tenantID, required...)
			if err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}
			if !decision.Authorized {
				httpapi.WriteServiceError(w, r, decision.Err())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiredRoles(resource, action string) []user.Role {
	svc := authz.Use()
	if svc == nil {
		return nil
	}
	names := svc.RolesFor(resource, action)
	roles := make([]user.Role, 0, len(names))
	for _, name := range names {
		if role, ok := user.ParseRole(name); ok {
			roles = append(roles, role)
		}
	}
	return roles
}
