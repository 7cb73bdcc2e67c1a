package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/serrors"
)

// Decision is the outcome of an access check. Reason is safe to return to
// the client; Membership is attached so callers do not need a second
// lookup.
type Decision struct {
	Authorized bool
	Reason     string
	Class      serrors.Class
	Membership *user.Membership
}

// Err converts a denial into the service error taxonomy. Returns nil for
// an authorized decision.
func (d Decision) Err() error {
	if d.Authorized {
		return nil
	}
	code := "ACCESS_FORBIDDEN"
	if d.Class == serrors.ClassNotFound {
		code = "USER_NOT_FOUND"
	}
	return serrors.NewError(code, d.Reason, d.Class)
}

// AccessService is the single decision function for tenant-scoped
// authorization: given a user, a tenant and a set of acceptable roles it
// decides whether the request may proceed. Every decision is recomputed
// from persisted state; nothing is cached across requests.
type AccessService struct {
	users user.Repository
}

func NewAccessService(users user.Repository) *AccessService {
	return &AccessService{users: users}
}

// Verify checks the (user, tenant, roles) tuple. An empty required set
// means any active member of the tenant is authorized. System admins
// bypass tenant and role checks entirely.
func (s *AccessService) Verify(
	ctx context.Context,
	userID, tenantID uuid.UUID,
	required ...user.Role,
) (Decision, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		var serr *serrors.BaseError
		if errors.As(err, &serr) && serr.Class == serrors.ClassNotFound {
			return Decision{
				Authorized: false,
				Reason:     "User not found",
				Class:      serrors.ClassNotFound,
			}, nil
		}
		return Decision{}, err
	}

	membership, hasMembership := u.ActiveMembershipIn(tenantID)

	if u.IsSystemAdmin() {
		d := Decision{Authorized: true}
		if hasMembership {
			d.Membership = &membership
		}
		return d, nil
	}

	if !hasMembership {
		composables.UseLogger(ctx).WithFields(map[string]any{
			"userId":   userID,
			"tenantId": tenantID,
		}).Warn("user does not have access to tenant")
		return Decision{
			Authorized: false,
			Reason:     "User does not have access to this tenant",
			Class:      serrors.ClassForbidden,
		}, nil
	}

	if len(required) > 0 && !membership.HasAnyRole(required...) {
		reason := fmt.Sprintf(
			"User requires one of the following roles: %s",
			strings.Join(user.RoleNames(required), " or "),
		)
		composables.UseLogger(ctx).WithFields(map[string]any{
			"userId":   userID,
			"tenantId": tenantID,
			"required": user.RoleNames(required),
		}).Warn("user lacks required roles")
		return Decision{
			Authorized: false,
			Reason:     reason,
			Class:      serrors.ClassForbidden,
			Membership: &membership,
		}, nil
	}

	return Decision{Authorized: true, Membership: &membership}, nil
}
