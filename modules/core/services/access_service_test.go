package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/serrors"
)

type mockUserRepo struct {
	users       map[uuid.UUID]user.User
	updated     []user.User
	memberships []user.Membership
	deactivated int64
	createErr   error
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: map[uuid.UUID]user.User{}}
	for _, u := range users {
		m.users[u.ID()] = u
	}
	return m
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, int64, error) {
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if m.createErr != nil {
		return user.User{}, m.createErr
	}
	created := user.Hydrate(
		uuid.New(), u.Email(), u.ExternalID(), u.FirstName(), u.LastName(),
		true, false, nil, nil, nil, time.Now(), time.Now(),
	)
	m.users[created.ID()] = created
	return created, nil
}

func (m *mockUserRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	m.updated = append(m.updated, u)
	m.users[u.ID()] = u
	return u, nil
}

func (m *mockUserRepo) AddMembership(ctx context.Context, mem user.Membership) (user.Membership, error) {
	m.memberships = append(m.memberships, mem)
	return mem, nil
}

func (m *mockUserRepo) SetMembershipActive(ctx context.Context, membershipID uuid.UUID, active bool) error {
	return nil
}

func (m *mockUserRepo) DeactivateMemberships(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.deactivated++
	u, ok := m.users[userID]
	if !ok {
		return 0, nil
	}
	var n int64
	for _, mem := range u.Memberships() {
		if mem.IsActive() {
			n++
		}
	}
	return n, nil
}

type stubPublisher struct {
	published []interface{}
}

func (s *stubPublisher) Publish(args ...interface{}) {
	s.published = append(s.published, args...)
}
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          {}
func (s *stubPublisher) SubscribersCount() int           { return 0 }

// stubTx joins composables.InTx without a real database connection.
type stubTx struct{}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func testContext() context.Context {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := composables.WithLogger(context.Background(), logrus.NewEntry(logger))
	return composables.WithTx(ctx, stubTx{})
}

func buildUser(
	t *testing.T,
	active, sysAdmin bool,
	memberships ...user.Membership,
) user.User {
	t.Helper()
	return user.Hydrate(
		uuid.New(), "person@example.com", "ext-1", "Alex", "Doe",
		active, sysAdmin, nil, nil, memberships, time.Now(), time.Now(),
	)
}

func TestAccessService_UserNotFound(t *testing.T) {
	svc := NewAccessService(newMockUserRepo())

	d, err := svc.Verify(testContext(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.False(t, d.Authorized)
	require.Equal(t, "User not found", d.Reason)
	require.Equal(t, serrors.ClassNotFound, d.Class)
}

func TestAccessService_NoMembershipInTenant(t *testing.T) {
	otherTenant := uuid.New()
	u := buildUser(t, true, false,
		user.HydrateMembership(uuid.New(), uuid.New(), otherTenant, []user.Role{user.RoleViewer}, true),
	)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), uuid.New())
	require.NoError(t, err)
	require.False(t, d.Authorized)
	require.Equal(t, "User does not have access to this tenant", d.Reason)
	require.Equal(t, serrors.ClassForbidden, d.Class)
}

func TestAccessService_InactiveMembershipDenied(t *testing.T) {
	tenantID := uuid.New()
	u := buildUser(t, true, false,
		user.HydrateMembership(uuid.New(), uuid.New(), tenantID, []user.Role{user.RoleTenantAdmin}, false),
	)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), tenantID)
	require.NoError(t, err)
	require.False(t, d.Authorized)
	require.Equal(t, "User does not have access to this tenant", d.Reason)
}

func TestAccessService_DeactivatedUserDenied(t *testing.T) {
	tenantID := uuid.New()
	u := buildUser(t, false, false,
		user.HydrateMembership(uuid.New(), uuid.New(), tenantID, []user.Role{user.RoleTenantAdmin}, true),
	)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), tenantID)
	require.NoError(t, err)
	require.False(t, d.Authorized)
}

func TestAccessService_ActiveMemberNoRolesRequired(t *testing.T) {
	tenantID := uuid.New()
	u := buildUser(t, true, false,
		user.HydrateMembership(uuid.New(), uuid.New(), tenantID, []user.Role{user.RoleViewer}, true),
	)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), tenantID)
	require.NoError(t, err)
	require.True(t, d.Authorized)
	require.NotNil(t, d.Membership)
	require.Equal(t, tenantID, d.Membership.TenantID())
}

func TestAccessService_RoleIntersection(t *testing.T) {
	tenantID := uuid.New()
	u := buildUser(t, true, false,
		user.HydrateMembership(uuid.New(), uuid.New(), tenantID,
			[]user.Role{user.RoleViewer, user.RoleProjectManager}, true),
	)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), tenantID,
		user.RoleProjectManager, user.RoleTenantAdmin)
	require.NoError(t, err)
	require.True(t, d.Authorized)
}

func TestAccessService_MissingRoleListsRequirements(t *testing.T) {
	tenantID := uuid.New()
	u := buildUser(t, true, false,
		user.HydrateMembership(uuid.New(), uuid.New(), tenantID, []user.Role{user.RoleViewer}, true),
	)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), tenantID,
		user.RoleProjectManager, user.RoleTenantAdmin)
	require.NoError(t, err)
	require.False(t, d.Authorized)
	require.Contains(t, d.Reason, "ProjectManager or TenantAdmin")
	require.Equal(t, serrors.ClassForbidden, d.Class)
}

func TestAccessService_SystemAdminBypassesMembership(t *testing.T) {
	u := buildUser(t, true, true)
	svc := NewAccessService(newMockUserRepo(u))

	d, err := svc.Verify(testContext(), u.ID(), uuid.New(), user.RoleTenantAdmin)
	require.NoError(t, err)
	require.True(t, d.Authorized)
	require.Nil(t, d.Membership)
}

func TestDecision_Err(t *testing.T) {
	require.NoError(t, Decision{Authorized: true}.Err())

	err := Decision{
		Reason: "User not found",
		Class:  serrors.ClassNotFound,
	}.Err()
	require.Error(t, err)
	var be *serrors.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, serrors.ClassNotFound, be.Class)
	require.Equal(t, "User not found", be.Message)
}
