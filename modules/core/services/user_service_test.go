package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/pkg/serrors"
)

func TestUserService_CreateValidatesInput(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, &stubPublisher{})

	_, err := svc.Create(testContext(), &user.CreateDTO{Email: "not-an-email"})
	require.Error(t, err)
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "Email")
	require.Contains(t, verrs, "FirstName")
}

func TestUserService_CreatePublishesEvent(t *testing.T) {
	repo := newMockUserRepo()
	pub := &stubPublisher{}
	svc := NewUserService(repo, pub)

	created, err := svc.Create(testContext(), &user.CreateDTO{
		Email:      "Person@Example.com",
		ExternalID: "idp-42",
		FirstName:  "Alex",
		LastName:   "Doe",
	})
	require.NoError(t, err)
	require.Equal(t, "person@example.com", created.Email())
	require.Len(t, pub.published, 1)
	evt, ok := pub.published[0].(UserCreatedEvent)
	require.True(t, ok)
	require.Equal(t, created.ID(), evt.Result.ID())
}

func TestUserService_DeactivateCascadesMemberships(t *testing.T) {
	tenantID := uuid.New()
	u := buildUser(t, true, false,
		user.HydrateMembership(uuid.New(), uuid.New(), tenantID, []user.Role{user.RoleViewer}, true),
		user.HydrateMembership(uuid.New(), uuid.New(), uuid.New(), []user.Role{user.RoleTeamLead}, true),
	)
	repo := newMockUserRepo(u)
	pub := &stubPublisher{}
	svc := NewUserService(repo, pub)

	actor := uuid.New()
	deactivated, err := svc.Deactivate(testContext(), u.ID(), actor)
	require.NoError(t, err)
	require.False(t, deactivated.IsActive())
	require.NotNil(t, deactivated.DeactivatedAt())
	require.Equal(t, actor, *deactivated.DeactivatedBy())
	require.EqualValues(t, 1, repo.deactivated)

	require.Len(t, pub.published, 1)
	evt, ok := pub.published[0].(UserDeactivatedEvent)
	require.True(t, ok)
	require.Equal(t, u.ID(), evt.UserID)
	require.Equal(t, actor, evt.ByUserID)
	require.EqualValues(t, 2, evt.MembershipsDisabled)
}

func TestUserService_DeactivateSystemAdminRejected(t *testing.T) {
	u := buildUser(t, true, true)
	repo := newMockUserRepo(u)
	svc := NewUserService(repo, &stubPublisher{})

	_, err := svc.Deactivate(testContext(), u.ID(), uuid.New())
	require.ErrorIs(t, err, ErrSystemAdminDeactivation)
	require.Empty(t, repo.updated)
	require.Zero(t, repo.deactivated)
}

func TestUserService_DeactivateIsIdempotent(t *testing.T) {
	u := buildUser(t, false, false)
	repo := newMockUserRepo(u)
	pub := &stubPublisher{}
	svc := NewUserService(repo, pub)

	deactivated, err := svc.Deactivate(testContext(), u.ID(), uuid.New())
	require.NoError(t, err)
	require.False(t, deactivated.IsActive())
	require.Empty(t, repo.updated)
}

func TestUserService_ReactivateLeavesMembershipsDisabled(t *testing.T) {
	membershipID := uuid.New()
	inactive := user.HydrateMembership(membershipID, uuid.New(), uuid.New(), []user.Role{user.RoleViewer}, false)
	u := buildUser(t, false, false, inactive)
	repo := newMockUserRepo(u)
	svc := NewUserService(repo, &stubPublisher{})

	restored, err := svc.Reactivate(testContext(), u.ID())
	require.NoError(t, err)
	require.True(t, restored.IsActive())
	require.Nil(t, restored.DeactivatedAt())
	require.Len(t, restored.Memberships(), 1)
	require.False(t, restored.Memberships()[0].IsActive())
}

func TestUserService_AddMembershipUnknownUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, &stubPublisher{})

	_, err := svc.AddMembership(testContext(), uuid.New(), uuid.New(), []user.Role{user.RoleViewer})
	require.ErrorIs(t, err, user.ErrNotFound)
	require.Empty(t, repo.memberships)
}
