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

	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/serrors"
)

type mockAssignmentRepo struct {
	byID map[uuid.UUID]assignment.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{byID: make(map[uuid.UUID]assignment.Assignment)}
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	a, ok := m.byID[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (m *mockAssignmentRepo) GetPaginated(
	ctx context.Context,
	params *assignment.FindParams,
) ([]assignment.Assignment, int64, error) {
	out := make([]assignment.Assignment, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	now := time.Now()
	stored := assignment.Hydrate(
		uuid.New(), a.TenantID(), a.PersonID(), a.WbsElementID(),
		a.DateRange(), a.Status(), a.ApprovedBy(), a.Note(), now, now,
	)
	m.byID[stored.ID()] = stored
	return stored, nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if _, ok := m.byID[a.ID()]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	m.byID[a.ID()] = a
	return a, nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockAssignmentRepo) HasOverlap(
	ctx context.Context,
	personID uuid.UUID,
	r assignment.DateRange,
	excludeID uuid.UUID,
) (bool, error) {
	for id, a := range m.byID {
		if id == excludeID || a.PersonID() != personID || !a.IsActive() {
			continue
		}
		if a.DateRange().Overlaps(r) {
			return true, nil
		}
	}
	return false, nil
}

type stubPublisher struct {
	published []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.published = append(p.published, args...)
}
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

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

func testContext(tenantID uuid.UUID) context.Context {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := composables.WithLogger(context.Background(), logrus.NewEntry(logger))
	ctx = composables.WithTx(ctx, stubTx{})
	return composables.WithTenantID(ctx, tenantID)
}

func activeDTO(personID uuid.UUID, start, end string) *assignment.CreateDTO {
	return &assignment.CreateDTO{
		PersonID:     personID,
		WbsElementID: uuid.New(),
		StartDate:    start,
		EndDate:      end,
		Status:       string(assignment.StatusActive),
	}
}

func TestAssignmentService_CreateRejectsOverlap(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	_, err := svc.Create(ctx, activeDTO(personID, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, activeDTO(personID, "2024-01-15", "2024-02-15"))
	require.ErrorIs(t, err, assignment.ErrOverlap)
}

func TestAssignmentService_CreateAcceptsAdjacentRange(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	_, err := svc.Create(ctx, activeDTO(personID, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, activeDTO(personID, "2024-02-01", "2024-02-28"))
	require.NoError(t, err)
}

func TestAssignmentService_CreateAllowsOverlapForDifferentPeople(t *testing.T) {
	tenantID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	_, err := svc.Create(ctx, activeDTO(uuid.New(), "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, activeDTO(uuid.New(), "2024-01-15", "2024-02-15"))
	require.NoError(t, err)
}

func TestAssignmentService_PendingSkipsOverlapCheck(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	_, err := svc.Create(ctx, activeDTO(personID, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	dto := activeDTO(personID, "2024-01-15", "2024-02-15")
	dto.Status = string(assignment.StatusPending)
	_, err = svc.Create(ctx, dto)
	require.NoError(t, err)
}

func TestAssignmentService_UpdateRevalidatesOverlap(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	_, err := svc.Create(ctx, activeDTO(personID, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	second, err := svc.Create(ctx, activeDTO(personID, "2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID(), &assignment.UpdateDTO{
		PersonID:     personID,
		WbsElementID: second.WbsElementID(),
		StartDate:    "2024-01-20",
		EndDate:      "2024-02-20",
		Status:       string(assignment.StatusActive),
	})
	require.ErrorIs(t, err, assignment.ErrOverlap)
}

func TestAssignmentService_UpdateIgnoresOwnRange(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	created, err := svc.Create(ctx, activeDTO(personID, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID(), &assignment.UpdateDTO{
		PersonID:     personID,
		WbsElementID: created.WbsElementID(),
		StartDate:    "2024-01-05",
		EndDate:      "2024-01-25",
		Status:       string(assignment.StatusActive),
		Note:         "trimmed",
	})
	require.NoError(t, err)
	require.Equal(t, "trimmed", updated.Note())
}

func TestAssignmentService_ApproveRechecksOverlap(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	repo := newMockAssignmentRepo()
	svc := NewAssignmentService(repo, &stubPublisher{})
	ctx := testContext(tenantID)

	pending := activeDTO(personID, "2024-01-10", "2024-01-20")
	pending.Status = string(assignment.StatusPending)
	created, err := svc.Create(ctx, pending)
	require.NoError(t, err)

	// A competing booking went Active after the pending one was filed.
	_, err = svc.Create(ctx, activeDTO(personID, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID(), uuid.New())
	require.ErrorIs(t, err, assignment.ErrOverlap)
}

func TestAssignmentService_ApproveSetsApprover(t *testing.T) {
	tenantID := uuid.New()
	repo := newMockAssignmentRepo()
	publisher := &stubPublisher{}
	svc := NewAssignmentService(repo, publisher)
	ctx := testContext(tenantID)

	pending := activeDTO(uuid.New(), "2024-01-10", "2024-01-20")
	pending.Status = string(assignment.StatusPending)
	created, err := svc.Create(ctx, pending)
	require.NoError(t, err)

	approver := uuid.New()
	approved, err := svc.Approve(ctx, created.ID(), approver)
	require.NoError(t, err)
	require.Equal(t, assignment.StatusActive, approved.Status())
	require.NotNil(t, approved.ApprovedBy())
	require.Equal(t, approver, *approved.ApprovedBy())

	var event AssignmentApprovedEvent
	found := false
	for _, published := range publisher.published {
		if e, ok := published.(AssignmentApprovedEvent); ok {
			event = e
			found = true
		}
	}
	require.True(t, found)
	require.Equal(t, approver, event.ApprovedBy)
}

func TestAssignmentService_CreateValidatesInput(t *testing.T) {
	svc := NewAssignmentService(newMockAssignmentRepo(), &stubPublisher{})

	_, err := svc.Create(testContext(uuid.New()), &assignment.CreateDTO{
		StartDate: "January 1st",
		EndDate:   "2024-01-31",
	})
	require.Error(t, err)

	var errs serrors.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Contains(t, errs, "personId")
	require.Contains(t, errs, "startDate")
}

func TestAssignmentService_DeleteUnknownAssignment(t *testing.T) {
	svc := NewAssignmentService(newMockAssignmentRepo(), &stubPublisher{})

	err := svc.Delete(testContext(uuid.New()), uuid.New())
	require.ErrorIs(t, err, assignment.ErrNotFound)
}
