package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	coreservices "github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/modules/logging/domain/entities/loginaudit"
	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	schedulingservices "github.com/planora/planora/modules/scheduling/services"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
)

type mockAuditRepo struct {
	entries []*loginaudit.LoginAudit
	created []*loginaudit.LoginAudit
}

func (m *mockAuditRepo) List(ctx context.Context, params *loginaudit.FindParams) ([]*loginaudit.LoginAudit, error) {
	return m.entries, nil
}

func (m *mockAuditRepo) Count(ctx context.Context, params *loginaudit.FindParams) (int64, error) {
	return int64(len(m.entries)), nil
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *loginaudit.LoginAudit) error {
	m.created = append(m.created, entry)
	return nil
}

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

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testContext() context.Context {
	ctx := composables.WithLogger(context.Background(), logrus.NewEntry(quietLogger()))
	return composables.WithTx(ctx, stubTx{})
}

func TestLogsService_ListLoginAudits(t *testing.T) {
	repo := &mockAuditRepo{entries: []*loginaudit.LoginAudit{
		{ID: uuid.New(), Email: "person@example.com", Success: true},
	}}
	svc := NewLogsService(repo, quietLogger())

	entries, total, err := svc.ListLoginAudits(testContext(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
}

func TestLogsService_RecordLoginRequiresPayload(t *testing.T) {
	svc := NewLogsService(&mockAuditRepo{}, quietLogger())

	err := svc.RecordLogin(testContext(), nil)
	require.Error(t, err)
}

func TestLogsService_AuditTrailReceivesLifecycleEvents(t *testing.T) {
	buf := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&buf)

	svc := NewLogsService(&mockAuditRepo{}, log)
	bus := eventbus.NewEventPublisher(quietLogger())
	svc.RegisterEventHandlers(bus)
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Publish(coreservices.UserDeactivatedEvent{
		UserID:              uuid.New(),
		ByUserID:            uuid.New(),
		MembershipsDisabled: 2,
	})
	require.Contains(t, buf.String(), "account deactivation recorded")

	approver := uuid.New()
	rng, err := assignment.NewDateRange(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	approved := assignment.Hydrate(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		rng, assignment.StatusActive, &approver, "",
		time.Now(), time.Now(),
	)
	bus.Publish(schedulingservices.AssignmentApprovedEvent{
		Result:     approved,
		ApprovedBy: approver,
	})
	require.Contains(t, buf.String(), "assignment approval recorded")
}

func TestLogsService_SetLevelRejectsUnknown(t *testing.T) {
	svc := NewLogsService(&mockAuditRepo{}, quietLogger())

	_, err := svc.SetLevel(testContext(), "verbose", uuid.New())
	require.ErrorIs(t, err, ErrUnknownLogLevel)
}
