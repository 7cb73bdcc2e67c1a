package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/salesops/domain/entities/account"
	"github.com/planora/planora/modules/salesops/domain/entities/stage"
	"github.com/planora/planora/pkg/composables"
)

type mockStageRepo struct {
	byID map[uuid.UUID]stage.Stage
}

func newMockStageRepo() *mockStageRepo {
	return &mockStageRepo{byID: make(map[uuid.UUID]stage.Stage)}
}

func (m *mockStageRepo) GetByID(ctx context.Context, id uuid.UUID) (stage.Stage, error) {
	s, ok := m.byID[id]
	if !ok {
		return stage.Stage{}, stage.ErrNotFound
	}
	return s, nil
}

func (m *mockStageRepo) GetAll(ctx context.Context) ([]stage.Stage, error) {
	out := make([]stage.Stage, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStageRepo) Create(ctx context.Context, s stage.Stage) (stage.Stage, error) {
	s.ID = uuid.New()
	m.byID[s.ID] = s
	return s, nil
}

func (m *mockStageRepo) Update(ctx context.Context, s stage.Stage) (stage.Stage, error) {
	if _, ok := m.byID[s.ID]; !ok {
		return stage.Stage{}, stage.ErrNotFound
	}
	m.byID[s.ID] = s
	return s, nil
}

func (m *mockStageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return stage.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockAccountRepo struct {
	byID map[uuid.UUID]account.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byID: make(map[uuid.UUID]account.Account)}
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepo) GetPaginated(
	ctx context.Context,
	params *account.FindParams,
) ([]account.Account, int64, error) {
	out := make([]account.Account, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *mockAccountRepo) Create(ctx context.Context, a account.Account) (account.Account, error) {
	a.ID = uuid.New()
	m.byID[a.ID] = a
	return a, nil
}

func (m *mockAccountRepo) Update(ctx context.Context, a account.Account) (account.Account, error) {
	if _, ok := m.byID[a.ID]; !ok {
		return account.Account{}, account.ErrNotFound
	}
	m.byID[a.ID] = a
	return a, nil
}

func (m *mockAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return account.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockAccountRepo) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	var count int64
	for _, a := range m.byID {
		if a.StageID == stageID {
			count++
		}
	}
	return count, nil
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

func testContext() context.Context {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := composables.WithLogger(context.Background(), logrus.NewEntry(logger))
	ctx = composables.WithTx(ctx, stubTx{})
	return composables.WithTenantID(ctx, uuid.New())
}

func newService() (*SalesService, *mockAccountRepo, *mockStageRepo, *stubPublisher) {
	accounts := newMockAccountRepo()
	stages := newMockStageRepo()
	publisher := &stubPublisher{}
	return NewSalesService(accounts, stages, publisher), accounts, stages, publisher
}

func TestSalesService_DeleteStageBlockedWhileReferenced(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := testContext()

	created, err := svc.CreateStage(ctx, &stage.DTO{Name: "Prospect", SortOrder: 1})
	require.NoError(t, err)

	acc, err := svc.CreateAccount(ctx, &account.DTO{Name: "Acme Corp", StageID: created.ID})
	require.NoError(t, err)

	err = svc.DeleteStage(ctx, created.ID)
	require.ErrorIs(t, err, stage.ErrInUse)

	require.NoError(t, svc.DeleteAccount(ctx, acc.ID))
	require.NoError(t, svc.DeleteStage(ctx, created.ID))
}

func TestSalesService_CreateAccountRequiresKnownStage(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.CreateAccount(testContext(), &account.DTO{Name: "Acme Corp", StageID: uuid.New()})
	require.ErrorIs(t, err, stage.ErrNotFound)
}

func TestSalesService_StageChangePublishesEvent(t *testing.T) {
	svc, _, _, publisher := newService()
	ctx := testContext()

	first, err := svc.CreateStage(ctx, &stage.DTO{Name: "Prospect", SortOrder: 1})
	require.NoError(t, err)
	second, err := svc.CreateStage(ctx, &stage.DTO{Name: "Won", SortOrder: 2, IsClosed: true})
	require.NoError(t, err)

	acc, err := svc.CreateAccount(ctx, &account.DTO{Name: "Acme Corp", StageID: first.ID})
	require.NoError(t, err)

	_, err = svc.UpdateAccount(ctx, acc.ID, &account.DTO{Name: "Acme Corp", StageID: second.ID})
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(AccountStageChangedEvent)
	require.True(t, ok)
	require.Equal(t, first.ID, event.FromStageID)
	require.Equal(t, second.ID, event.ToStageID)
}

func TestSalesService_CreateAccountValidatesInput(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.CreateAccount(testContext(), &account.DTO{AnnualRevenue: -5})
	require.Error(t, err)
}
