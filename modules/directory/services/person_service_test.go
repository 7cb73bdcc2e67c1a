package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/directory/domain/entities/person"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/serrors"
)

type mockPersonRepo struct {
	byID map[uuid.UUID]person.Person
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{byID: make(map[uuid.UUID]person.Person)}
}

func (m *mockPersonRepo) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	p, ok := m.byID[id]
	if !ok {
		return person.Person{}, person.ErrNotFound
	}
	return p, nil
}

func (m *mockPersonRepo) GetPaginated(
	ctx context.Context,
	params *person.FindParams,
) ([]person.Person, int64, error) {
	out := make([]person.Person, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *mockPersonRepo) Create(ctx context.Context, p person.Person) (person.Person, error) {
	for _, existing := range m.byID {
		if existing.TenantID == p.TenantID && existing.Pernr == p.Pernr {
			return person.Person{}, person.ErrPernrTaken
		}
	}
	p.ID = uuid.New()
	m.byID[p.ID] = p
	return p, nil
}

func (m *mockPersonRepo) Update(ctx context.Context, p person.Person) (person.Person, error) {
	if _, ok := m.byID[p.ID]; !ok {
		return person.Person{}, person.ErrNotFound
	}
	for id, existing := range m.byID {
		if id != p.ID && existing.TenantID == p.TenantID && existing.Pernr == p.Pernr {
			return person.Person{}, person.ErrPernrTaken
		}
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *mockPersonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return person.ErrNotFound
	}
	delete(m.byID, id)
	return nil
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

func TestPersonService_CreateRejectsDuplicatePernr(t *testing.T) {
	tenantID := uuid.New()
	svc := NewPersonService(newMockPersonRepo(), &stubPublisher{})
	ctx := testContext(tenantID)

	_, err := svc.Create(ctx, &person.CreateDTO{Pernr: "10042", DisplayName: "Ada Lovelace"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &person.CreateDTO{Pernr: "10042", DisplayName: "Grace Hopper"})
	require.ErrorIs(t, err, person.ErrPernrTaken)
}

func TestPersonService_SamePernrInDifferentTenants(t *testing.T) {
	repo := newMockPersonRepo()
	svc := NewPersonService(repo, &stubPublisher{})

	_, err := svc.Create(testContext(uuid.New()), &person.CreateDTO{Pernr: "10042", DisplayName: "Ada Lovelace"})
	require.NoError(t, err)

	_, err = svc.Create(testContext(uuid.New()), &person.CreateDTO{Pernr: "10042", DisplayName: "Grace Hopper"})
	require.NoError(t, err)
}

func TestPersonService_CreateValidatesInput(t *testing.T) {
	svc := NewPersonService(newMockPersonRepo(), &stubPublisher{})

	_, err := svc.Create(testContext(uuid.New()), &person.CreateDTO{Status: "Retired"})
	require.Error(t, err)

	var errs serrors.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Contains(t, errs, "pernr")
	require.Contains(t, errs, "displayName")
	require.Contains(t, errs, "status")
}

func TestPersonService_CreateNormalizesEmail(t *testing.T) {
	svc := NewPersonService(newMockPersonRepo(), &stubPublisher{})

	created, err := svc.Create(testContext(uuid.New()), &person.CreateDTO{
		Pernr:       "10001",
		DisplayName: "Ada Lovelace",
		Email:       " Ada@Example.COM ",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", created.Email)
	require.Equal(t, person.StatusActive, created.Status)
}

func TestPersonService_UpdateUnknownPerson(t *testing.T) {
	svc := NewPersonService(newMockPersonRepo(), &stubPublisher{})

	_, err := svc.Update(testContext(uuid.New()), uuid.New(), &person.UpdateDTO{
		Pernr:       "10001",
		DisplayName: "Ada Lovelace",
	})
	require.ErrorIs(t, err, person.ErrNotFound)
}
