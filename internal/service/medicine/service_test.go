package medicine

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/pkg/errors"
	"github.com/medremind/medremind-api/pkg/logger"
)

type fakeMedicineRepo struct {
	medicines map[int64]*model.Medicine
	nextID    int64

	getCalls  int
	listCalls int
}

func newFakeRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[int64]*model.Medicine)}
}

func (r *fakeMedicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	r.nextID++
	m.ID = r.nextID
	c := *m
	r.medicines[m.ID] = &c
	return nil
}

func (r *fakeMedicineRepo) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	r.getCalls++
	m, ok := r.medicines[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *m
	return &c, nil
}

func (r *fakeMedicineRepo) Update(ctx context.Context, m *model.Medicine) error {
	if _, ok := r.medicines[m.ID]; !ok {
		return sql.ErrNoRows
	}
	c := *m
	r.medicines[m.ID] = &c
	return nil
}

func (r *fakeMedicineRepo) Delete(ctx context.Context, id int64) error {
	delete(r.medicines, id)
	return nil
}

func (r *fakeMedicineRepo) List(ctx context.Context) ([]*model.Medicine, error) {
	r.listCalls++
	var out []*model.Medicine
	for _, m := range r.medicines {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newTestService() (*Service, *fakeMedicineRepo) {
	repo := newFakeRepo()
	return NewService(repo, logger.NewLogger(nil)), repo
}

func TestGetReadThroughCache(t *testing.T) {
	svc, repo := newTestService()
	created, err := svc.Create(context.Background(), &model.MedicineRequest{Name: "Paracetamol", Type: "tablet"})
	require.NoError(t, err)

	first, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetUnknownMedicine(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	svc, repo := newTestService()
	created, err := svc.Create(context.Background(), &model.MedicineRequest{Name: "Paracetamol", Type: "tablet"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, &model.MedicineRequest{Name: "Ibuprofen", Type: "tablet"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", got.Name)
	// Second Get after invalidation goes back to the store; the Update's own
	// fetch also counts.
	assert.Equal(t, 3, repo.getCalls)
}

func TestListCachesAndInvalidatesOnWrite(t *testing.T) {
	svc, repo := newTestService()
	_, err := svc.Create(context.Background(), &model.MedicineRequest{Name: "Paracetamol", Type: "tablet"})
	require.NoError(t, err)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(context.Background(), &model.MedicineRequest{Name: "Amoxicillin", Type: "capsule"})
	require.NoError(t, err)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestDeleteRemovesFromCatalog(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.Create(context.Background(), &model.MedicineRequest{Name: "Paracetamol", Type: "tablet"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
