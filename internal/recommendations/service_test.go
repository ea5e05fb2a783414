package recommendations

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendations-backend/internal/shared/metrics"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	return NewService(repo), repo
}

func mustCreate(t *testing.T, svc *Service, in Input) Recommendation {
	t.Helper()
	rec, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return rec
}

func TestCreateRejectsDuplicatePairRegardlessOfStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})

	_, err := svc.Create(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 2, Status: false})
	assert.ErrorIs(t, err, ErrDuplicate)

	// the reverse direction is a different pair
	_, err = svc.Create(ctx, Input{ProductID: 2, RelatedProductID: 1, TypeID: 1, Status: true})
	assert.NoError(t, err)
}

func TestCreateRejectsInvalidType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), Input{ProductID: 1, RelatedProductID: 2, TypeID: 10, Status: true})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetPrefersActiveRow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 3, Status: false}))
	require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true}))

	rec, err := svc.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, rec.Status)
	assert.Equal(t, TypeID(1), rec.TypeID)
}

func TestGetFallsBackToInactiveRow(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 2, Status: false})

	rec, err := svc.Get(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, rec.Status)

	_, err = svc.Get(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleTwiceRestoresStatus(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})

	before := testutil.ToFloat64(metrics.MutationsTotal.WithLabelValues("toggle", metrics.OutcomeOK))

	first, err := svc.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first.Status)
	stored, err := repo.Find(ctx, ByKey(1, 2))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, first.Status, stored[0].Status)

	second, err := svc.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, second.Status)
	stored, err = repo.Find(ctx, ByKey(1, 2))
	require.NoError(t, err)
	assert.Equal(t, second.Status, stored[0].Status)

	after := testutil.ToFloat64(metrics.MutationsTotal.WithLabelValues("toggle", metrics.OutcomeOK))
	assert.Equal(t, float64(2), after-before)
}

func TestToggleMissingPair(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Toggle(context.Background(), 8, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 10, Status: true})
	assert.ErrorIs(t, err, ErrInvalidInput, "bad type on a missing pair")

	_, err = svc.Update(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 2, Status: true})
	assert.ErrorIs(t, err, ErrNotFound)

	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})

	_, err = svc.Update(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 10, Status: true})
	assert.ErrorIs(t, err, ErrInvalidInput, "bad type on an existing pair")

	rec, err := svc.Update(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 3, Status: false})
	require.NoError(t, err)
	assert.Equal(t, TypeID(3), rec.TypeID)
	assert.False(t, rec.Status)

	got, err := svc.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, TypeID(3), got.TypeID)
}

func TestRelatedGroupsByType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 3, TypeID: 2, Status: true})
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 4, TypeID: 3, Status: true})

	groups, err := svc.Related(ctx, 1)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, []int64{2}, groups[0].IDs)
	assert.Equal(t, []int64{3}, groups[1].IDs)
	assert.Equal(t, []int64{4}, groups[2].IDs)

	_, err = svc.Related(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveRelatedNotFoundWhenOnlyInactive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: false})

	_, err := svc.ActiveRelated(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 5, TypeID: 2, Status: true})
	groups, err := svc.ActiveRelated(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, groups[0].IDs)
	assert.Equal(t, []int64{5}, groups[1].IDs)
}

func TestRelatedByType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 2, Status: true})
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 3, TypeID: 2, Status: false})

	listing, err := svc.RelatedByType(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, listing.IDs)
	assert.Equal(t, []bool{true, false}, listing.Status)

	_, err = svc.RelatedByType(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelationship(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})
	mustCreate(t, svc, Input{ProductID: 3, RelatedProductID: 1, TypeID: 1, Status: true})
	mustCreate(t, svc, Input{ProductID: 5, RelatedProductID: 6, TypeID: 1, Status: false})

	_, _, err := svc.Relationship(ctx, "abc", "2")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = svc.Relationship(ctx, "1", "-2")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = svc.Relationship(ctx, "", "2")
	assert.ErrorIs(t, err, ErrInvalidInput)

	rec, found, err := svc.Relationship(ctx, "1", "2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), rec.RelatedProductID)

	// both known, but no direct active link
	_, found, err = svc.Relationship(ctx, "2", "3")
	require.NoError(t, err)
	assert.False(t, found)

	// only inactive rows mention these products
	_, found, err = svc.Relationship(ctx, "5", "6")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.Relationship(ctx, "100", "200")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteFiltered(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 3, TypeID: 1, Status: false})
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 4, TypeID: 2, Status: false})

	_, err := svc.DeleteFiltered(ctx, 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.DeleteFiltered(ctx, 1, "4", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.DeleteFiltered(ctx, 1, "", "maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)

	n, err := svc.DeleteFiltered(ctx, 1, "1", "False")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeleteFiltered(ctx, 1, "", "false")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeleteFiltered(ctx, 1, "3", "")
	require.NoError(t, err)
	assert.Zero(t, n)

	rest, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, relatedIDs(rest))
}

func TestDeleteAllAndPair(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})
	mustCreate(t, svc, Input{ProductID: 1, RelatedProductID: 3, TypeID: 2, Status: true})
	mustCreate(t, svc, Input{ProductID: 4, RelatedProductID: 5, TypeID: 1, Status: true})
	require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 4, RelatedProductID: 5, TypeID: 2, Status: false}))

	n, err := svc.DeletePair(ctx, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "both statuses are removed")

	n, err = svc.DeletePair(ctx, 4, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.DeleteAllForProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rest, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, rest)
}

type failingRepo struct {
	MemoryRepo
}

var errStoreDown = errors.New("store down")

func (*failingRepo) Find(context.Context, Filter) ([]Recommendation, error) {
	return nil, errStoreDown
}

func TestStoreFailuresPropagate(t *testing.T) {
	svc := NewService(&failingRepo{})
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.MutationsTotal.WithLabelValues("create", metrics.OutcomeError))
	_, err := svc.Create(ctx, Input{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true})
	assert.ErrorIs(t, err, errStoreDown)
	after := testutil.ToFloat64(metrics.MutationsTotal.WithLabelValues("create", metrics.OutcomeError))
	assert.Equal(t, float64(1), after-before)

	_, err = svc.Get(ctx, 1, 2)
	assert.ErrorIs(t, err, errStoreDown)
}
