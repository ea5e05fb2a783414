package recommendations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepoContract exercises behavior every Repo implementation must share.
func runRepoContract(t *testing.T, newRepo func(t *testing.T) Repo) {
	t.Run("insert assigns ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true}
		b := Recommendation{ProductID: 1, RelatedProductID: 3, TypeID: 2, Status: true}
		require.NoError(t, repo.Insert(ctx, &a))
		require.NoError(t, repo.Insert(ctx, &b))

		assert.NotZero(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)
		assert.False(t, a.CreatedAt.IsZero())
	})

	t.Run("active and inactive rows coexist", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true}))
		require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 3, Status: false}))

		rows, err := repo.Find(ctx, ByKey(1, 2))
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		active, err := repo.Find(ctx, ByKey(1, 2).WithStatus(true))
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, TypeID(1), active[0].TypeID)
	})

	t.Run("same pair and status is a duplicate", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 5, RelatedProductID: 6, TypeID: 1, Status: true}))
		err := repo.Insert(ctx, &Recommendation{ProductID: 5, RelatedProductID: 6, TypeID: 2, Status: true})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("find combines predicates and orders rows", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, rec := range []Recommendation{
			{ProductID: 2, RelatedProductID: 9, TypeID: 1, Status: true},
			{ProductID: 1, RelatedProductID: 8, TypeID: 2, Status: false},
			{ProductID: 1, RelatedProductID: 4, TypeID: 2, Status: true},
			{ProductID: 1, RelatedProductID: 6, TypeID: 3, Status: true},
		} {
			rec := rec
			require.NoError(t, repo.Insert(ctx, &rec))
		}

		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, []int64{4, 6, 8, 9}, relatedIDs(all))

		byType, err := repo.Find(ctx, ByProduct(1).WithType(2))
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 8}, relatedIDs(byType))

		byTypeStatus, err := repo.Find(ctx, ByProduct(1).WithType(2).WithStatus(false))
		require.NoError(t, err)
		assert.Equal(t, []int64{8}, relatedIDs(byTypeStatus))

		none, err := repo.Find(ctx, ByProduct(42))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("save updates type and status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		rec := Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true}
		require.NoError(t, repo.Insert(ctx, &rec))

		rec.TypeID = 3
		rec.Status = false
		require.NoError(t, repo.Save(ctx, rec))

		rows, err := repo.Find(ctx, ByKey(1, 2))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, TypeID(3), rows[0].TypeID)
		assert.False(t, rows[0].Status)

		err = repo.Save(ctx, Recommendation{ID: rec.ID + 100, ProductID: 7, RelatedProductID: 7, TypeID: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		rec := Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true}
		require.NoError(t, repo.Insert(ctx, &rec))
		require.NoError(t, repo.Delete(ctx, rec))
		require.NoError(t, repo.Delete(ctx, rec))

		rows, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("delete matching", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, rec := range []Recommendation{
			{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true},
			{ProductID: 1, RelatedProductID: 3, TypeID: 1, Status: false},
			{ProductID: 1, RelatedProductID: 4, TypeID: 2, Status: true},
			{ProductID: 9, RelatedProductID: 2, TypeID: 1, Status: true},
		} {
			rec := rec
			require.NoError(t, repo.Insert(ctx, &rec))
		}

		n, err := repo.DeleteMatching(ctx, ByProduct(1).WithType(1))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.DeleteMatching(ctx, ByProduct(1).WithType(1))
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = repo.DeleteMatching(ctx, Filter{})
		assert.ErrorIs(t, err, ErrInvalidInput)

		rest, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 2}, relatedIDs(rest))
	})

	t.Run("exists anywhere checks both sides", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true}))
		require.NoError(t, repo.Insert(ctx, &Recommendation{ProductID: 3, RelatedProductID: 4, TypeID: 1, Status: false}))

		cases := []struct {
			id     int64
			status bool
			want   bool
		}{
			{1, true, true},
			{2, true, true},
			{3, true, false},
			{4, false, true},
			{5, true, false},
		}
		for _, tc := range cases {
			got, err := repo.ExistsAnywhere(ctx, tc.id, tc.status)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "id=%d status=%t", tc.id, tc.status)
		}
	})
}

func relatedIDs(rows []Recommendation) []int64 {
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.RelatedProductID)
	}
	return out
}
