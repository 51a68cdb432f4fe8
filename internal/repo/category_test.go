package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starter-api/backend/internal/domain"
)

func TestCategoryRepo_Create(t *testing.T) {
	eachDatabase(t, func(t *testing.T, r repos) {
		got, err := r.categories.Create(context.Background(), domain.Category{Name: "Books"})

		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, "Books", got.Name)
		assert.False(t, got.CreatedAt.IsZero())
	})
}

func TestCategoryRepo_GetByID(t *testing.T) {
	eachDatabase(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		created, err := r.categories.Create(ctx, domain.Category{Name: "Garden"})
		require.NoError(t, err)

		got, err := r.categories.GetByID(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Garden", got.Name)
		assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
	})
}

func TestCategoryRepo_GetByID_NotFound(t *testing.T) {
	eachDatabase(t, func(t *testing.T, r repos) {
		_, err := r.categories.GetByID(context.Background(), 999999)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCategoryRepo_Create_DuplicateName(t *testing.T) {
	eachDatabase(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		_, err := r.categories.Create(ctx, domain.Category{Name: "Toys"})
		require.NoError(t, err)

		// Must be the last statement: Postgres aborts the tx on error.
		_, err = r.categories.Create(ctx, domain.Category{Name: "Toys"})

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestCategoryRepo_List(t *testing.T) {
	eachDatabase(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		for _, name := range []string{"Delta", "Alpha", "Charlie", "Bravo", "Echo"} {
			_, err := r.categories.Create(ctx, domain.Category{Name: name})
			require.NoError(t, err)
		}

		tests := []struct {
			params domain.PageParams
			want   []string
		}{
			{domain.PageParams{Limit: 2, Offset: 0}, []string{"Alpha", "Bravo"}},
			{domain.PageParams{Limit: 2, Offset: 2}, []string{"Charlie", "Delta"}},
			{domain.PageParams{Limit: 2, Offset: 4}, []string{"Echo"}},
			{domain.PageParams{Limit: 10, Offset: 10}, []string{}},
		}
		for _, tc := range tests {
			t.Run(fmt.Sprintf("limit=%d,offset=%d", tc.params.Limit, tc.params.Offset), func(t *testing.T) {
				got, total, err := r.categories.List(ctx, tc.params)

				require.NoError(t, err)
				assert.Equal(t, int64(5), total)
				names := make([]string, 0, len(got))
				for _, c := range got {
					names = append(names, c.Name)
				}
				assert.Equal(t, tc.want, names)
			})
		}
	})
}
