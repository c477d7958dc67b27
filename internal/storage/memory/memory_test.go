package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/ButyrinIA/posts/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(posts []models.Post) []int {
	return lo.Map(posts, func(p models.Post, _ int) int { return p.ID })
}

func strPtr(s string) *string { return &s }

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("GetPost", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		post, err := store.GetPost(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.SeedPosts()[1], *post)

		_, err = store.GetPost(ctx, 3)
		var target *models.NotFoundError
		assert.ErrorAs(t, err, &target)
	})

	t.Run("ListPosts keeps insertion order", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, models.SeedPosts(), posts)
	})

	t.Run("ListPosts on empty store returns empty slice", func(t *testing.T) {
		store := New()

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("ListPosts sorts case-insensitively", func(t *testing.T) {
		store := New(
			models.Post{ID: 1, Title: "banana", Content: "c"},
			models.Post{ID: 2, Title: "Apple", Content: "b"},
			models.Post{ID: 3, Title: "cherry", Content: "A"},
		)

		asc, err := store.ListPosts(ctx, models.ListOptions{Sort: models.SortTitle, Direction: models.SortAsc})
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1, 3}, ids(asc))

		desc, err := store.ListPosts(ctx, models.ListOptions{Sort: models.SortTitle, Direction: models.SortDesc})
		require.NoError(t, err)
		assert.Equal(t, lo.Reverse(ids(asc)), ids(desc), "desc должен быть обратным к asc при разных заголовках")

		byContent, err := store.ListPosts(ctx, models.ListOptions{Sort: models.SortContent, Direction: models.SortAsc})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, ids(byContent))
	})

	t.Run("ListPosts is stable for ties", func(t *testing.T) {
		store := New(
			models.Post{ID: 1, Title: "same", Content: "x"},
			models.Post{ID: 2, Title: "Other", Content: "x"},
			models.Post{ID: 3, Title: "SAME", Content: "x"},
		)

		asc, err := store.ListPosts(ctx, models.ListOptions{Sort: models.SortTitle, Direction: models.SortAsc})
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1, 3}, ids(asc))

		desc, err := store.ListPosts(ctx, models.ListOptions{Sort: models.SortTitle, Direction: models.SortDesc})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 2}, ids(desc))
	})

	t.Run("ListPosts rejects unknown field", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		_, err := store.ListPosts(ctx, models.ListOptions{Sort: "id"})
		var target *models.InvalidSortFieldError
		assert.ErrorAs(t, err, &target)
	})

	t.Run("ListPosts returns a snapshot", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		posts[0].Title = "изменено снаружи"

		again, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, "First post", again[0].Title)
	})

	t.Run("CreatePost assigns increasing ids", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		created, err := store.CreatePost(ctx, models.NewPost{Title: "A", Content: "B"})
		require.NoError(t, err)
		assert.Equal(t, &models.Post{ID: 3, Title: "A", Content: "B"}, created)

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, ids(posts))
	})

	t.Run("CreatePost on empty store starts at 1", func(t *testing.T) {
		store := New()

		created, err := store.CreatePost(ctx, models.NewPost{Title: "A", Content: "B"})
		require.NoError(t, err)
		assert.Equal(t, 1, created.ID)
	})

	t.Run("CreatePost never reuses deleted ids", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		require.NoError(t, store.DeletePost(ctx, 2))
		created, err := store.CreatePost(ctx, models.NewPost{Title: "A", Content: "B"})
		require.NoError(t, err)
		assert.Equal(t, 3, created.ID)
	})

	t.Run("New drops duplicate seed ids", func(t *testing.T) {
		store := New(
			models.Post{ID: 5, Title: "a"},
			models.Post{ID: 5, Title: "b"},
		)

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		created, err := store.CreatePost(ctx, models.NewPost{})
		require.NoError(t, err)
		assert.Equal(t, 6, created.ID)
	})

	t.Run("UpdatePost replaces only given fields", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		updated, err := store.UpdatePost(ctx, 1, models.PostPatch{Title: strPtr("New title")})
		require.NoError(t, err)
		assert.Equal(t, &models.Post{ID: 1, Title: "New title", Content: "This is the first post."}, updated)

		updated, err = store.UpdatePost(ctx, 1, models.PostPatch{Content: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "", updated.Content)
		assert.Equal(t, "New title", updated.Title)
	})

	t.Run("UpdatePost with empty patch changes nothing", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		updated, err := store.UpdatePost(ctx, 2, models.PostPatch{})
		require.NoError(t, err)
		assert.Equal(t, models.SeedPosts()[1], *updated)
	})

	t.Run("UpdatePost Not Found", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		_, err := store.UpdatePost(ctx, 99, models.PostPatch{Title: strPtr("x")})
		var target *models.NotFoundError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "Post with id 99 not found.", err.Error())
	})

	t.Run("DeletePost removes only the given post", func(t *testing.T) {
		store := New(
			models.Post{ID: 1, Title: "a"},
			models.Post{ID: 2, Title: "b"},
			models.Post{ID: 3, Title: "c"},
		)

		require.NoError(t, store.DeletePost(ctx, 2))

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, ids(posts))
	})

	t.Run("DeletePost Not Found leaves store unchanged", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		err := store.DeletePost(ctx, 42)
		var target *models.NotFoundError
		assert.ErrorAs(t, err, &target)

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, models.SeedPosts(), posts)
	})

	t.Run("SearchPosts", func(t *testing.T) {
		store := New(
			models.Post{ID: 1, Title: "First post", Content: "Hello world"},
			models.Post{ID: 2, Title: "Second post", Content: "Goodbye"},
			models.Post{ID: 3, Title: "Notes", Content: "the FIRST draft"},
		)

		cases := []struct {
			name  string
			query models.SearchQuery
			want  []int
		}{
			{"by title", models.SearchQuery{Title: "first"}, []int{1}},
			{"by content", models.SearchQuery{Content: "first"}, []int{3}},
			{"title or content", models.SearchQuery{Title: "second", Content: "hello"}, []int{1, 2}},
			{"shared substring", models.SearchQuery{Title: "POST"}, []int{1, 2}},
			{"empty query matches nothing", models.SearchQuery{}, []int{}},
			{"no match", models.SearchQuery{Title: "zzz"}, []int{}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				found, err := store.SearchPosts(ctx, tc.query)
				require.NoError(t, err)
				assert.NotNil(t, found)
				assert.Equal(t, tc.want, ids(found))
			})
		}
	})

	t.Run("Count", func(t *testing.T) {
		store := New(models.SeedPosts()...)
		assert.Equal(t, 2, store.Count(ctx))
	})

	t.Run("Close", func(t *testing.T) {
		store := New(models.SeedPosts()...)

		assert.NoError(t, store.Close())

		posts, err := store.ListPosts(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, posts, "после закрытия хранилище должно быть пустым")
	})
}

func TestMemoryStorage_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := New(models.SeedPosts()...)

	const n = 100
	var wg sync.WaitGroup
	created := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := store.CreatePost(ctx, models.NewPost{Title: "t", Content: "c"})
			if err == nil {
				created <- p.ID
			}
		}()
	}
	wg.Wait()
	close(created)

	var got []int
	for id := range created {
		got = append(got, id)
	}
	assert.Len(t, got, n)
	assert.Len(t, lo.Uniq(got), n, "id должны быть уникальными")
	assert.Equal(t, n+2, store.Count(ctx))
}
