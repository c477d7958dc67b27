package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/ButyrinIA/posts/internal/models"
	"github.com/samber/lo"
)

// MemoryStorage хранит посты в срезе в порядке вставки.
// Изменения идут под записывающей блокировкой, чтение видит целостный снимок.
type MemoryStorage struct {
	posts  []models.Post
	nextID int
	mu     sync.RWMutex
}

// New создает хранилище с начальными постами. Посты с повторяющимся id отбрасываются.
func New(seed ...models.Post) *MemoryStorage {
	posts := lo.UniqBy(seed, func(p models.Post) int { return p.ID })

	nextID := 1
	if len(posts) > 0 {
		nextID = lo.MaxBy(posts, func(a, b models.Post) bool { return a.ID > b.ID }).ID + 1
	}

	return &MemoryStorage{
		posts:  posts,
		nextID: nextID,
	}
}

func (s *MemoryStorage) GetPost(ctx context.Context, id int) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, models.PostNotFound(id)
	}

	post := s.posts[idx]
	return &post, nil
}

func (s *MemoryStorage) ListPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	s.mu.RLock()
	posts := slices.Clone(s.posts)
	s.mu.RUnlock()

	if posts == nil {
		posts = []models.Post{}
	}
	if opts.Sort == models.SortNone {
		return posts, nil
	}
	if _, ok := opts.Sort.Key(models.Post{}); !ok {
		return nil, &models.InvalidSortFieldError{Value: string(opts.Sort)}
	}

	// Стабильная сортировка: при равных ключах сохраняется порядок вставки в обоих направлениях
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		ka, _ := opts.Sort.Key(a)
		kb, _ := opts.Sort.Key(b)
		cmp := strings.Compare(strings.ToLower(ka), strings.ToLower(kb))
		if opts.Direction == models.SortDesc {
			return -cmp
		}
		return cmp
	})

	return posts, nil
}

func (s *MemoryStorage) CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := models.Post{
		ID:      s.nextID,
		Title:   post.Title,
		Content: post.Content,
	}
	s.nextID++
	s.posts = append(s.posts, created)

	return &created, nil
}

func (s *MemoryStorage) UpdatePost(ctx context.Context, id int, patch models.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, models.PostNotFound(id)
	}

	patch.Apply(&s.posts[idx])
	updated := s.posts[idx]

	return &updated, nil
}

func (s *MemoryStorage) DeletePost(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.PostNotFound(id)
	}

	s.posts = slices.Delete(s.posts, idx, idx+1)
	return nil
}

func (s *MemoryStorage) SearchPosts(ctx context.Context, query models.SearchQuery) ([]models.Post, error) {
	title := strings.ToLower(query.Title)
	content := strings.ToLower(query.Content)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Пустой запрос ничего не находит
	return lo.Filter(s.posts, func(p models.Post, _ int) bool {
		return (title != "" && strings.Contains(strings.ToLower(p.Title), title)) ||
			(content != "" && strings.Contains(strings.ToLower(p.Content), content))
	}), nil
}

func (s *MemoryStorage) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.posts)
}

// Close очищает хранилище
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	return nil
}

// indexOf вызывается под блокировкой
func (s *MemoryStorage) indexOf(id int) int {
	_, idx, ok := lo.FindIndexOf(s.posts, func(p models.Post) bool { return p.ID == id })
	if !ok {
		return -1
	}
	return idx
}
