package storage

import (
	"context"

	"github.com/ButyrinIA/posts/internal/models"
)

// Storage - хранилище постов. Ошибки предметной области возвращаются
// как *models.NotFoundError и *models.InvalidSortFieldError.
type Storage interface {
	GetPost(ctx context.Context, id int) (*models.Post, error)
	ListPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error)
	CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, id int, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id int) error
	SearchPosts(ctx context.Context, query models.SearchQuery) ([]models.Post, error)
	Count(ctx context.Context) int
	Close() error
}
