package models

type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewPost - данные для создания поста, id назначает хранилище
type NewPost struct {
	Title   string
	Content string
}

// PostPatch - частичное обновление: nil означает "поле не передано"
type PostPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Apply применяет переданные поля к посту, id не меняется
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
}

// SearchQuery - подстроки для поиска, пустая строка ничего не находит
type SearchQuery struct {
	Title   string
	Content string
}

// SeedPosts возвращает посты, с которыми стартует сервис
func SeedPosts() []Post {
	return []Post{
		{ID: 1, Title: "First post", Content: "This is the first post."},
		{ID: 2, Title: "Second post", Content: "This is the second post."},
	}
}
