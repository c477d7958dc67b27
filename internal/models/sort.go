package models

import (
	"strings"
)

type SortField string

const (
	SortNone    SortField = ""
	SortTitle   SortField = "title"
	SortContent SortField = "content"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListOptions - параметры выдачи списка постов. Sort == SortNone означает порядок вставки.
type ListOptions struct {
	Sort      SortField
	Direction SortDirection
}

// Key возвращает значение поля поста, по которому идет сортировка
func (f SortField) Key(p Post) (string, bool) {
	switch f {
	case SortTitle:
		return p.Title, true
	case SortContent:
		return p.Content, true
	}
	return "", false
}

// ParseListOptions разбирает параметры sort и direction из запроса.
// direction проверяется только если задан sort.
func ParseListOptions(sort, direction string) (ListOptions, error) {
	if sort == "" {
		return ListOptions{Sort: SortNone, Direction: SortAsc}, nil
	}

	field := SortField(sort)
	if _, ok := field.Key(Post{}); !ok {
		return ListOptions{}, &InvalidSortFieldError{Value: sort}
	}

	dir := SortDirection(strings.ToLower(direction))
	if direction == "" {
		dir = SortAsc
	}
	if dir != SortAsc && dir != SortDesc {
		return ListOptions{}, &InvalidSortDirectionError{Value: string(dir)}
	}

	return ListOptions{Sort: field, Direction: dir}, nil
}
