package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListOptions(t *testing.T) {
	t.Run("no sort", func(t *testing.T) {
		opts, err := ParseListOptions("", "sideways")
		require.NoError(t, err, "direction без sort не проверяется")
		assert.Equal(t, SortNone, opts.Sort)
	})

	t.Run("default direction", func(t *testing.T) {
		opts, err := ParseListOptions("title", "")
		require.NoError(t, err)
		assert.Equal(t, ListOptions{Sort: SortTitle, Direction: SortAsc}, opts)
	})

	t.Run("direction is case-insensitive", func(t *testing.T) {
		opts, err := ParseListOptions("content", "DeSc")
		require.NoError(t, err)
		assert.Equal(t, ListOptions{Sort: SortContent, Direction: SortDesc}, opts)
	})

	t.Run("invalid field", func(t *testing.T) {
		_, err := ParseListOptions("Title", "asc")
		var target *InvalidSortFieldError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "Invalid sort field 'Title'. Allowed values are 'title' or 'content'.", err.Error())
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := ParseListOptions("title", "UP")
		var target *InvalidSortDirectionError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "Invalid sort direction 'up'. Allowed values are 'asc' or 'desc'.", err.Error())
	})
}

func TestPostPatch_Apply(t *testing.T) {
	title := "новый"
	post := Post{ID: 7, Title: "старый", Content: "текст"}

	PostPatch{Title: &title}.Apply(&post)

	assert.Equal(t, Post{ID: 7, Title: "новый", Content: "текст"}, post)
}
