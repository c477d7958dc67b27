package models

import (
	"fmt"
	"strings"
)

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Post with id %s not found.", e.ID)
}

// PostNotFound строит ошибку для числового id
func PostNotFound(id int) *NotFoundError {
	return &NotFoundError{ID: fmt.Sprint(id)}
}

type InvalidSortFieldError struct {
	Value string
}

func (e *InvalidSortFieldError) Error() string {
	return fmt.Sprintf("Invalid sort field '%s'. Allowed values are 'title' or 'content'.", e.Value)
}

type InvalidSortDirectionError struct {
	Value string
}

func (e *InvalidSortDirectionError) Error() string {
	return fmt.Sprintf("Invalid sort direction '%s'. Allowed values are 'asc' or 'desc'.", e.Value)
}

// MissingFieldsError перечисляет отсутствующие поля в порядке title, content
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing fields: " + strings.Join(e.Fields, ", ")
}

// InvalidFieldTypeError - поле передано, но значение не того типа
type InvalidFieldTypeError struct {
	Field string
	Want  string
}

func (e *InvalidFieldTypeError) Error() string {
	return fmt.Sprintf("Invalid value for field '%s': expected %s.", e.Field, e.Want)
}
