package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/ButyrinIA/posts/internal/models"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// createPostRequest - тело POST /api/posts, nil означает отсутствующее поле
type createPostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// decodeCreatePost проверяет наличие полей отдельно от их типов:
// поле со значением неверного типа присутствует и не попадает в missing.
func decodeCreatePost(body []byte) (createPostRequest, error) {
	// Неразборчивое тело или не объект считается телом без полей
	var fields map[string]json.RawMessage
	if err := render.DecodeJSON(bytes.NewReader(body), &fields); err != nil {
		fields = nil
	}

	var missing []string
	for _, name := range []string{"title", "content"} {
		raw, ok := fields[name]
		if !ok || bytes.Equal(raw, []byte("null")) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return createPostRequest{}, &models.MissingFieldsError{Fields: missing}
	}

	var req createPostRequest
	if err := render.DecodeJSON(bytes.NewReader(body), &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return createPostRequest{}, &models.InvalidFieldTypeError{Field: typeErr.Field, Want: "string"}
		}
		return createPostRequest{}, errInvalidBody
	}
	// Ключи структуры сравниваются без учета регистра: {"TITLE":null} может затереть title
	if req.Title == nil || req.Content == nil {
		return createPostRequest{}, &models.MissingFieldsError{Fields: nullFields(req)}
	}
	return req, nil
}

func nullFields(req createPostRequest) []string {
	var fields []string
	if req.Title == nil {
		fields = append(fields, "title")
	}
	if req.Content == nil {
		fields = append(fields, "content")
	}
	return fields
}

var errInvalidBody = errors.New("Invalid JSON body")

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts, err := models.ParseListOptions(query.Get("sort"), query.Get("direction"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	posts, err := s.storage.ListPosts(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, posts)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, r, errors.Wrap(err, "cannot read request body"))
		return
	}

	req, err := decodeCreatePost(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	post, err := s.storage.CreatePost(r.Context(), models.NewPost{Title: *req.Title, Content: *req.Content})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	post, err := s.storage.GetPost(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var patch models.PostPatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil && err != io.EOF {
		// 404 важнее ошибки в теле
		if _, err := s.storage.GetPost(r.Context(), id); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondError(w, r, errInvalidBody)
		return
	}

	post, err := s.storage.UpdatePost(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.storage.DeletePost(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, messageResponse{
		Message: fmt.Sprintf("Post with id %d has been deleted successfully.", id),
	})
}

func (s *Server) searchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	posts, err := s.storage.SearchPosts(r.Context(), models.SearchQuery{
		Title:   query.Get("title"),
		Content: query.Get("content"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, posts)
}

// postID разбирает {id}; нечисловой id не может существовать, поэтому это 404
func postID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.NotFoundError{ID: raw}
	}
	return id, nil
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing      *models.MissingFieldsError
		notFound     *models.NotFoundError
		badField     *models.InvalidSortFieldError
		badDirection *models.InvalidSortDirectionError
		badType      *models.InvalidFieldTypeError
	)

	status := http.StatusBadRequest
	body := errorResponse{Error: err.Error()}

	switch {
	case errors.As(err, &missing):
		body = errorResponse{Error: "Missing fields", Missing: missing.Fields}
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &badField), errors.As(err, &badDirection), errors.As(err, &badType), errors.Is(err, errInvalidBody):
	default:
		s.logger.Error("ошибка обработки запроса", "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
		status = http.StatusInternalServerError
		body = errorResponse{Error: "Internal server error"}
	}

	render.Status(r, status)
	render.JSON(w, r, body)
}
