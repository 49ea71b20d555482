package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"postsapi/internal/model"
	"postsapi/internal/service"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type PostService interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, postID int64) (model.Post, error)
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	UpdatePost(ctx context.Context, postID int64, req service.UpdatePostRequest) (model.Post, error)
}

type Handler struct {
	posts PostService
}

func NewHandler(posts PostService) *Handler {
	return &Handler{posts: posts}
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req service.UpdatePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), postID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &requestError{details: []ErrorDetail{{
			Type:  "int_parsing",
			Loc:   []any{"path", "id"},
			Msg:   "Input should be a valid integer, unable to parse string as an integer",
			Input: raw,
		}}}
	}
	return id, nil
}

// decodeBody reads a JSON object into dst. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return &requestError{details: []ErrorDetail{{
			Type: "missing",
			Loc:  []any{"body"},
			Msg:  service.MsgFieldRequired,
		}}}

	case errors.As(err, &typeErr) && typeErr.Field == "":
		return &requestError{details: []ErrorDetail{{
			Type: "model_attributes_type",
			Loc:  []any{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
		}}}

	case errors.As(err, &typeErr):
		return &requestError{details: []ErrorDetail{{
			Type: "string_type",
			Loc:  []any{"body", typeErr.Field},
			Msg:  "Input should be a valid string",
		}}}

	default:
		return &requestError{details: []ErrorDetail{{
			Type:  "json_invalid",
			Loc:   []any{"body"},
			Msg:   "JSON decode error",
			Input: map[string]any{},
		}}}
	}
}
