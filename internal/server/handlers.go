package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jacentio/lattice/internal/graph"
	"github.com/jacentio/lattice/store"
)

var errBadRequest = errors.New("lattice: malformed request")

// Request bodies. Required fields are enforced before the store is called.
type (
	createUserRequest struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required"`
		Age   *int   `json:"age"`
	}

	createPostRequest struct {
		Title     string `json:"title" validate:"required"`
		Body      string `json:"body" validate:"required"`
		Published *bool  `json:"published" validate:"required"`
		Author    string `json:"author" validate:"required"`
	}

	createCommentRequest struct {
		Text   string `json:"text" validate:"required"`
		Author string `json:"author" validate:"required"`
		Post   string `json:"post" validate:"required"`
	}
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

// decode reads a JSON body into v and validates its tags.
func (s *Server) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return s.validate.Struct(v)
}

func selection(r *http.Request) graph.Selection {
	return graph.ParseSelection(r.URL.Query().Get("expand"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.expander.User(store.Me(), nil))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.store.ListUsers(r.URL.Query().Get("query"))
	s.writeJSON(w, http.StatusOK, s.expander.Users(users, selection(r)))
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts := s.store.ListPosts(r.URL.Query().Get("query"))
	s.writeJSON(w, http.StatusOK, s.expander.Posts(posts, selection(r)))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.expander.Comments(s.store.ListComments(), selection(r)))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), store.NewUser{Name: req.Name, Email: req.Email, Age: req.Age})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.expander.User(user, selection(r)))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.store.CreatePost(r.Context(), store.NewPost{
		Title:     req.Title,
		Body:      req.Body,
		Published: *req.Published,
		Author:    req.Author,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.expander.Post(post, selection(r)))
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	comment, err := s.store.CreateComment(r.Context(), store.NewComment{Text: req.Text, Author: req.Author, Post: req.Post})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.expander.Comment(comment, selection(r)))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.expander.User(user, nil))
}
