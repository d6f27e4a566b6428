package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/models"
	"github.com/flashdeck/flashdeck/internal/store"
)

// User administration. Every route requires the admin role; admins still get
// no ownership bypass on sets/cards.
func (s *Server) mountUsers() {
	admin := s.r.With(s.requireAuth(models.RoleAdmin))
	admin.Get("/users", s.handleListUsers)
	admin.Get("/users/{id}", s.handleGetUser)
	admin.Post("/users", s.handleCreateUser)
	admin.Patch("/users/{id}", s.handleUpdateUser)
	admin.Delete("/users/{id}", s.handleDeleteUser)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list users")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Msg("get user")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleCreateUser takes a plaintext password and hashes it through the same
// path registration uses; hashes never travel over the wire in either
// direction.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body registerReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.auth.Register(r.Context(), auth.RegisterParams{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		var ve *auth.ValidationError
		if errors.Is(err, auth.ErrDuplicateUser) || errors.As(err, &ve) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("create user")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type updateUserReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var body updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.store.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Msg("get user")
		writeInternal(w)
		return
	}

	if body.Username != nil {
		u.Username = *body.Username
	}
	if body.Email != nil {
		u.Email = *body.Email
	}
	if body.Role != nil {
		if *body.Role != models.RoleUser && *body.Role != models.RoleAdmin {
			writeMessage(w, http.StatusBadRequest, "role must be user or admin")
			return
		}
		u.Role = *body.Role
	}
	if body.Password != nil {
		hash, err := auth.HashPassword(*body.Password)
		if err != nil {
			log.Error().Err(err).Msg("hash password")
			writeInternal(w)
			return
		}
		u.PasswordHash = hash
	}

	if err := s.store.UpdateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeMessage(w, http.StatusBadRequest, "email or username already in use")
			return
		}
		log.Error().Err(err).Msg("update user")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Msg("delete user")
		writeInternal(w)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
