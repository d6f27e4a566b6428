package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/flashdeck/flashdeck/internal/models"
	"github.com/flashdeck/flashdeck/internal/store"
)

// Flashcard sets. Reads are public; mutations require auth and, for existing
// sets, ownership. The ownership check runs strictly after the existence
// check and strictly before the mutation.
func (s *Server) mountSets() {
	s.r.Get("/flashcardSets", s.handleListSets)
	s.r.Get("/flashcardSets/{id}", s.handleGetSet)

	authed := s.r.With(s.requireAuth(""))
	authed.Post("/flashcardSets", s.handleCreateSet)
	authed.Patch("/flashcardSets/{id}", s.handleUpdateSet)
	authed.Delete("/flashcardSets/{id}", s.handleDeleteSet)
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.store.ListSets(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list sets")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.store.GetSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Flashcard set not found")
			return
		}
		log.Error().Err(err).Msg("get set")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

type createSetReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// handleCreateSet makes the authenticated caller the owner; any userId in the
// body is ignored.
func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var body createSetReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Title == "" {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}
	me := currentUser(r)
	now := time.Now().UTC()
	set := &models.FlashcardSet{
		ID:          uuid.NewString(),
		UserID:      me.ID,
		Title:       body.Title,
		Description: body.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateSet(r.Context(), set); err != nil {
		log.Error().Err(err).Msg("create set")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

type updateSetReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var body updateSetReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	set, err := s.store.GetSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Flashcard set not found")
			return
		}
		log.Error().Err(err).Msg("get set")
		writeInternal(w)
		return
	}
	if set.UserID != currentUser(r).ID {
		writeMessage(w, http.StatusForbidden, "Access denied: not your resource")
		return
	}

	if body.Title != nil {
		set.Title = *body.Title
	}
	if body.Description != nil {
		set.Description = *body.Description
	}
	set.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSet(r.Context(), set); err != nil {
		log.Error().Err(err).Msg("update set")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.store.GetSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Flashcard set not found")
			return
		}
		log.Error().Err(err).Msg("get set")
		writeInternal(w)
		return
	}
	if set.UserID != currentUser(r).ID {
		writeMessage(w, http.StatusForbidden, "Access denied: not your resource")
		return
	}
	if err := s.store.DeleteSet(r.Context(), set.ID); err != nil {
		log.Error().Err(err).Msg("delete set")
		writeInternal(w)
		return
	}
	writeMessage(w, http.StatusOK, "Flashcard set deleted successfully")
}
