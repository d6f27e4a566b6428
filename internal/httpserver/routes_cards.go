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

// Flashcards. Ownership is transitive: mutating a card requires owning its
// parent set, checked after the card (and set) are confirmed to exist.
func (s *Server) mountCards() {
	s.r.Get("/flashcards", s.handleListCards)
	s.r.Get("/flashcards/set/{setId}", s.handleListCardsBySet)
	s.r.Get("/flashcards/{id}", s.handleGetCard)

	authed := s.r.With(s.requireAuth(""))
	authed.Post("/flashcards", s.handleCreateCard)
	authed.Patch("/flashcards/{id}", s.handleUpdateCard)
	authed.Delete("/flashcards/{id}", s.handleDeleteCard)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCards(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list cards")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleListCardsBySet(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCardsBySet(r.Context(), chi.URLParam(r, "setId"))
	if err != nil {
		log.Error().Err(err).Msg("list cards by set")
		writeInternal(w)
		return
	}
	if len(cards) == 0 {
		writeMessage(w, http.StatusNotFound, "No flashcards found for this set")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.store.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Error().Err(err).Msg("get card")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type createCardReq struct {
	SetID      string `json:"setId"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var body createCardReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.SetID == "" || body.Term == "" || body.Definition == "" {
		writeMessage(w, http.StatusBadRequest, "setId, term and definition are required")
		return
	}
	set, err := s.store.GetSet(r.Context(), body.SetID)
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

	card := &models.Flashcard{
		ID:         uuid.NewString(),
		SetID:      set.ID,
		Term:       body.Term,
		Definition: body.Definition,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateCard(r.Context(), card); err != nil {
		log.Error().Err(err).Msg("create card")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

type updateCardReq struct {
	Term       *string `json:"term"`
	Definition *string `json:"definition"`
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var body updateCardReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	card, ok := s.loadOwnedCard(w, r)
	if !ok {
		return
	}

	if body.Term != nil {
		card.Term = *body.Term
	}
	if body.Definition != nil {
		card.Definition = *body.Definition
	}
	if err := s.store.UpdateCard(r.Context(), card); err != nil {
		log.Error().Err(err).Msg("update card")
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	card, ok := s.loadOwnedCard(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteCard(r.Context(), card.ID); err != nil {
		log.Error().Err(err).Msg("delete card")
		writeInternal(w)
		return
	}
	writeMessage(w, http.StatusOK, "Flashcard deleted successfully")
}

// loadOwnedCard fetches the card from the {id} URL param and enforces the
// transitive ownership check, writing the response itself on failure.
func (s *Server) loadOwnedCard(w http.ResponseWriter, r *http.Request) (*models.Flashcard, bool) {
	card, err := s.store.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Flashcard not found")
			return nil, false
		}
		log.Error().Err(err).Msg("get card")
		writeInternal(w)
		return nil, false
	}
	set, err := s.store.GetSet(r.Context(), card.SetID)
	if err != nil {
		// FK guarantees the parent exists; anything here is a store fault.
		log.Error().Err(err).Str("setId", card.SetID).Msg("get parent set")
		writeInternal(w)
		return nil, false
	}
	if set.UserID != currentUser(r).ID {
		writeMessage(w, http.StatusForbidden, "Access denied: not your resource")
		return nil, false
	}
	return card, true
}
