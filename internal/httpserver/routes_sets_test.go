package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck/internal/models"
)

func (ts *testServer) createSet(t *testing.T, token, title string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/flashcardSets", token, map[string]string{
		"title": title, "description": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id, ok := decodeBody(t, rec)["id"].(string)
	require.True(t, ok)
	return id
}

func TestCreateSet_OwnerIsCaller(t *testing.T) {
	ts := newTestServer(t)
	u, tok := ts.registerUser(t, "alice", "alice@example.com", "")

	rec := ts.do(t, http.MethodPost, "/flashcardSets", tok, map[string]string{
		"title": "Spanish", "description": "vocab",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, u.ID, body["userId"])
	assert.Equal(t, "Spanish", body["title"])
}

func TestCreateSet_TitleRequired(t *testing.T) {
	ts := newTestServer(t)
	_, tok := ts.registerUser(t, "bob", "bob@example.com", "")

	rec := ts.do(t, http.MethodPost, "/flashcardSets", tok, map[string]string{"description": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSet_OwnRefreshesUpdatedAt(t *testing.T) {
	ts := newTestServer(t)
	_, tok := ts.registerUser(t, "carol", "carol@example.com", "")
	id := ts.createSet(t, tok, "Before")

	before, err := ts.store.GetSet(context.Background(), id)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPatch, "/flashcardSets/"+id, tok, map[string]string{"title": "After"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "After", decodeBody(t, rec)["title"])

	after, err := ts.store.GetSet(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "After", after.Title)
	assert.Equal(t, "d", after.Description)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdateSet_NotOwner(t *testing.T) {
	ts := newTestServer(t)
	_, ownerTok := ts.registerUser(t, "dave", "dave@example.com", "")
	_, otherTok := ts.registerUser(t, "eve", "eve@example.com", "")
	id := ts.createSet(t, ownerTok, "Mine")

	rec := ts.do(t, http.MethodPatch, "/flashcardSets/"+id, otherTok, map[string]string{"title": "Stolen"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied: not your resource", decodeBody(t, rec)["message"])

	// Set unchanged.
	set, err := ts.store.GetSet(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Mine", set.Title)
}

func TestUpdateSet_AdminGetsNoBypass(t *testing.T) {
	ts := newTestServer(t)
	_, ownerTok := ts.registerUser(t, "frank", "frank@example.com", "")
	_, adminTok := ts.registerUser(t, "root", "root@example.com", models.RoleAdmin)
	id := ts.createSet(t, ownerTok, "Owned")

	rec := ts.do(t, http.MethodPatch, "/flashcardSets/"+id, adminTok, map[string]string{"title": "Admin"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied: not your resource", decodeBody(t, rec)["message"])
}

func TestUpdateSet_MissingIs404BeforeOwnership(t *testing.T) {
	ts := newTestServer(t)
	_, tok := ts.registerUser(t, "grace", "grace@example.com", "")

	rec := ts.do(t, http.MethodPatch, "/flashcardSets/no-such-id", tok, map[string]string{"title": "x"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Flashcard set not found", decodeBody(t, rec)["message"])
}

func TestDeleteSet_OwnerAndNotOwner(t *testing.T) {
	ts := newTestServer(t)
	_, ownerTok := ts.registerUser(t, "henry", "henry@example.com", "")
	_, otherTok := ts.registerUser(t, "iris", "iris@example.com", "")
	id := ts.createSet(t, ownerTok, "Doomed")

	rec := ts.do(t, http.MethodDelete, "/flashcardSets/"+id, otherTok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/flashcardSets/"+id, ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Flashcard set deleted successfully", decodeBody(t, rec)["message"])

	rec = ts.do(t, http.MethodGet, "/flashcardSets/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAndGetSets_Public(t *testing.T) {
	ts := newTestServer(t)
	_, tok := ts.registerUser(t, "judy", "judy@example.com", "")
	id := ts.createSet(t, tok, "Public")

	rec := ts.do(t, http.MethodGet, "/flashcardSets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/flashcardSets/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Public", decodeBody(t, rec)["title"])
}
