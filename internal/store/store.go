// Package store persists users, flashcard sets, and flashcards.
package store

import (
	"context"
	"errors"

	"github.com/flashdeck/flashdeck/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a
	// uniqueness constraint (email, username).
	ErrDuplicate = errors.New("record already exists")
)

// Store is the persistence surface consumed by the auth service and the HTTP
// handlers.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error

	CreateSet(ctx context.Context, s *models.FlashcardSet) error
	GetSet(ctx context.Context, id string) (*models.FlashcardSet, error)
	ListSets(ctx context.Context) ([]models.FlashcardSet, error)
	UpdateSet(ctx context.Context, s *models.FlashcardSet) error
	DeleteSet(ctx context.Context, id string) error

	CreateCard(ctx context.Context, c *models.Flashcard) error
	GetCard(ctx context.Context, id string) (*models.Flashcard, error)
	ListCards(ctx context.Context) ([]models.Flashcard, error)
	ListCardsBySet(ctx context.Context, setID string) ([]models.Flashcard, error)
	UpdateCard(ctx context.Context, c *models.Flashcard) error
	DeleteCard(ctx context.Context, id string) error
}
