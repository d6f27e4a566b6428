// Package models defines the persisted record types shared by the store and
// HTTP layers. PasswordHash is excluded from JSON so no response can carry it.
package models

import "time"

// Roles embedded in tokens and checked by the authorization middleware.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an identity record. Email is the login key; email and username are
// each unique across all users.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FlashcardSet is a deck owned by a single user.
type FlashcardSet struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Flashcard is a term/definition pair belonging to a set. Ownership is
// transitive through the parent set.
type Flashcard struct {
	ID         string    `json:"id"`
	SetID      string    `json:"setId"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	CreatedAt  time.Time `json:"createdAt"`
}
