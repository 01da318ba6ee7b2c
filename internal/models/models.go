package models

import "time"

// Post is a user-authored entry on the board. AuthorID is set once at
// creation and never changes.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	// Author username, populated by joined queries.
	Author string `json:"author,omitempty"`
}

// User is an account record. The password hash is never serialized.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
