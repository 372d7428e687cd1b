package model

import "time"

// Post is a journal entry owned by exactly one User.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`

	// Author is populated by listing queries only.
	Author *User `json:"author,omitempty"`
}
