// Package model defines domain entities for the application.
package model

import "time"

// User is the author of journal entries.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagList returns the user's tags, never nil.
// A nil user yields an empty list.
func (u *User) TagList() []string {
	if u == nil || u.Tags == nil {
		return []string{}
	}
	return u.Tags
}
