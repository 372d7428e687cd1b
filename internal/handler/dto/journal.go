// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/diario/diario/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Bio   *string  `json:"bio,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// AutocompleteRequest represents the request body for drafting an entry.
type AutocompleteRequest struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostResponse represents a post in API responses.
// Author is set on listings only.
type PostResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	AuthorID  string        `json:"authorId"`
	Author    *UserResponse `json:"author,omitempty"`
}

// AutocompleteResponse carries the drafted entry text.
type AutocompleteResponse struct {
	Suggestion string `json:"suggestion"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ToUserResponse converts a model.User to UserResponse.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Bio:       user.Bio,
		Tags:      user.TagList(),
		CreatedAt: user.CreatedAt,
	}
}

// ToPostResponse converts a model.Post to PostResponse.
func ToPostResponse(post *model.Post) PostResponse {
	resp := PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		AuthorID:  post.AuthorID,
	}
	if post.Author != nil {
		author := ToUserResponse(post.Author)
		resp.Author = &author
	}
	return resp
}

// ToPostListResponse converts posts to responses; the result is never nil.
func ToPostListResponse(posts []*model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, ToPostResponse(post))
	}
	return out
}
