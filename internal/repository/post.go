package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/diario/diario/internal/model"
)

// Common errors for post repository operations.
var (
	ErrAuthorNotFound = errors.New("post author not found")
)

// PostFilter defines filters for listing posts.
type PostFilter struct {
	AuthorID string
	Limit    int
}

// CreatePost inserts a new post into the database.
func (r *Repository) CreatePost(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (id, title, content, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAuthorNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// CreatePostsBatch inserts many posts in a single round-trip.
// The whole batch runs in one transaction: either every post is stored or none.
func (r *Repository) CreatePostsBatch(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, post := range posts {
		batch.Queue(
			`INSERT INTO posts (id, title, content, author_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
			post.ID, post.Title, post.Content, post.AuthorID, post.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range posts {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if isForeignKeyViolation(err) {
				return ErrAuthorNotFound
			}
			return fmt.Errorf("failed to insert post batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close post batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit post batch: %w", err)
	}

	return nil
}

// ListPosts retrieves posts with their authors, newest first.
func (r *Repository) ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.author_id, p.created_at,
		       u.id, u.email, u.name, u.bio, u.tags, u.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
	`
	args := []any{}
	argIndex := 1

	if filter.AuthorID != "" {
		query += fmt.Sprintf(" WHERE p.author_id = $%d", argIndex)
		args = append(args, filter.AuthorID)
		argIndex++
	}

	query += " ORDER BY p.created_at DESC, p.id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// CountPostsByAuthor returns the number of posts written by a user.
func (r *Repository) CountPostsByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// scanPostWithAuthor scans a joined posts/users row.
func scanPostWithAuthor(rows pgx.Rows) (*model.Post, error) {
	var post model.Post
	var author model.User
	err := rows.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&post.CreatedAt,
		&author.ID,
		&author.Email,
		&author.Name,
		&author.Bio,
		pq.Array(&author.Tags),
		&author.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if author.Tags == nil {
		author.Tags = []string{}
	}
	post.Author = &author
	return &post, nil
}
