// Package memstore provides in-memory fakes of the Postgres repository and
// the Redis post cache for unit tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/diario/diario/internal/cache"
	"github.com/diario/diario/internal/model"
	"github.com/diario/diario/internal/repository"
)

// Store mirrors repository.Repository semantics over maps.
// Set Err to make every call fail with it.
type Store struct {
	mu    sync.Mutex
	users map[string]*model.User
	posts []*model.Post

	Err error
}

// New returns an empty Store.
func New() *Store {
	return &Store{users: make(map[string]*model.User)}
}

// CreateUser stores a user; emails are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

// GetUserByID returns a copy of the user or repository.ErrUserNotFound.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetUserByEmail returns a copy of the user or repository.ErrUserNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.findByEmail(email)
}

// GetOrCreateUser returns the user with the same email, creating it if absent.
func (s *Store) GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}

	if existing, err := s.findByEmail(user.Email); err == nil {
		return existing, false, nil
	}
	s.users[user.ID] = cloneUser(user)
	return cloneUser(user), true, nil
}

func (s *Store) findByEmail(email string) (*model.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreatePost stores a post; the author must exist.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.users[post.AuthorID]; !ok {
		return repository.ErrAuthorNotFound
	}
	s.posts = append(s.posts, clonePost(post))
	return nil
}

// CreatePostsBatch stores all posts or none.
func (s *Store) CreatePostsBatch(ctx context.Context, posts []*model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, post := range posts {
		if _, ok := s.users[post.AuthorID]; !ok {
			return repository.ErrAuthorNotFound
		}
	}
	for _, post := range posts {
		s.posts = append(s.posts, clonePost(post))
	}
	return nil
}

// ListPosts returns posts newest first with their authors attached.
func (s *Store) ListPosts(ctx context.Context, filter repository.PostFilter) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	result := []*model.Post{}
	for _, post := range s.posts {
		if filter.AuthorID != "" && post.AuthorID != filter.AuthorID {
			continue
		}
		p := clonePost(post)
		if author, ok := s.users[p.AuthorID]; ok {
			p.Author = cloneUser(author)
		}
		result = append(result, p)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// CountPostsByAuthor returns the number of posts written by the user.
func (s *Store) CountPostsByAuthor(ctx context.Context, authorID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	n := 0
	for _, post := range s.posts {
		if post.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// Ping reports Err.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// PostCount returns the number of stored posts.
func (s *Store) PostCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// Cache is an in-memory post cache. TTLs are recorded but not enforced.
type Cache struct {
	mu      sync.Mutex
	posts   []*model.Post
	present bool
	version int64

	LastTTL       time.Duration
	Sets          int
	Invalidations int

	// GetErr, SetErr and InvalidateErr are returned by the matching call when set.
	GetErr        error
	SetErr        error
	InvalidateErr error
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// GetPosts returns the cached listing or cache.ErrCacheMiss.
func (c *Cache) GetPosts(ctx context.Context) ([]*model.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	if !c.present {
		return nil, cache.ErrCacheMiss
	}

	out := make([]*model.Post, len(c.posts))
	copy(out, c.posts)
	return out, nil
}

// SetPosts stores the listing.
func (c *Cache) SetPosts(ctx context.Context, posts []*model.Post, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	c.LastTTL = ttl
	if c.SetErr != nil {
		return c.SetErr
	}

	c.posts = make([]*model.Post, len(posts))
	copy(c.posts, posts)
	c.present = true
	return nil
}

// PostsVersion returns the listing generation.
func (c *Cache) PostsVersion(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return 0, c.GetErr
	}
	return c.version, nil
}

// SetPostsIfVersion stores the listing only while the generation equals version.
func (c *Cache) SetPostsIfVersion(ctx context.Context, posts []*model.Post, ttl time.Duration, version int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return false, c.SetErr
	}
	if c.version != version {
		return false, nil
	}

	c.Sets++
	c.LastTTL = ttl
	c.posts = make([]*model.Post, len(posts))
	copy(c.posts, posts)
	c.present = true
	return true, nil
}

// InvalidatePosts bumps the generation and drops the listing.
func (c *Cache) InvalidatePosts(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations++
	if c.InvalidateErr != nil {
		return c.InvalidateErr
	}

	c.version++
	c.posts = nil
	c.present = false
	return nil
}

// Cached reports whether a listing is stored.
func (c *Cache) Cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.present
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Tags = append([]string{}, u.TagList()...)
	if u.Bio != nil {
		bio := *u.Bio
		c.Bio = &bio
	}
	return &c
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Author = nil
	return &c
}
