// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/diario/diario/internal/cache"
	"github.com/diario/diario/internal/events"
	"github.com/diario/diario/internal/metrics"
	"github.com/diario/diario/internal/model"
	"github.com/diario/diario/internal/repository"
	"github.com/diario/diario/internal/suggest"
)

// Store is the persistence the journal needs.
// *repository.Repository satisfies it.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreatePost(ctx context.Context, post *model.Post) error
	ListPosts(ctx context.Context, filter repository.PostFilter) ([]*model.Post, error)
}

// PostCache caches the unfiltered post listing. InvalidatePosts bumps a
// generation that SetPostsIfVersion checks, so a listing read before a
// write is never stored after it.
// *cache.Cache satisfies it.
type PostCache interface {
	GetPosts(ctx context.Context) ([]*model.Post, error)
	PostsVersion(ctx context.Context) (int64, error)
	SetPostsIfVersion(ctx context.Context, posts []*model.Post, ttl time.Duration, version int64) (bool, error)
	InvalidatePosts(ctx context.Context) error
}

// JournalConfig wires the JournalService dependencies.
// Only Store is required.
type JournalConfig struct {
	Store         Store
	Cache         PostCache
	Generator     suggest.Generator
	Publisher     events.Publisher
	Metrics       metrics.Recorder
	Logger        *slog.Logger
	PostsCacheTTL time.Duration
}

// JournalService handles users, posts and entry suggestions.
type JournalService struct {
	store     Store
	cache     PostCache
	generator suggest.Generator
	publisher events.Publisher
	metrics   metrics.Recorder
	logger    *slog.Logger
	postsTTL  time.Duration
}

// NewJournalService creates a new JournalService.
func NewJournalService(cfg JournalConfig) *JournalService {
	s := &JournalService{
		store:     cfg.Store,
		cache:     cfg.Cache,
		generator: cfg.Generator,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		postsTTL:  cfg.PostsCacheTTL,
	}
	if s.generator == nil {
		s.generator = suggest.NewTemplateGenerator()
	}
	if s.publisher == nil {
		s.publisher = events.NewNoop()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNoop()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "journal")
	return s
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Email string
	Name  string
	Bio   *string
	Tags  []string
}

// CreateUser validates and stores a new user.
func (s *JournalService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	email := strings.TrimSpace(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:        ulid.Make().String(),
		Email:     email,
		Name:      name,
		Bio:       normalizeBio(input.Bio),
		Tags:      tags,
		CreatedAt: now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()
	s.publish(ctx, events.New(events.UserCreated, user.ID, user))

	return user, nil
}

// CreatePostInput defines input for creating a post.
type CreatePostInput struct {
	Title   string
	Content string
	UserID  string
}

// CreatePost stores a new post for an existing user.
func (s *JournalService) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	post := &model.Post{
		ID:        ulid.Make().String(),
		Title:     title,
		Content:   input.Content,
		AuthorID:  userID,
		CreatedAt: now(),
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.metrics.IncPostCreated()

	if s.cache != nil {
		if err := s.cache.InvalidatePosts(ctx); err != nil {
			// The listing TTL bounds staleness.
			s.logger.Warn("post cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	s.publish(ctx, events.New(events.PostCreated, post.ID, post))

	return post, nil
}

// ListPostsInput defines input for listing posts.
type ListPostsInput struct {
	AuthorID string
}

// ListPosts returns posts with their authors, newest first.
// The unfiltered listing is served from cache when possible.
func (s *JournalService) ListPosts(ctx context.Context, input ListPostsInput) ([]*model.Post, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObservePostListDuration(time.Since(start))
	}()

	authorID := strings.TrimSpace(input.AuthorID)
	cacheable := authorID == "" && s.cache != nil

	var version int64
	if cacheable {
		posts, err := s.cache.GetPosts(ctx)
		if err == nil {
			s.metrics.IncPostListCacheHit()
			return posts, nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			s.metrics.IncPostListCacheMiss()
		} else {
			s.logger.Warn("post cache read failed", slog.String("error", err.Error()))
		}

		// Read before the store so a concurrent CreatePost voids our write.
		version, err = s.cache.PostsVersion(ctx)
		if err != nil {
			s.logger.Warn("post cache version read failed", slog.String("error", err.Error()))
			cacheable = false
		}
	}

	posts, err := s.store.ListPosts(ctx, repository.PostFilter{AuthorID: authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	if cacheable {
		stored, err := s.cache.SetPostsIfVersion(ctx, posts, s.postsTTL, version)
		switch {
		case err != nil:
			s.logger.Warn("post cache write failed", slog.String("error", err.Error()))
		case !stored:
			s.logger.Debug("post listing changed during read, not cached")
		}
	}

	return posts, nil
}

// SuggestInput defines input for drafting an entry.
type SuggestInput struct {
	Title  string
	UserID string
}

// Suggest drafts entry text from the title and the user's tags.
// An unknown or missing user contributes no tags.
func (s *JournalService) Suggest(ctx context.Context, input SuggestInput) (string, error) {
	tags := []string{}

	if userID := strings.TrimSpace(input.UserID); userID != "" {
		user, err := s.store.GetUserByID(ctx, userID)
		switch {
		case err == nil:
			tags = user.TagList()
		case errors.Is(err, repository.ErrUserNotFound):
		default:
			return "", fmt.Errorf("failed to load user: %w", err)
		}
	}

	suggestion, err := s.generator.Generate(ctx, input.Title, tags)
	if err != nil {
		return "", fmt.Errorf("failed to generate suggestion: %w", err)
	}

	s.metrics.IncSuggestionGenerated()

	return suggestion, nil
}

// publish sends an event; failures are logged, never returned.
func (s *JournalService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			slog.String("type", string(event.Type)),
			slog.String("key", event.Key),
			slog.String("error", err.Error()),
		)
	}
}

// now returns the current UTC time at the database's microsecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
