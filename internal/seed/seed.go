// Package seed loads the fixture user and post, plus optional fake data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/oklog/ulid/v2"

	"github.com/diario/diario/internal/model"
)

// Fixture data.
const (
	FixtureEmail       = "teste@teste.com"
	FixtureName        = "Usuário de Teste"
	FixturePostTitle   = "Primeira entrada"
	FixturePostContent = "Bem-vindo ao diário!"
)

const (
	maxFakeUsers        = 1000
	maxFakePostsPerUser = 100
)

// FixtureTags are the fixture user's tags.
var FixtureTags = []string{"blog", "diario"}

// Store is the persistence seeding needs. *repository.Repository satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, bool, error)
	CountPostsByAuthor(ctx context.Context, authorID string) (int, error)
	CreatePost(ctx context.Context, post *model.Post) error
	CreatePostsBatch(ctx context.Context, posts []*model.Post) error
}

// Options controls fake data generation.
type Options struct {
	FakeUsers    int
	PostsPerUser int
	// RandSeed makes fake data reproducible; zero seeds from the clock.
	RandSeed int64
	Logger   *slog.Logger
	// Now overrides the clock for tests.
	Now func() time.Time
}

// Result reports what a run wrote.
type Result struct {
	FixtureUserID string
	UsersCreated  int
	PostsCreated  int
}

// Run seeds the database. It is safe to run repeatedly: the fixture user is
// matched by email and its first post is only written when it has none.
func Run(ctx context.Context, store Store, opts Options) (*Result, error) {
	if opts.FakeUsers < 0 || opts.FakeUsers > maxFakeUsers {
		return nil, fmt.Errorf("fake users must be between 0 and %d", maxFakeUsers)
	}
	if opts.PostsPerUser < 0 || opts.PostsPerUser > maxFakePostsPerUser {
		return nil, fmt.Errorf("posts per user must be between 0 and %d", maxFakePostsPerUser)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	result := &Result{}

	fixture, created, err := store.GetOrCreateUser(ctx, &model.User{
		ID:        ulid.Make().String(),
		Email:     FixtureEmail,
		Name:      FixtureName,
		Tags:      append([]string(nil), FixtureTags...),
		CreatedAt: timestamp(opts.Now()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed fixture user: %w", err)
	}
	result.FixtureUserID = fixture.ID
	if created {
		result.UsersCreated++
	}

	count, err := store.CountPostsByAuthor(ctx, fixture.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count fixture posts: %w", err)
	}
	if count == 0 {
		err := store.CreatePost(ctx, &model.Post{
			ID:        ulid.Make().String(),
			Title:     FixturePostTitle,
			Content:   FixturePostContent,
			AuthorID:  fixture.ID,
			CreatedAt: timestamp(opts.Now()),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed fixture post: %w", err)
		}
		result.PostsCreated++
	}

	opts.Logger.Info("fixture seeded",
		slog.String("user_id", fixture.ID),
		slog.Bool("user_created", created),
		slog.Bool("post_created", count == 0),
	)

	if opts.FakeUsers == 0 {
		return result, nil
	}

	if err := seedFake(ctx, store, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

func seedFake(ctx context.Context, store Store, opts Options, result *Result) error {
	randSeed := opts.RandSeed
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	gofakeit.Seed(randSeed)

	now := opts.Now()

	for i := 0; i < opts.FakeUsers; i++ {
		bio := gofakeit.Sentence(8)
		user, created, err := store.GetOrCreateUser(ctx, &model.User{
			ID:        ulid.Make().String(),
			Email:     strings.ToLower(gofakeit.Email()),
			Name:      gofakeit.Name(),
			Bio:       &bio,
			Tags:      fakeTags(),
			CreatedAt: timestamp(now),
		})
		if err != nil {
			return fmt.Errorf("failed to seed fake user %d: %w", i, err)
		}
		if created {
			result.UsersCreated++
		}

		if opts.PostsPerUser == 0 {
			continue
		}

		posts := make([]*model.Post, 0, opts.PostsPerUser)
		for j := 0; j < opts.PostsPerUser; j++ {
			// Spread posts over the last 30 days so listings interleave authors.
			age := time.Duration(gofakeit.Number(0, 30*24*60)) * time.Minute
			posts = append(posts, &model.Post{
				ID:        ulid.Make().String(),
				Title:     strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(2, 6)), "."),
				Content:   gofakeit.Paragraph(gofakeit.Number(1, 3), 3, gofakeit.Number(8, 20), "\n\n"),
				AuthorID:  user.ID,
				CreatedAt: timestamp(now.Add(-age)),
			})
		}

		if err := store.CreatePostsBatch(ctx, posts); err != nil {
			return fmt.Errorf("failed to seed posts for %s: %w", user.ID, err)
		}
		result.PostsCreated += len(posts)
	}

	opts.Logger.Info("fake data seeded",
		slog.Int("users", opts.FakeUsers),
		slog.Int("posts_per_user", opts.PostsPerUser),
		slog.Int64("rand_seed", randSeed),
	)
	return nil
}

// fakeTags returns one to three distinct lowercase words.
func fakeTags() []string {
	n := gofakeit.Number(1, 3)
	seen := make(map[string]bool, n)
	tags := make([]string, 0, n)
	for attempts := 0; len(tags) < n && attempts < 10; attempts++ {
		tag := strings.ToLower(gofakeit.Word())
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
