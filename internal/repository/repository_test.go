package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diario/diario/internal/model"
	"github.com/diario/diario/internal/testutil"
)

func TestRepository_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	bio := "escrevo todos os dias"
	user := testutil.NewTestUser(t)
	user.Bio = &bio
	require.NoError(t, repo.CreateUser(ctx, user))

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assertUserEqual(t, user, byID)

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assertUserEqual(t, user, byEmail)

	duplicate := testutil.NewTestUser(t)
	duplicate.Email = user.Email
	if err := repo.CreateUser(ctx, duplicate); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	upper := testutil.NewTestUser(t)
	upper.Email = strings.ToUpper(user.Email)
	assert.ErrorIs(t, repo.CreateUser(ctx, upper), ErrEmailExists)

	byUpper, err := repo.GetUserByEmail(ctx, strings.ToUpper(user.Email))
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUpper.ID)
}

func TestRepository_UserWithoutTagsOrBio(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t)
	user.Tags = nil
	require.NoError(t, repo.CreateUser(ctx, user))

	loaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Bio)
	assert.NotNil(t, loaded.Tags)
	assert.Empty(t, loaded.Tags)
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	_, err := repo.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_GetOrCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t)
	created, isNew, err := repo.GetOrCreateUser(ctx, user)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, user.ID, created.ID)

	again := testutil.NewTestUser(t)
	again.Email = user.Email
	existing, isNew, err := repo.GetOrCreateUser(ctx, again)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, user.ID, existing.ID)
}

func TestRepository_CreatePostAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	author := testutil.NewTestUser(t)
	require.NoError(t, repo.CreateUser(ctx, author))

	older := testutil.NewTestPost(t, author.ID)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	require.NoError(t, repo.CreatePost(ctx, older))

	newer := testutil.NewTestPost(t, author.ID)
	require.NoError(t, repo.CreatePost(ctx, newer))

	posts, err := repo.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, newer.ID, posts[0].ID, "newest post first")
	assert.Equal(t, older.ID, posts[1].ID)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, author.Name, posts[0].Author.Name)
	assert.Equal(t, author.Tags, posts[0].Author.Tags)
	assert.True(t, newer.CreatedAt.Equal(posts[0].CreatedAt))

	limited, err := repo.ListPosts(ctx, PostFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.ID, limited[0].ID)
}

func TestRepository_ListPosts_ByAuthor(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	alice := testutil.NewTestUser(t)
	bob := testutil.NewTestUser(t)
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, bob))

	alicePost := testutil.NewTestPost(t, alice.ID)
	require.NoError(t, repo.CreatePost(ctx, alicePost))
	require.NoError(t, repo.CreatePost(ctx, testutil.NewTestPost(t, bob.ID)))

	posts, err := repo.ListPosts(ctx, PostFilter{AuthorID: alice.ID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, alicePost.ID, posts[0].ID)

	count, err := repo.CountPostsByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepository_ListPosts_Empty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	posts, err := repo.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestRepository_CreatePost_UnknownAuthor(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	err := repo.CreatePost(ctx, testutil.NewTestPost(t, "nobody"))
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestRepository_CreatePostsBatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	author := testutil.NewTestUser(t)
	require.NoError(t, repo.CreateUser(ctx, author))

	batch := make([]*model.Post, 0, 5)
	for i := 0; i < 5; i++ {
		batch = append(batch, testutil.NewTestPost(t, author.ID))
	}
	require.NoError(t, repo.CreatePostsBatch(ctx, batch))
	require.NoError(t, repo.CreatePostsBatch(ctx, nil))

	count, err := repo.CountPostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestRepository_CreatePostsBatch_RollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	author := testutil.NewTestUser(t)
	require.NoError(t, repo.CreateUser(ctx, author))

	batch := []*model.Post{
		testutil.NewTestPost(t, author.ID),
		testutil.NewTestPost(t, "nobody"),
	}
	assert.ErrorIs(t, repo.CreatePostsBatch(ctx, batch), ErrAuthorNotFound)

	count, err := repo.CountPostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func assertUserEqual(t *testing.T, expected, actual *model.User) {
	t.Helper()

	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Email, actual.Email)
	assert.Equal(t, expected.Name, actual.Name)
	assert.Equal(t, expected.Bio, actual.Bio)
	assert.Equal(t, expected.TagList(), actual.Tags)
	assert.True(t, expected.CreatedAt.Equal(actual.CreatedAt), "created_at mismatch: %v vs %v", expected.CreatedAt, actual.CreatedAt)
}
