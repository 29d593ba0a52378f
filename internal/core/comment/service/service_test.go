package commentapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"welbex/internal/adapters/database"
	commentapp "welbex/internal/core/comment/service"
	"welbex/internal/core/errs"
	"welbex/internal/core/post"
	"welbex/internal/core/user"
	postPort "welbex/internal/ports/post"
	"welbex/internal/testutil"
)

type fixture struct {
	svc    *commentapp.CommentService
	cache  *testutil.MemoryPostCache
	alice  string
	bob    string
	postID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)
	cache := testutil.NewMemoryPostCache()

	users := database.NewUserRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)

	var ids []uuid.UUID
	for _, email := range []string{"alice@x.com", "bob@x.com"} {
		u := &user.User{ID: uuid.Must(uuid.NewV4()), Email: email, PasswordHash: "x"}
		_, err := users.Create(ctx, u)
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	p := &post.Post{ID: uuid.Must(uuid.NewV4()), Title: "t", Content: "c", UserID: ids[0]}
	_, err := postRepo.Create(ctx, p)
	require.NoError(t, err)

	return &fixture{
		svc:    commentapp.NewCommentService(database.NewCommentRepositoryDatabase(db), postRepo, cache, zap.NewNop()),
		cache:  cache,
		alice:  ids[0].String(),
		bob:    ids[1].String(),
		postID: p.ID.String(),
	}
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.CreateComment(context.Background(), f.postID, f.bob, "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Text)
	assert.Equal(t, f.bob, c.UserID)
	assert.Equal(t, f.postID, c.PostID)
	require.NotNil(t, c.User)
	assert.Equal(t, "bob@x.com", c.User.Email)
}

func TestCreateComment_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateComment(ctx, f.postID, f.bob, " ")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.svc.CreateComment(ctx, uuid.Must(uuid.NewV4()).String(), f.bob, "x")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.svc.CreateComment(ctx, "7", f.bob, "x")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateComment_InvalidatesPostCache(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.Set(context.Background(), &postPort.PostDTO{ID: f.postID}, 0))

	_, err := f.svc.CreateComment(context.Background(), f.postID, f.bob, "x")
	require.NoError(t, err)
	assert.False(t, f.cache.Has(f.postID))
}

func TestListComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateComment(ctx, f.postID, f.bob, "first")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.svc.CreateComment(ctx, f.postID, f.alice, "second")
	require.NoError(t, err)

	list, err := f.svc.ListComments(ctx, f.postID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "bob@x.com", list[0].User.Email)
	assert.Equal(t, "second", list[1].Text)

	none, err := f.svc.ListComments(ctx, uuid.Must(uuid.NewV4()).String())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.svc.ListComments(ctx, "abc")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteComment_NonOwnerLooksLikeMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.svc.CreateComment(ctx, f.postID, f.bob, "mine")
	require.NoError(t, err)

	notOwner := f.svc.DeleteComment(ctx, c.ID, f.alice)
	missing := f.svc.DeleteComment(ctx, uuid.Must(uuid.NewV4()).String(), f.alice)
	assert.ErrorIs(t, notOwner, errs.ErrNotFound)
	assert.ErrorIs(t, missing, errs.ErrNotFound)
	assert.Equal(t, errs.Message(missing), errs.Message(notOwner))

	list, err := f.svc.ListComments(ctx, f.postID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "comment is unchanged")

	require.NoError(t, f.svc.DeleteComment(ctx, c.ID, f.bob))
	list, err = f.svc.ListComments(ctx, f.postID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
