package workers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"welbex/internal/adapters/database"
	"welbex/internal/core/post"
	"welbex/internal/core/user"
	"welbex/internal/testutil"
)

func TestAttachmentSweeper_RemovesOnlyOldOrphans(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	storage := testutil.NewMemoryStorage()
	postRepo := database.NewPostRepositoryDatabase(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	storage.Now = func() time.Time { return base }
	save := func(name string) string {
		ref, err := storage.Save(ctx, name, strings.NewReader("x"), 1, "image/png")
		require.NoError(t, err)
		return ref
	}
	referenced := save("kept.png")
	orphan := save("orphan.png")
	storage.Now = func() time.Time { return base.Add(23 * time.Hour) }
	fresh := save("fresh.png")

	u := &user.User{ID: uuid.Must(uuid.NewV4()), Email: "a@x.com", PasswordHash: "x"}
	_, err := database.NewUserRepositoryDatabase(db).Create(ctx, u)
	require.NoError(t, err)
	_, err = postRepo.Create(ctx, &post.Post{ID: uuid.Must(uuid.NewV4()), Title: "t", Content: "c", Image: &referenced, UserID: u.ID})
	require.NoError(t, err)

	sweeper := NewAttachmentSweeper(postRepo, storage, time.Hour, 24*time.Hour, zap.NewNop())
	sweeper.now = func() time.Time { return base.Add(25 * time.Hour) }

	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, storage.Has(referenced))
	assert.False(t, storage.Has(orphan))
	assert.True(t, storage.Has(fresh), "files inside the grace period survive")
}

func TestAttachmentSweeper_RunStopsWithContext(t *testing.T) {
	db := testutil.NewDB(t)
	sweeper := NewAttachmentSweeper(database.NewPostRepositoryDatabase(db), testutil.NewMemoryStorage(), time.Millisecond, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestAttachmentSweeper_DisabledReturnsImmediately(t *testing.T) {
	sweeper := NewAttachmentSweeper(nil, nil, 0, time.Hour, zap.NewNop())

	done := make(chan struct{})
	go func() {
		sweeper.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper kept running")
	}
}
