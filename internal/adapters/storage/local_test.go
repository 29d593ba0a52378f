package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "uploads"), "uploads/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveAndList(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	ref, err := s.Save(ctx, "1-abc.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1-abc.png", ref)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "1-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	objects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, ref, objects[0].Ref)
	assert.False(t, objects[0].ModTime.IsZero())
}

func TestLocalStorage_NeverOverwrites(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "same.png", strings.NewReader("first"), 5, "image/png")
	require.NoError(t, err)
	_, err = s.Save(ctx, "same.png", strings.NewReader("second"), 6, "image/png")
	assert.Error(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "same.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLocalStorage_RejectsPathsOutsideDir(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.png", "sub/dir.png", `win\dir.png`} {
		_, err := s.Save(ctx, name, strings.NewReader("x"), 1, "image/png")
		assert.Error(t, err, name)
	}
}

func TestLocalStorage_Remove(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	ref, err := s.Save(ctx, "gone.mp4", strings.NewReader("v"), 1, "video/mp4")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, ref))
	_, err = os.Stat(filepath.Join(s.Dir(), "gone.mp4"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ctx, ref), "removing twice is not an error")
	assert.NoError(t, s.Remove(ctx, "/elsewhere/gone.mp4"))
	assert.NoError(t, s.Remove(ctx, "/uploads/../config.go"))
}

func TestLocalStorage_ListSkipsDirectories(t *testing.T) {
	s := newLocal(t)
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0o755))

	objects, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)
}
