// Package testutil provides a migrated SQLite database and an in-memory
// attachment store for tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"welbex/internal/adapters/database"
	"welbex/internal/core/attachment"
)

// NewDB opens a fresh on-disk SQLite database with foreign keys enforced.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type storedFile struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// MemoryStorage keeps files in memory. References are "mem://<name>".
type MemoryStorage struct {
	mu      sync.Mutex
	files   map[string]storedFile
	SaveErr error
	Now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: map[string]storedFile{}, Now: time.Now}
}

func (m *MemoryStorage) Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := "mem://" + name
	m.files[ref] = storedFile{data: data, contentType: contentType, modTime: m.Now()}
	return ref, nil
}

func (m *MemoryStorage) Remove(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	return nil
}

func (m *MemoryStorage) List(ctx context.Context) ([]attachment.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	objects := make([]attachment.Object, 0, len(m.files))
	for ref, f := range m.files {
		objects = append(objects, attachment.Object{Ref: ref, ModTime: f.modTime})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Ref < objects[j].Ref })
	return objects, nil
}

// Has reports whether ref is stored.
func (m *MemoryStorage) Has(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[ref]
	return ok
}

// Content returns the bytes and content type stored under ref.
func (m *MemoryStorage) Content(ref string) ([]byte, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.files[ref]
	return bytes.Clone(f.data), f.contentType
}

func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// Upload builds an in-memory upload.
func Upload(filename, contentType string, data []byte) *attachment.Upload {
	return &attachment.Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}
}
