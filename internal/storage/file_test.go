package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/storage"
)

func seed(t *testing.T, s storage.Storage, holes ...string) {
	t.Helper()
	for _, h := range holes {
		_, err := s.Create(context.Background(), model.Batch{HoleID: h, From: model.NewNumber(0), To: model.NewNumber(1)})
		require.NoError(t, err)
	}
}

// Тест нумерации при создании
func TestFileStore_CreateAssignsNextNumber(t *testing.T) {
	s, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)

	seed(t, s, "A", "B")
	b, err := s.Create(context.Background(), model.Batch{HoleID: "C"})
	require.NoError(t, err)
	assert.Equal(t, 3, b.BatchNumber)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

// Тест порядка страниц: новые сверху
func TestFileStore_ListNewestFirst(t *testing.T) {
	s, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	seed(t, s, "A", "B", "C", "D", "E")

	page, err := s.List(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "E", page[0].HoleID)
	assert.Equal(t, "D", page[1].HoleID)

	page, err = s.List(context.Background(), 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "A", page[0].HoleID)
}

// Тест удаления с перенумерацией
func TestFileStore_DeleteRenumbers(t *testing.T) {
	s, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	seed(t, s, "A", "B", "C")

	require.NoError(t, s.Delete(context.Background(), 2))

	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].BatchNumber)
	assert.Equal(t, "A", all[0].HoleID)
	assert.Equal(t, 2, all[1].BatchNumber)
	assert.Equal(t, "C", all[1].HoleID)

	assert.ErrorIs(t, s.Delete(context.Background(), 3), storage.ErrNotFound)
}

func TestFileStore_Update(t *testing.T) {
	s, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	seed(t, s, "A")

	b, err := s.Update(context.Background(), 1, func(b *model.Batch) {
		b.HoleID = "Z"
		b.BatchNumber = 99
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.BatchNumber)

	got, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Z", got.HoleID)

	_, err = s.Update(context.Background(), 5, func(*model.Batch) {})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// Тест сохранения в файл и загрузки обратно
func TestFileStore_PersistAndReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "batches.json")

	s, err := storage.NewFileStore(file, zap.NewNop())
	require.NoError(t, err)
	seed(t, s, "A", "B")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), `    {`)

	reloaded, err := storage.NewFileStore(file, zap.NewNop())
	require.NoError(t, err)
	all, err := reloaded.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.NoError(t, reloaded.Ping(context.Background()))
}

// Тест загрузки файла с нарушенной нумерацией и строковыми числами
func TestFileStore_LoadRenumbers(t *testing.T) {
	file := filepath.Join(t.TempDir(), "batches.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"batch_number": 7, "hole_id": "A", "from": "1.5", "to": 3, "status": "correct"},
		{"batch_number": 3, "hole_id": "B", "from": 0, "to": "", "status": "pending"}
	]`), 0o644))

	s, err := storage.NewFileStore(file, zap.NewNop())
	require.NoError(t, err)

	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].BatchNumber)
	assert.Equal(t, 2, all[1].BatchNumber)
	assert.InDelta(t, 1.5, all[0].From.Value, 1e-9)
	assert.False(t, all[1].To.Valid)
}

func TestFileStore_CorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "batches.json")
	require.NoError(t, os.WriteFile(file, []byte(`{not json`), 0o644))

	_, err := storage.NewFileStore(file, zap.NewNop())
	assert.Error(t, err)
}
