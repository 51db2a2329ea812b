package storage

import (
	"context"
	"errors"

	"github.com/Totarae/BatchConsole/internal/model"
)

// ErrNotFound batch с таким номером нет.
var ErrNotFound = errors.New("batch not found")

// Storage определяет интерфейс хранилища batch.
// Номера batch всегда идут подряд с 1 в порядке добавления.
type Storage interface {
	// List возвращает batch от новых к старым, пропуская первые offset.
	List(ctx context.Context, offset, limit int) ([]model.Batch, error)
	// All возвращает все batch в порядке номеров.
	All(ctx context.Context) ([]model.Batch, error)
	// Get возвращает batch по номеру или ErrNotFound.
	Get(ctx context.Context, batchNumber int) (*model.Batch, error)
	// Create добавляет batch с номером count+1.
	Create(ctx context.Context, b model.Batch) (*model.Batch, error)
	// Update применяет apply к batch под блокировкой и сохраняет результат.
	Update(ctx context.Context, batchNumber int, apply func(*model.Batch)) (*model.Batch, error)
	// Delete удаляет batch и перенумеровывает оставшиеся.
	Delete(ctx context.Context, batchNumber int) error
	// Count количество batch.
	Count(ctx context.Context) (int, error)
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
