package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/model"
)

// FileStore потокобезопасное хранилище batch в памяти с записью в JSON-файл.
// С пустым путём работает только в памяти.
type FileStore struct {
	mu     sync.RWMutex
	data   []model.Batch
	file   string
	logger *zap.Logger
}

var _ Storage = (*FileStore)(nil)

// NewFileStore загружает batch из файла. Отсутствующий файл не ошибка.
func NewFileStore(file string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{file: file, logger: logger}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	if s.file == "" {
		return nil
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Файл ещё не создан, это не ошибка
		}
		return fmt.Errorf("read %s: %w", s.file, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return fmt.Errorf("decode %s: %w", s.file, err)
	}
	// номера в файле могли править руками
	renumber(s.data)

	s.logger.Info("Загружены batch из файла", zap.Int("count", len(s.data)), zap.String("file", s.file))
	return nil
}

// persist переписывает файл целиком через временный файл. Вызывается под s.mu.
func (s *FileStore) persist() error {
	if s.file == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.file), filepath.Base(s.file)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.file)
}

func (s *FileStore) List(_ context.Context, offset, limit int) ([]model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Batch, 0, limit)
	for i := len(s.data) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.data[i])
	}
	return out, nil
}

func (s *FileStore) All(_ context.Context) ([]model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Batch, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *FileStore) Get(_ context.Context, batchNumber int) (*model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index(batchNumber)
	if !ok {
		return nil, ErrNotFound
	}
	b := s.data[i]
	return &b, nil
}

func (s *FileStore) Create(_ context.Context, b model.Batch) (*model.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.BatchNumber = len(s.data) + 1
	b.MachineValues = nil
	s.data = append(s.data, b)
	if err := s.persist(); err != nil {
		s.data = s.data[:len(s.data)-1]
		return nil, err
	}
	return &b, nil
}

func (s *FileStore) Update(_ context.Context, batchNumber int, apply func(*model.Batch)) (*model.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(batchNumber)
	if !ok {
		return nil, ErrNotFound
	}
	prev := s.data[i]
	b := prev
	apply(&b)
	b.BatchNumber = batchNumber
	b.MachineValues = nil

	s.data[i] = b
	if err := s.persist(); err != nil {
		s.data[i] = prev
		return nil, err
	}
	return &b, nil
}

func (s *FileStore) Delete(_ context.Context, batchNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(batchNumber)
	if !ok {
		return ErrNotFound
	}
	prev := s.data
	next := make([]model.Batch, 0, len(s.data)-1)
	next = append(next, s.data[:i]...)
	next = append(next, s.data[i+1:]...)
	renumber(next)

	s.data = next
	if err := s.persist(); err != nil {
		s.data = prev
		return err
	}
	return nil
}

func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// Ping проверяет, что каталог файла доступен.
func (s *FileStore) Ping(_ context.Context) error {
	if s.file == "" {
		return nil
	}
	_, err := os.Stat(filepath.Dir(s.file))
	return err
}

// index позиция batch; номера подряд, поэтому это n-1.
func (s *FileStore) index(batchNumber int) (int, bool) {
	i := batchNumber - 1
	if i < 0 || i >= len(s.data) {
		return 0, false
	}
	return i, true
}

func renumber(batches []model.Batch) {
	for i := range batches {
		batches[i].BatchNumber = i + 1
	}
}
