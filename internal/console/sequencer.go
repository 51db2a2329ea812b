package console

import (
	"context"
	"sync"
)

// Sequencer упорядочивает загрузки одной таблицы: новая загрузка отменяет
// предыдущую, а применить результат может только последняя начатая.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

// Begin начинает загрузку и возвращает её контекст и номер.
func (s *Sequencer) Begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.latest++
	return ctx, s.latest
}

// Finish завершает загрузку ticket. Возвращает false, если после неё была начата другая.
func (s *Sequencer) Finish(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.latest {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}
