package console

import (
	"sync"
	"time"

	"github.com/Totarae/BatchConsole/internal/view"
)

// sessionState состояние консоли одной вкладки браузера.
type sessionState struct {
	mu sync.Mutex

	batches     view.PageState
	status      view.PageState
	lastBatches []view.BatchRow
	lastStatus  []view.StatusRow
	lastMetros  string

	modal   *view.ModalState
	notices []view.Notice
	seenAt  time.Time

	batchSeq  Sequencer
	statusSeq Sequencer
}

// Методы ниже без суффикса вызываются под s.mu.

func (s *sessionState) pushNotice(level view.NoticeLevel, text string) {
	s.notices = append(s.notices, view.Notice{Level: level, Text: text})
}

func (s *sessionState) popNotices() []view.Notice {
	n := s.notices
	s.notices = nil
	return n
}

func (s *sessionState) visibleModal(kinds ...view.ModalKind) *view.ModalState {
	if s.modal == nil || !s.modal.Visible {
		return nil
	}
	for _, k := range kinds {
		if s.modal.Kind == k {
			m := *s.modal
			return &m
		}
	}
	return nil
}

func (s *sessionState) notify(level view.NoticeLevel, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushNotice(level, text)
}

// failModal оставляет диалог kind открытым с введёнными значениями и ошибкой.
func (s *sessionState) failModal(kind view.ModalKind, form view.BatchForm, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modal == nil || s.modal.Kind != kind || !s.modal.Visible {
		s.modal = view.NewModal(kind)
		s.modal.Open()
	}
	s.modal.Target = form.BatchNumber
	s.modal.Form = form
	s.modal.Error = msg
}
