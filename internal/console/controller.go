// Package console содержит контроллер админ-консоли: состояние страниц по сессиям,
// загрузку таблиц и обработку действий пользователя.
package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Totarae/BatchConsole/internal/backend"
	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/view"
)

//go:generate mockgen -destination=mocks/batchapi.go -package=mocks . BatchAPI

// BatchAPI операции бэкенда, которые использует консоль.
type BatchAPI interface {
	ListBatches(ctx context.Context, page int) (*model.Page, error)
	StatusCheckerData(ctx context.Context, page int) (*model.Page, error)
	Metros(ctx context.Context) (float64, error)
	Preview(ctx context.Context, batchNumber int) (string, error)
	CreateBatch(ctx context.Context, req model.CreateBatchRequest) error
	DeleteBatch(ctx context.Context, batchNumber int) error
	GetBatch(ctx context.Context, batchNumber int) (*model.Batch, error)
	UpdateBatch(ctx context.Context, batchNumber int, req model.UpdateBatchRequest) error
}

var _ BatchAPI = (*backend.Client)(nil)

// Controller владеет состоянием страниц всех сессий.
type Controller struct {
	api      BatchAPI
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewController создаёт контроллер поверх клиента бэкенда.
func NewController(api BatchAPI, logger *zap.Logger) *Controller {
	return &Controller{
		api:      api,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*sessionState),
	}
}

func (c *Controller) session(id string) *sessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		s = &sessionState{}
		c.sessions[id] = s
	}
	s.seenAt = c.now()
	return s
}

// Prune удаляет сессии, не появлявшиеся дольше maxIdle. Возвращает число удалённых.
func (c *Controller) Prune(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.now().Add(-maxIdle)
	removed := 0
	for id, s := range c.sessions {
		if s.seenAt.Before(deadline) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

// LoadBatches загружает страницу batches и метры. Ошибка загрузки не возвращается,
// а попадает в view.Error; таблица при этом остаётся прежней.
// Единственная возвращаемая ошибка ErrSuperseded.
func (c *Controller) LoadBatches(ctx context.Context, sid string, page int) (view.BatchesView, error) {
	if page < 1 {
		page = 1
	}
	s := c.session(sid)
	fetchCtx, ticket := s.batchSeq.Begin(ctx)

	var (
		p         *model.Page
		metros    float64
		metrosErr error
	)
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		var err error
		p, err = c.api.ListBatches(gctx, page)
		return err
	})
	g.Go(func() error {
		metros, metrosErr = c.api.Metros(gctx)
		return nil
	})
	err := g.Wait()

	if !s.batchSeq.Finish(ticket) {
		return view.BatchesView{}, ErrSuperseded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var v view.BatchesView
	if err != nil {
		c.logger.Error("load batches failed", zap.Int("page", page), zap.Error(err))
		v = view.BatchesView{
			Rows:   s.lastBatches,
			Pages:  view.Pagination(s.batches.Total, s.batches.Current, view.BatchesPath),
			State:  s.batches,
			Metros: s.lastMetros,
			Error:  describe(err),
		}
	} else {
		if p.CurrentPage == 0 {
			p.CurrentPage = page
		}
		v = view.Batches(*p)
		s.batches = v.State
		s.lastBatches = v.Rows

		if metrosErr != nil {
			c.logger.Warn("load metros failed", zap.Error(metrosErr))
		} else {
			s.lastMetros = view.FormatMetros(metros)
		}
		v.Metros = s.lastMetros
	}
	v.Notices = s.popNotices()
	v.Modal = s.visibleModal(view.ModalAdd, view.ModalPreview, view.ModalDelete)
	return v, nil
}

// Snapshot возвращает последнюю отрисованную страницу batches без обращения к бэкенду.
func (c *Controller) Snapshot(sid string) view.BatchesView {
	s := c.session(sid)
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.BatchesView{
		Rows:    s.lastBatches,
		Pages:   view.Pagination(s.batches.Total, s.batches.Current, view.BatchesPath),
		State:   s.batches,
		Metros:  s.lastMetros,
		Notices: s.popNotices(),
		Modal:   s.visibleModal(view.ModalAdd, view.ModalPreview, view.ModalDelete),
	}
}

// LoadStatus загружает страницу status checker.
func (c *Controller) LoadStatus(ctx context.Context, sid string, page int) (view.StatusView, error) {
	if page < 1 {
		page = 1
	}
	s := c.session(sid)
	fetchCtx, ticket := s.statusSeq.Begin(ctx)

	p, err := c.api.StatusCheckerData(fetchCtx, page)

	if !s.statusSeq.Finish(ticket) {
		return view.StatusView{}, ErrSuperseded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var v view.StatusView
	if err != nil {
		c.logger.Error("load status checker failed", zap.Int("page", page), zap.Error(err))
		v = view.StatusView{
			Rows:  s.lastStatus,
			Pages: view.Pagination(s.status.Total, s.status.Current, view.StatusPath),
			State: s.status,
			Error: describe(err),
		}
	} else {
		if p.CurrentPage == 0 {
			p.CurrentPage = page
		}
		v = view.Status(*p)
		s.status = v.State
		s.lastStatus = v.Rows
	}
	v.Notices = s.popNotices()
	v.Modal = s.visibleModal(view.ModalEdit)
	return v, nil
}

// State текущее состояние страниц сессии.
func (c *Controller) State(sid string) (batches, status view.PageState) {
	s := c.session(sid)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, s.status
}

// Modal возвращает копию открытого диалога сессии или nil.
func (c *Controller) Modal(sid string) *view.ModalState {
	s := c.session(sid)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleModal(view.ModalAdd, view.ModalPreview, view.ModalDelete, view.ModalEdit)
}

// OpenAdd открывает диалог создания batch.
func (c *Controller) OpenAdd(sid string) {
	s := c.session(sid)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modal == nil || s.modal.Kind != view.ModalAdd {
		s.modal = view.NewModal(view.ModalAdd)
	}
	s.modal.Open()
}

// CloseModal закрывает открытый диалог и возвращает его тип.
func (c *Controller) CloseModal(sid string) view.ModalKind {
	s := c.session(sid)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modal == nil {
		return ""
	}
	s.modal.Close()
	return s.modal.Kind
}

// AddBatch отправляет форму создания. При успехе диалог закрывается, а сессия
// переходит на первую страницу.
func (c *Controller) AddBatch(ctx context.Context, sid string, form view.BatchForm) error {
	s := c.session(sid)

	req, err := createRequest(form)
	if err == nil {
		err = c.api.CreateBatch(ctx, req)
	}
	if err != nil {
		c.logger.Info("create batch rejected", zap.Error(err))
		s.failModal(view.ModalAdd, form, describe(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal != nil && s.modal.Kind == view.ModalAdd {
		s.modal.Close()
	}
	s.batches.Current = 1
	return nil
}

// ShowPreview открывает предпросмотр batch. Если изображения нет, вместо диалога
// пользователь получает уведомление.
func (c *Controller) ShowPreview(ctx context.Context, sid string, batchNumber int) error {
	s := c.session(sid)

	src, err := c.api.Preview(ctx, batchNumber)
	if err != nil {
		c.logger.Warn("preview failed", zap.Int("batch", batchNumber), zap.Error(err))
		s.notify(view.NoticeError, describe(err))
		return err
	}

	m := view.NewModal(view.ModalPreview)
	m.Target = batchNumber
	if err := m.OpenPreview(src); err != nil {
		s.notify(view.NoticeInfo, msgNoImage)
		return err
	}

	s.mu.Lock()
	s.modal = m
	s.mu.Unlock()
	return nil
}

// ConfirmDelete показывает подтверждение удаления.
func (c *Controller) ConfirmDelete(sid string, batchNumber int) {
	s := c.session(sid)
	m := view.NewModal(view.ModalDelete)
	m.OpenDelete(batchNumber)

	s.mu.Lock()
	s.modal = m
	s.mu.Unlock()
}

// DeleteBatch удаляет batch после подтверждения. При успехе сессия переходит на
// первую страницу; при ошибке страница не перезагружается, а пользователь видит
// текст ошибки бэкенда.
func (c *Controller) DeleteBatch(ctx context.Context, sid string, batchNumber int) error {
	s := c.session(sid)
	err := c.api.DeleteBatch(ctx, batchNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modal != nil && s.modal.Kind == view.ModalDelete {
		s.modal.Close()
	}
	if err != nil {
		c.logger.Warn("delete batch failed", zap.Int("batch", batchNumber), zap.Error(err))
		s.pushNotice(view.NoticeError, msgDeleteError+describe(err))
		return err
	}
	s.pushNotice(view.NoticeSuccess, msgDeleted)
	s.batches.Current = 1
	return nil
}

// OpenEdit находит batch по номеру и открывает диалог редактирования.
func (c *Controller) OpenEdit(ctx context.Context, sid string, batchNumber int) error {
	s := c.session(sid)

	b, err := c.api.GetBatch(ctx, batchNumber)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			s.notify(view.NoticeError, msgNotFound)
		} else {
			s.notify(view.NoticeError, describe(err))
		}
		return err
	}

	m := view.NewModal(view.ModalEdit)
	m.OpenEdit(*b)

	s.mu.Lock()
	s.modal = m
	s.mu.Unlock()
	return nil
}

// SaveEdit отправляет изменения batch.
func (c *Controller) SaveEdit(ctx context.Context, sid string, batchNumber int, form view.BatchForm) error {
	s := c.session(sid)
	form.BatchNumber = batchNumber

	req, err := updateRequest(form)
	if err == nil {
		err = c.api.UpdateBatch(ctx, batchNumber, req)
	}
	if err != nil {
		c.logger.Info("update batch rejected", zap.Int("batch", batchNumber), zap.Error(err))
		s.failModal(view.ModalEdit, form, describe(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal != nil && s.modal.Kind == view.ModalEdit {
		s.modal.Close()
	}
	s.pushNotice(view.NoticeSuccess, msgUpdated)
	return nil
}
