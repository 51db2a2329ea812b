// Package handlers обслуживает HTTP-страницы консоли.
package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/console"
	"github.com/Totarae/BatchConsole/internal/session"
	"github.com/Totarae/BatchConsole/internal/templates"
	"github.com/Totarae/BatchConsole/internal/view"
)

const (
	titleBatches = "Batches"
	titleStatus  = "Status checker"

	navBatches = "batches"
	navStatus  = "status"
)

// Handler HTTP-обработчики консоли.
type Handler struct {
	Console  *console.Controller
	Renderer *templates.Renderer
	Logger   *zap.Logger
}

// NewHandler создаёт обработчики консоли.
func NewHandler(ctrl *console.Controller, renderer *templates.Renderer, logger *zap.Logger) *Handler {
	return &Handler{
		Console:  ctrl,
		Renderer: renderer,
		Logger:   logger,
	}
}

// Root перенаправляет на страницу batches.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, view.BatchesPath, http.StatusFound)
}

// Index страница batches. Без ?page показывается текущая страница сессии.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	v, err := h.Console.LoadBatches(r.Context(), sid, h.batchesPage(r, sid))
	if errors.Is(err, console.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.renderPage(w, templates.PageIndex, templates.Page{Title: titleBatches, Nav: navBatches, View: v})
}

// StatusChecker страница сверки с данными станка.
func (h *Handler) StatusChecker(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	v, err := h.Console.LoadStatus(r.Context(), sid, h.statusPage(r, sid))
	if errors.Is(err, console.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.renderPage(w, templates.PageStatus, templates.Page{Title: titleStatus, Nav: navStatus, View: v})
}

// BatchesFragment таблица batches с пагинацией без макета страницы.
// Устаревший запрос получает 204, и скрипт страницы его игнорирует.
func (h *Handler) BatchesFragment(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	v, err := h.Console.LoadBatches(r.Context(), sid, h.batchesPage(r, sid))
	if errors.Is(err, console.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.renderFragment(w, templates.PageIndex, templates.FragmentBatches, v)
}

// StatusFragment таблица status checker без макета страницы.
func (h *Handler) StatusFragment(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	v, err := h.Console.LoadStatus(r.Context(), sid, h.statusPage(r, sid))
	if errors.Is(err, console.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.renderFragment(w, templates.PageStatus, templates.FragmentStatus, v)
}

// NewBatch открывает диалог создания.
func (h *Handler) NewBatch(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	h.Console.OpenAdd(sid)
	h.redirectBatches(w, r, sid)
}

// CreateBatch принимает форму создания. При ошибке диалог остаётся открытым
// с введёнными значениями.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}
	sid := session.FromContext(r.Context())
	if err := h.Console.AddBatch(r.Context(), sid, form); err != nil {
		h.Logger.Debug("create batch failed", zap.Error(err))
	}
	h.redirectBatches(w, r, sid)
}

// CloseModal закрывает открытый диалог и возвращает на его страницу.
func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	if h.Console.CloseModal(sid) == view.ModalEdit {
		h.redirectStatus(w, r, sid)
		return
	}
	h.redirectBatches(w, r, sid)
}

// Preview открывает предпросмотр изображения batch.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	sid := session.FromContext(r.Context())
	if err := h.Console.ShowPreview(r.Context(), sid, n); err != nil && !errors.Is(err, view.ErrNoImage) {
		h.Logger.Debug("preview failed", zap.Int("batch", n), zap.Error(err))
	}
	h.redirectBatches(w, r, sid)
}

// ConfirmDelete показывает подтверждение удаления.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	sid := session.FromContext(r.Context())
	h.Console.ConfirmDelete(sid, n)
	h.redirectBatches(w, r, sid)
}

// DeleteBatch удаляет batch. При ошибке страница рисуется из последнего
// состояния сессии, без повторной загрузки.
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	sid := session.FromContext(r.Context())
	if err := h.Console.DeleteBatch(r.Context(), sid, n); err != nil {
		h.renderPage(w, templates.PageIndex, templates.Page{
			Title: titleBatches,
			Nav:   navBatches,
			View:  h.Console.Snapshot(sid),
		})
		return
	}
	h.redirectBatches(w, r, sid)
}

// EditBatch открывает диалог редактирования на странице status checker.
func (h *Handler) EditBatch(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	sid := session.FromContext(r.Context())
	if err := h.Console.OpenEdit(r.Context(), sid, n); err != nil {
		h.Logger.Debug("open edit failed", zap.Int("batch", n), zap.Error(err))
	}
	h.redirectStatus(w, r, sid)
}

// SaveBatch принимает форму редактирования.
func (h *Handler) SaveBatch(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	form, ok := parseForm(w, r)
	if !ok {
		return
	}
	sid := session.FromContext(r.Context())
	if err := h.Console.SaveEdit(r.Context(), sid, n, form); err != nil {
		h.Logger.Debug("save batch failed", zap.Int("batch", n), zap.Error(err))
	}
	h.redirectStatus(w, r, sid)
}

func (h *Handler) batchesPage(r *http.Request, sid string) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		return view.ParsePage(raw)
	}
	batches, _ := h.Console.State(sid)
	return max(batches.Current, 1)
}

func (h *Handler) statusPage(r *http.Request, sid string) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		return view.ParsePage(raw)
	}
	_, status := h.Console.State(sid)
	return max(status.Current, 1)
}

func (h *Handler) redirectBatches(w http.ResponseWriter, r *http.Request, sid string) {
	batches, _ := h.Console.State(sid)
	http.Redirect(w, r, view.PageHref(view.BatchesPath, max(batches.Current, 1)), http.StatusSeeOther)
}

func (h *Handler) redirectStatus(w http.ResponseWriter, r *http.Request, sid string) {
	_, status := h.Console.State(sid)
	http.Redirect(w, r, view.PageHref(view.StatusPath, max(status.Current, 1)), http.StatusSeeOther)
}

// renderPage рисует в буфер, чтобы ошибка шаблона не оставила полстраницы.
func (h *Handler) renderPage(w http.ResponseWriter, name string, data templates.Page) {
	var buf bytes.Buffer
	if err := h.Renderer.Page(&buf, name, data); err != nil {
		h.Logger.Error("render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handler) renderFragment(w http.ResponseWriter, page, block string, data any) {
	var buf bytes.Buffer
	if err := h.Renderer.Fragment(&buf, page, block, data); err != nil {
		h.Logger.Error("render fragment failed", zap.String("block", block), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func batchNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "batchNumber"))
	if err != nil || n < 1 {
		http.Error(w, "Bad Request: invalid batch number", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func parseForm(w http.ResponseWriter, r *http.Request) (view.BatchForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request: invalid form", http.StatusBadRequest)
		return view.BatchForm{}, false
	}
	field := func(name string) string {
		return strings.TrimSpace(r.PostForm.Get(name))
	}
	return view.BatchForm{
		Machine:     field("machine"),
		HoleID:      field("hole_id"),
		From:        field("from"),
		To:          field("to"),
		Comentarios: r.PostForm.Get("comentarios"),
	}, true
}
