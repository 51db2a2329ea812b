// Package api обслуживает REST API бэкенда batch.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/service"
	"github.com/Totarae/BatchConsole/internal/storage"
)

const (
	msgNotFound    = "Batch no encontrado"
	msgInternal    = "Error interno del servidor"
	msgInvalidPage = "Página inválida"
	msgInvalidBody = "Cuerpo de la petición inválido"
	maxBodyBytes   = 1 << 20
)

// Handler HTTP-обработчики API.
type Handler struct {
	Service *service.BatchService
	Logger  *zap.Logger
}

// NewHandler создаёт обработчики API.
func NewHandler(svc *service.BatchService, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Logger: logger}
}

// ListBatches GET /api/batches?page=N
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	p, err := h.Service.ListBatches(r.Context(), page)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// StatusCheckerData GET /api/status_checker_data?page=N
func (h *Handler) StatusCheckerData(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	p, err := h.Service.StatusCheckerData(r.Context(), page)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateBatch POST /api/batches
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBatchRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.Service.CreateBatch(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MutationResponse{Success: true, Batch: b})
}

// GetBatch GET /api/batches/{n}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	b, err := h.Service.GetBatch(r.Context(), n)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpdateBatch PUT /api/batches/{n}
func (h *Handler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	var req model.UpdateBatchRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.Service.UpdateBatch(r.Context(), n, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MutationResponse{Success: true, Batch: b})
}

// DeleteBatch DELETE /api/batches/{n}
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteBatch(r.Context(), n); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MutationResponse{Success: true})
}

// Preview GET /api/preview/{n}
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	n, ok := batchNumber(w, r)
	if !ok {
		return
	}
	path, err := h.Service.PreviewPath(r.Context(), n)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PreviewResponse{ImagePath: path})
}

// Metros GET /api/metros_escaneados
func (h *Handler) Metros(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.Metros(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MetrosResponse{Metros: m})
}

// MetrosData GET /api/metros_data
func (h *Handler) MetrosData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.MetrosData(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Health GET /health. Ответ всегда 200, деградация видна в теле.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Health(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: msgNotFound})
	case errors.Is(err, service.ErrInvalidBatch):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
	default:
		h.Logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: msgInternal})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidBody})
		return false
	}
	return true
}

func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidPage})
		return 0, false
	}
	return page, true
}

func batchNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "batchNumber"))
	if err != nil || n < 1 {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: msgNotFound})
		return 0, false
	}
	return n, true
}
