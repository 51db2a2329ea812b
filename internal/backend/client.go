// Package backend содержит HTTP-клиент REST API batch-бэкенда.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Totarae/BatchConsole/internal/model"
	"go.uber.org/zap"
)

// maxBodySize ограничивает размер читаемого ответа.
const maxBodySize = 4 << 20

var (
	// ErrTransport бэкенд недоступен: сеть, таймаут, отмена.
	ErrTransport = errors.New("backend unreachable")
	// ErrMalformed ответ не является ожидаемым JSON.
	ErrMalformed = errors.New("malformed backend response")
	// ErrNotFound бэкенд ответил 404.
	ErrNotFound = errors.New("not found")
)

// APIError логическая ошибка, о которой сообщил бэкенд.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// Is позволяет проверять 404 через errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client обращается к batch-бэкенду.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient создаёт клиент. timeout ограничивает каждый запрос целиком.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListBatches GET /api/batches?page=N.
func (c *Client) ListBatches(ctx context.Context, page int) (*model.Page, error) {
	var p model.Page
	if err := c.do(ctx, http.MethodGet, "/api/batches?page="+strconv.Itoa(page), nil, &p); err != nil {
		return nil, err
	}
	if p.Batches == nil {
		return nil, fmt.Errorf("%w: batches missing", ErrMalformed)
	}
	if p.TotalPages < 0 {
		return nil, fmt.Errorf("%w: total_pages=%d", ErrMalformed, p.TotalPages)
	}
	return &p, nil
}

// StatusCheckerData GET /api/status_checker_data?page=N. Отсутствующий список
// batches трактуется как пустой.
func (c *Client) StatusCheckerData(ctx context.Context, page int) (*model.Page, error) {
	var p model.Page
	if err := c.do(ctx, http.MethodGet, "/api/status_checker_data?page="+strconv.Itoa(page), nil, &p); err != nil {
		return nil, err
	}
	if p.Batches == nil {
		p.Batches = []model.Batch{}
	}
	return &p, nil
}

// Metros GET /api/metros_escaneados.
func (c *Client) Metros(ctx context.Context) (float64, error) {
	var resp model.MetrosResponse
	if err := c.do(ctx, http.MethodGet, "/api/metros_escaneados", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Metros, nil
}

// Preview GET /api/preview/{n}. Пустая строка означает, что изображения нет.
func (c *Client) Preview(ctx context.Context, batchNumber int) (string, error) {
	var resp model.PreviewResponse
	if err := c.do(ctx, http.MethodGet, "/api/preview/"+strconv.Itoa(batchNumber), nil, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.ImagePath), nil
}

// CreateBatch POST /api/batches.
func (c *Client) CreateBatch(ctx context.Context, req model.CreateBatchRequest) error {
	var resp model.MutationResponse
	if err := c.do(ctx, http.MethodPost, "/api/batches", req, &resp); err != nil {
		return err
	}
	return checkMutation(resp)
}

// DeleteBatch DELETE /api/batches/{n}.
func (c *Client) DeleteBatch(ctx context.Context, batchNumber int) error {
	var resp model.MutationResponse
	if err := c.do(ctx, http.MethodDelete, "/api/batches/"+strconv.Itoa(batchNumber), nil, &resp); err != nil {
		return err
	}
	return checkMutation(resp)
}

// GetBatch GET /api/batches/{n}. Если бэкенд не умеет отдавать batch по номеру
// (405 или 404 без тела ошибки), batch ищется по страницам status checker.
func (c *Client) GetBatch(ctx context.Context, batchNumber int) (*model.Batch, error) {
	var b model.Batch
	if err := c.do(ctx, http.MethodGet, "/api/batches/"+strconv.Itoa(batchNumber), nil, &b); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && noGetByID(apiErr) {
			c.logger.Debug("get-by-id unsupported, scanning status checker", zap.Int("batch_number", batchNumber))
			return c.findBatch(ctx, batchNumber)
		}
		return nil, err
	}
	if b.BatchNumber != batchNumber {
		return nil, fmt.Errorf("%w: asked for batch %d, got %d", ErrMalformed, batchNumber, b.BatchNumber)
	}
	return &b, nil
}

func noGetByID(e *APIError) bool {
	return e.Status == http.StatusMethodNotAllowed || (e.Status == http.StatusNotFound && e.Message == "")
}

func (c *Client) findBatch(ctx context.Context, batchNumber int) (*model.Batch, error) {
	for page := 1; ; page++ {
		p, err := c.StatusCheckerData(ctx, page)
		if err != nil {
			return nil, err
		}
		for i := range p.Batches {
			if p.Batches[i].BatchNumber == batchNumber {
				return &p.Batches[i], nil
			}
		}
		// бэкенд прижимает номер страницы к последней
		if page >= p.TotalPages || p.CurrentPage < page {
			return nil, &APIError{Status: http.StatusNotFound}
		}
	}
}

// UpdateBatch PUT /api/batches/{n}.
func (c *Client) UpdateBatch(ctx context.Context, batchNumber int, req model.UpdateBatchRequest) error {
	var resp model.MutationResponse
	if err := c.do(ctx, http.MethodPut, "/api/batches/"+strconv.Itoa(batchNumber), req, &resp); err != nil {
		return err
	}
	return checkMutation(resp)
}

func checkMutation(resp model.MutationResponse) error {
	if !resp.Success {
		return &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformed, method, path, err)
	}
	return nil
}

// errorMessage достаёт текст ошибки из тела ответа, если он там есть.
func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
