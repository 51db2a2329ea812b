package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/machine"
	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/storage"
)

// Размеры страниц API.
const (
	BatchesPerPage = 20
	StatusPerPage  = 30
)

// ErrInvalidBatch тело запроса не прошло проверку.
var ErrInvalidBatch = errors.New("invalid batch")

// Share источник данных станка.
type Share interface {
	Scan(ctx context.Context) ([]machine.Record, error)
	HasFile(name string) bool
}

// BatchService операции REST API бэкенда.
type BatchService struct {
	Store        storage.Storage
	Share        Share
	Logger       *zap.Logger
	ImageBaseURL string
	Now          func() time.Time
}

// NewBatchService share может быть nil, если каталог станка не смонтирован.
func NewBatchService(store storage.Storage, share Share, logger *zap.Logger, imageBaseURL string) *BatchService {
	return &BatchService{
		Store:        store,
		Share:        share,
		Logger:       logger,
		ImageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		Now:          time.Now,
	}
}

// ListBatches страница batch от новых к старым.
func (s *BatchService) ListBatches(ctx context.Context, page int) (*model.Page, error) {
	return s.page(ctx, page, BatchesPerPage)
}

// StatusCheckerData страница batch с machine_values из share.
func (s *BatchService) StatusCheckerData(ctx context.Context, page int) (*model.Page, error) {
	p, err := s.page(ctx, page, StatusPerPage)
	if err != nil {
		return nil, err
	}
	records := s.scan(ctx)
	for i := range p.Batches {
		if r, ok := machine.Find(records, p.Batches[i].HoleID); ok {
			p.Batches[i].MachineValues = r.Values()
		}
	}
	return p, nil
}

func (s *BatchService) page(ctx context.Context, page, perPage int) (*model.Page, error) {
	count, err := s.Store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count batches: %w", err)
	}
	total := (count + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if total > 0 && page > total {
		page = total
	}

	batches, err := s.Store.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	if batches == nil {
		batches = []model.Batch{}
	}
	return &model.Page{Batches: batches, TotalPages: total, CurrentPage: page}, nil
}

// CreateBatch сохраняет новый batch. Статус определяется по share станка.
func (s *BatchService) CreateBatch(ctx context.Context, req model.CreateBatchRequest) (*model.Batch, error) {
	req.HoleID = strings.TrimSpace(req.HoleID)
	req.Machine = strings.TrimSpace(req.Machine)
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Machine, validation.Required),
		validation.Field(&req.HoleID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}

	b := model.Batch{
		HoleID:      req.HoleID,
		From:        model.NewNumber(req.From),
		To:          model.NewNumber(req.To),
		Machine:     req.Machine,
		Status:      s.checkStatus(ctx, req.HoleID),
		Comentarios: req.Comentarios,
		CreatedAt:   s.Now().Format(time.RFC3339),
	}
	created, err := s.Store.Create(ctx, b)
	if err != nil {
		s.Logger.Error("failed to save batch", zap.String("hole_id", b.HoleID), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// GetBatch batch по номеру.
func (s *BatchService) GetBatch(ctx context.Context, batchNumber int) (*model.Batch, error) {
	return s.Store.Get(ctx, batchNumber)
}

// UpdateBatch меняет переданные поля. Смена hole_id заново сверяет статус.
func (s *BatchService) UpdateBatch(ctx context.Context, batchNumber int, req model.UpdateBatchRequest) (*model.Batch, error) {
	req.HoleID = trimmed(req.HoleID)
	req.Machine = trimmed(req.Machine)
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.HoleID, validation.NilOrNotEmpty),
		validation.Field(&req.Machine, validation.NilOrNotEmpty),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}

	var status model.Status
	if req.HoleID != nil {
		status = s.checkStatus(ctx, *req.HoleID)
	}

	return s.Store.Update(ctx, batchNumber, func(b *model.Batch) {
		if req.HoleID != nil {
			b.HoleID = *req.HoleID
			b.Status = status
		}
		if req.From != nil {
			b.From = model.NewNumber(*req.From)
		}
		if req.To != nil {
			b.To = model.NewNumber(*req.To)
		}
		if req.Machine != nil {
			b.Machine = *req.Machine
		}
		if req.Comentarios != nil {
			b.Comentarios = *req.Comentarios
		}
	})
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// DeleteBatch удаляет batch, оставшиеся перенумеровываются.
func (s *BatchService) DeleteBatch(ctx context.Context, batchNumber int) error {
	return s.Store.Delete(ctx, batchNumber)
}

// PreviewPath ссылка на миниатюру batch. Пустая строка, если изображения нет.
func (s *BatchService) PreviewPath(ctx context.Context, batchNumber int) (string, error) {
	b, err := s.Store.Get(ctx, batchNumber)
	if err != nil {
		return "", err
	}
	if s.ImageBaseURL == "" || b.HoleID == "" || !b.To.Valid {
		return "", nil
	}
	rel := machine.PreviewPath(b.HoleID, b.To)
	if s.Share != nil && !s.Share.HasFile(rel) {
		return "", nil
	}

	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.ImageBaseURL + "/" + strings.Join(segments, "/"), nil
}

// Metros сумма to - from по подтверждённым batch.
func (s *BatchService) Metros(ctx context.Context) (float64, error) {
	batches, err := s.Store.All(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, b := range batches {
		if m, ok := correctMeters(b); ok {
			total += m
		}
	}
	return round2(total), nil
}

// MetrosData накопленные метры по часам за сегодня и по дням за 30 дней.
func (s *BatchService) MetrosData(ctx context.Context) (*model.MetrosData, error) {
	batches, err := s.Store.All(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now()

	var hourly [24]float64
	daily := make(map[string]float64)
	for _, b := range batches {
		m, ok := correctMeters(b)
		if !ok {
			continue
		}
		created, ok := parseCreated(b.CreatedAt, now.Location())
		if !ok {
			continue
		}
		if sameDay(created, now) {
			hourly[created.Hour()] += m
		}
		daily[created.Format("2006-01-02")] += m
	}

	data := &model.MetrosData{
		Daily:   make([]model.HourPoint, 0, 24),
		Monthly: make([]model.DayPoint, 0, 30),
	}
	var acc float64
	for h := 0; h < 24; h++ {
		acc += hourly[h]
		data.Daily = append(data.Daily, model.HourPoint{Hour: h, Metros: round2(acc)})
	}
	for d := 29; d >= 0; d-- {
		day := now.AddDate(0, 0, -d)
		data.Monthly = append(data.Monthly, model.DayPoint{
			Day:    day.Format("02/01"),
			Metros: round2(daily[day.Format("2006-01-02")]),
		})
	}
	return data, nil
}

// Health состояние хранилища и share станка.
func (s *BatchService) Health(ctx context.Context) model.HealthStatus {
	status := model.HealthStatus{
		Status:    "healthy",
		Timestamp: s.Now().Format(time.RFC3339),
		Services:  make(map[string]model.ServiceHealth),
	}

	if count, err := s.Store.Count(ctx); err != nil {
		status.Status = "degraded"
		status.Services["database"] = model.ServiceHealth{Status: "error", Error: err.Error()}
	} else {
		status.Services["database"] = model.ServiceHealth{Status: "ok", BatchesCount: &count}
	}

	switch {
	case s.Share == nil:
		status.Services["machine_share"] = model.ServiceHealth{Status: "disabled"}
	default:
		records, err := s.Share.Scan(ctx)
		if err != nil {
			status.Status = "degraded"
			status.Services["machine_share"] = model.ServiceHealth{Status: "error", Error: err.Error()}
			break
		}
		found := len(records)
		status.Services["machine_share"] = model.ServiceHealth{Status: "ok", BatchesFound: &found}
	}
	return status
}

// Ping проверяет хранилище.
func (s *BatchService) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

// checkStatus без share сверять не с чем, batch считается подтверждённым.
// Если share недоступен, batch ждёт сверки.
func (s *BatchService) checkStatus(ctx context.Context, holeID string) model.Status {
	if s.Share == nil {
		return model.StatusCorrect
	}
	records, err := s.Share.Scan(ctx)
	if err != nil {
		s.Logger.Warn("machine share unavailable", zap.Error(err))
		return model.StatusPending
	}
	if _, ok := machine.Find(records, holeID); ok {
		return model.StatusCorrect
	}
	return model.StatusIncorrect
}

func (s *BatchService) scan(ctx context.Context) []machine.Record {
	if s.Share == nil {
		return nil
	}
	records, err := s.Share.Scan(ctx)
	if err != nil {
		s.Logger.Warn("machine share unavailable", zap.Error(err))
		return nil
	}
	return records
}

func correctMeters(b model.Batch) (float64, bool) {
	if !b.Status.IsCorrect() {
		return 0, false
	}
	return b.Meters()
}

var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// parseCreated понимает и RFC3339, и время без зоны из старых файлов.
func parseCreated(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
