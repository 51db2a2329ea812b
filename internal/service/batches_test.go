package service_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/machine"
	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/service"
	"github.com/Totarae/BatchConsole/internal/storage"
)

var shareFS = fstest.MapFS{
	"DDH-001/batch-10/depth.txt":                        {Data: []byte("0\n")},
	"DDH-001/batch-10/sample-1/rec-low-res-thumb-x.jpg": {Data: []byte("jpg")},
}

type brokenShare struct{}

func (brokenShare) Scan(context.Context) ([]machine.Record, error) {
	return nil, errors.New("share offline")
}
func (brokenShare) HasFile(string) bool { return false }

func newService(t *testing.T, share service.Share) *service.BatchService {
	t.Helper()
	store, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	return service.NewBatchService(store, share, zap.NewNop(), "/media/")
}

func create(t *testing.T, s *service.BatchService, hole string, from, to float64) *model.Batch {
	t.Helper()
	b, err := s.CreateBatch(context.Background(), model.CreateBatchRequest{Machine: "M1", HoleID: hole, From: from, To: to})
	require.NoError(t, err)
	return b
}

func TestListBatches_Paging(t *testing.T) {
	s := newService(t, nil)
	for i := 0; i < 45; i++ {
		create(t, s, "H", 0, 1)
	}

	p, err := s.ListBatches(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Batches, service.BatchesPerPage)
	assert.Equal(t, 45, p.Batches[0].BatchNumber)

	p, err = s.ListBatches(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, p.Batches, 5)
	assert.Equal(t, 5, p.Batches[0].BatchNumber)

	p, err = s.ListBatches(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 3, p.CurrentPage)
}

func TestListBatches_Empty(t *testing.T) {
	s := newService(t, nil)

	p, err := s.ListBatches(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, p.Batches)
	assert.Zero(t, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestCreateBatch_Status(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))

	assert.Equal(t, model.StatusCorrect, create(t, s, "DDH-001", 0, 10).Status)
	assert.Equal(t, model.StatusIncorrect, create(t, s, "DDH-404", 0, 10).Status)

	assert.Equal(t, model.StatusCorrect, create(t, newService(t, nil), "X", 0, 1).Status)
	assert.Equal(t, model.StatusPending, create(t, newService(t, brokenShare{}), "X", 0, 1).Status)
}

func TestCreateBatch_Invalid(t *testing.T) {
	s := newService(t, nil)

	_, err := s.CreateBatch(context.Background(), model.CreateBatchRequest{Machine: "M1", HoleID: "  "})
	assert.ErrorIs(t, err, service.ErrInvalidBatch)
}

func TestUpdateBatch(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))
	create(t, s, "DDH-404", 0, 10)

	hole := "DDH-001"
	to := 12.5
	b, err := s.UpdateBatch(context.Background(), 1, model.UpdateBatchRequest{HoleID: &hole, To: &to})
	require.NoError(t, err)
	assert.Equal(t, "DDH-001", b.HoleID)
	assert.Equal(t, model.StatusCorrect, b.Status)
	assert.InDelta(t, 12.5, b.To.Value, 1e-9)
	assert.Equal(t, "M1", b.Machine)

	empty := ""
	_, err = s.UpdateBatch(context.Background(), 1, model.UpdateBatchRequest{Machine: &empty})
	assert.ErrorIs(t, err, service.ErrInvalidBatch)

	_, err = s.UpdateBatch(context.Background(), 7, model.UpdateBatchRequest{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateBatch_TrimsHoleID(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))
	create(t, s, "DDH-404", 0, 10)

	blank := "   "
	_, err := s.UpdateBatch(context.Background(), 1, model.UpdateBatchRequest{HoleID: &blank})
	assert.ErrorIs(t, err, service.ErrInvalidBatch)

	padded := "  DDH-001 "
	b, err := s.UpdateBatch(context.Background(), 1, model.UpdateBatchRequest{HoleID: &padded})
	require.NoError(t, err)
	assert.Equal(t, "DDH-001", b.HoleID)
	assert.Equal(t, model.StatusCorrect, b.Status)
	assert.Equal(t, "  DDH-001 ", padded)
}

func TestStatusCheckerData(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))
	create(t, s, "DDH-001", 0, 10)
	create(t, s, "DDH-404", 0, 10)

	p, err := s.StatusCheckerData(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, p.Batches, 2)

	assert.Nil(t, p.Batches[0].MachineValues)
	require.NotNil(t, p.Batches[1].MachineValues)
	assert.Equal(t, model.DefaultMachine, p.Batches[1].MachineValues.Machine)
	assert.InDelta(t, 10.0, p.Batches[1].MachineValues.To.Value, 1e-9)
}

func TestPreviewPath(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))
	create(t, s, "DDH-001", 0, 10)
	create(t, s, "DDH-001", 10, 20)

	path, err := s.PreviewPath(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "/media/DDH-001/batch-10/sample-1/rec-low-res-thumb-x.jpg", path)

	path, err = s.PreviewPath(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = s.PreviewPath(context.Background(), 3)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteBatch_Renumbers(t *testing.T) {
	s := newService(t, nil)
	create(t, s, "A", 0, 1)
	create(t, s, "B", 0, 1)
	create(t, s, "C", 0, 1)

	require.NoError(t, s.DeleteBatch(context.Background(), 1))

	b, err := s.GetBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "C", b.HoleID)
}

func TestMetros(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))
	create(t, s, "DDH-001", 0, 10.333)
	create(t, s, "DDH-001", 10.333, 12)
	create(t, s, "DDH-404", 0, 100)

	m, err := s.Metros(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 12.0, m, 1e-9)
}

func TestMetrosData(t *testing.T) {
	s := newService(t, nil)
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	s.Now = func() time.Time { return now.Add(-3 * time.Hour) }
	create(t, s, "A", 0, 2)
	s.Now = func() time.Time { return now.AddDate(0, 0, -2) }
	create(t, s, "B", 0, 5)
	s.Now = func() time.Time { return now }

	data, err := s.MetrosData(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Daily, 24)
	assert.Zero(t, data.Daily[10].Metros)
	assert.InDelta(t, 2.0, data.Daily[11].Metros, 1e-9)
	assert.InDelta(t, 2.0, data.Daily[23].Metros, 1e-9)

	require.Len(t, data.Monthly, 30)
	assert.Equal(t, "15/03", data.Monthly[29].Day)
	assert.InDelta(t, 2.0, data.Monthly[29].Metros, 1e-9)
	assert.Equal(t, "13/03", data.Monthly[27].Day)
	assert.InDelta(t, 5.0, data.Monthly[27].Metros, 1e-9)
}

func TestHealth(t *testing.T) {
	s := newService(t, machine.NewShare(shareFS, zap.NewNop()))
	create(t, s, "A", 0, 1)

	h := s.Health(context.Background())
	assert.Equal(t, "healthy", h.Status)
	require.NotNil(t, h.Services["database"].BatchesCount)
	assert.Equal(t, 1, *h.Services["database"].BatchesCount)
	require.NotNil(t, h.Services["machine_share"].BatchesFound)
	assert.Equal(t, 1, *h.Services["machine_share"].BatchesFound)

	h = newService(t, brokenShare{}).Health(context.Background())
	assert.Equal(t, "degraded", h.Status)
	assert.Equal(t, "error", h.Services["machine_share"].Status)
}
