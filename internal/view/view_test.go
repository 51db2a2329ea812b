package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBatches(n int) []model.Batch {
	batches := make([]model.Batch, 0, n)
	for i := 1; i <= n; i++ {
		batches = append(batches, model.Batch{
			BatchNumber: i,
			HoleID:      fmt.Sprintf("H%d", i),
			From:        model.NewNumber(float64(i)),
			To:          model.NewNumber(float64(i + 1)),
			Machine:     "M1",
			Status:      model.StatusCorrect,
		})
	}
	return batches
}

func TestBatches_RowCountPerPage(t *testing.T) {
	const total = 4
	for page := 1; page <= total; page++ {
		n := page * 3
		v := Batches(model.Page{Batches: makeBatches(n), TotalPages: total, CurrentPage: page})
		assert.Len(t, v.Rows, n, "страница %d", page)
		assert.Equal(t, PageState{Current: page, Total: total}, v.State)
	}
}

func TestBatchRows_Fields(t *testing.T) {
	rows := BatchRows([]model.Batch{{
		BatchNumber: 42,
		HoleID:      "DDH-7",
		From:        model.NewNumber(10.5),
		To:          model.NewNumber(20),
		Machine:     "M2",
		Status:      model.StatusCorrect,
		Comentarios: "ok",
	}})

	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, 42, r.Number)
	assert.Equal(t, "10.5", r.From)
	assert.Equal(t, "20", r.To)
	assert.Equal(t, "ok", r.Comentarios)
	require.Len(t, r.Actions, 2)
	assert.Equal(t, "/batches/42/preview", r.Actions[0].Href)
	assert.Equal(t, "/batches/42/delete", r.Actions[1].Href)
}

func TestStatusGlyph(t *testing.T) {
	glyph, class := StatusGlyph(model.StatusCorrect)
	assert.Equal(t, GlyphCorrect, glyph)
	assert.Equal(t, ClassStatusCorrect, class)

	for _, s := range []model.Status{model.StatusIncorrect, model.StatusPending, model.StatusInProgress, "", "CORRECT"} {
		glyph, class = StatusGlyph(s)
		assert.Equal(t, GlyphIncorrect, glyph, "статус %q", s)
		assert.Equal(t, ClassStatusIncorrect, class)
	}
}

func TestStatusRows_Placeholders(t *testing.T) {
	rows := StatusRows([]model.Batch{
		{BatchNumber: 1, HoleID: "H1", From: model.NewNumber(0), To: model.NewNumber(3), Machine: "M1"},
		{
			BatchNumber: 2, HoleID: "H2", From: model.NewNumber(3), Machine: "M1",
			MachineValues: &model.MachineValues{HoleID: "H2", From: model.NewNumber(3), To: model.NewNumber(6), Machine: "OREXPLORE"},
		},
		{},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, Fields{HoleID: "-", From: "-", To: "-", Machine: "-"}, rows[0].Machine)
	assert.Equal(t, "0", rows[0].Stored.From)

	assert.Equal(t, "-", rows[1].Stored.To)
	assert.Equal(t, Fields{HoleID: "H2", From: "3", To: "6", Machine: "OREXPLORE"}, rows[1].Machine)
	assert.Equal(t, "/status_checker/2/edit", rows[1].Edit.Href)

	assert.Equal(t, "", rows[2].Number)
	assert.Equal(t, Fields{HoleID: "-", From: "-", To: "-", Machine: "-"}, rows[2].Stored)
}

func TestPagination(t *testing.T) {
	buttons := Pagination(5, 3, BatchesPath)

	require.Len(t, buttons, 5)
	for i, b := range buttons {
		assert.Equal(t, i+1, b.Number)
		assert.Equal(t, fmt.Sprintf("/index/?page=%d", i+1), b.Href)
		if b.Number == 3 {
			assert.True(t, b.Active)
			assert.Equal(t, ClassPageActive, b.Class)
			continue
		}
		assert.False(t, b.Active)
		assert.Equal(t, ClassPageInactive, b.Class)
	}
}

func TestPagination_Empty(t *testing.T) {
	assert.Empty(t, Pagination(0, 1, BatchesPath))
	assert.Empty(t, Pagination(-1, 1, BatchesPath))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 7, ParsePage("7"))
}

func TestModal_OpenResetsPosition(t *testing.T) {
	m := NewModal(ModalAdd)
	m.Position = Position{Left: "10px", Top: "20px", Transform: "none"}

	m.Open()

	assert.True(t, m.Visible)
	assert.True(t, m.Draggable)
	assert.Equal(t, CenteredPosition, m.Position)
	assert.Equal(t, "left: 50%; top: 50%; transform: translate(-50%, -50%);", string(m.Position.Style()))
}

func TestModal_CloseAddClearsForm(t *testing.T) {
	m := NewModal(ModalAdd)
	m.Open()
	m.Form = BatchForm{Machine: "M1", HoleID: "H1", From: "0", To: "10"}
	m.Error = "falló"

	m.Close()

	assert.False(t, m.Visible)
	assert.Equal(t, BatchForm{}, m.Form)
	assert.Empty(t, m.Error)
}

func TestModal_CloseEditKeepsForm(t *testing.T) {
	m := NewModal(ModalEdit)
	m.OpenEdit(model.Batch{BatchNumber: 3, HoleID: "H3"})

	m.Close()

	assert.False(t, m.Visible)
	assert.Equal(t, "H3", m.Form.HoleID)
}

func TestModal_OpenPreviewWithoutImage(t *testing.T) {
	m := NewModal(ModalPreview)

	err := m.OpenPreview("  ")

	assert.ErrorIs(t, err, ErrNoImage)
	assert.Empty(t, m.ImageSrc)
	assert.False(t, m.Visible)
}

func TestModal_OpenPreview(t *testing.T) {
	m := NewModal(ModalPreview)

	require.NoError(t, m.OpenPreview("/media/a.jpg"))

	assert.Equal(t, "/media/a.jpg", m.ImageSrc)
	assert.True(t, m.Visible)
}

func TestFormatMetros(t *testing.T) {
	s := FormatMetros(12345.5)
	assert.True(t, strings.HasSuffix(s, ",50"), s)
	assert.Contains(t, s, "345")
}
