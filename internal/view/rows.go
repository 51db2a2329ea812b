// Package view превращает данные бэкенда в модели представления для шаблонов.
// Функции пакета чистые: ни сети, ни состояния.
package view

import (
	"strconv"

	"github.com/Totarae/BatchConsole/internal/model"
)

const (
	GlyphCorrect   = "✓"
	GlyphIncorrect = "✗"
	// Placeholder выводится вместо отсутствующего значения.
	Placeholder = "-"

	ClassStatusCorrect   = "status-icon status-correct"
	ClassStatusIncorrect = "status-icon status-incorrect"
)

// Action элемент управления в строке таблицы.
type Action struct {
	Label string
	Href  string
	Class string
}

// BatchRow строка основной таблицы batches.
type BatchRow struct {
	Number      int
	HoleID      string
	From        string
	To          string
	Machine     string
	StatusGlyph string
	StatusClass string
	Comentarios string
	Actions     []Action
}

// Fields набор сравниваемых полей для таблицы status checker.
type Fields struct {
	HoleID  string
	From    string
	To      string
	Machine string
}

// StatusRow строка таблицы status checker: сохранённые значения и значения станка рядом.
type StatusRow struct {
	Number  string
	Stored  Fields
	Machine Fields
	Edit    Action
}

// BatchRows строит по строке на каждый batch, сохраняя порядок.
func BatchRows(batches []model.Batch) []BatchRow {
	rows := make([]BatchRow, 0, len(batches))
	for _, b := range batches {
		row := BatchRow{
			Number:      b.BatchNumber,
			HoleID:      b.HoleID,
			From:        b.From.String(),
			To:          b.To.String(),
			Machine:     b.Machine,
			Comentarios: b.Comentarios,
			Actions: []Action{
				{Label: "Ver", Href: batchPath(b.BatchNumber) + "/preview", Class: "btn btn-small"},
				{Label: "Eliminar", Href: batchPath(b.BatchNumber) + "/delete", Class: "btn btn-danger btn-small"},
			},
		}
		row.StatusGlyph, row.StatusClass = StatusGlyph(b.Status)
		rows = append(rows, row)
	}
	return rows
}

// StatusGlyph возвращает значок и css-класс статуса.
func StatusGlyph(s model.Status) (string, string) {
	if s.IsCorrect() {
		return GlyphCorrect, ClassStatusCorrect
	}
	return GlyphIncorrect, ClassStatusIncorrect
}

// StatusRows строит таблицу сравнения. Пустые поля заменяются на Placeholder.
func StatusRows(batches []model.Batch) []StatusRow {
	rows := make([]StatusRow, 0, len(batches))
	for _, b := range batches {
		row := StatusRow{
			Stored: Fields{
				HoleID:  orPlaceholder(b.HoleID),
				From:    orPlaceholder(b.From.String()),
				To:      orPlaceholder(b.To.String()),
				Machine: orPlaceholder(b.Machine),
			},
			Machine: Fields{
				HoleID:  Placeholder,
				From:    Placeholder,
				To:      Placeholder,
				Machine: Placeholder,
			},
			Edit: Action{Label: "✏️", Href: statusPath(b.BatchNumber) + "/edit", Class: "btn btn-small"},
		}
		if b.BatchNumber > 0 {
			row.Number = strconv.Itoa(b.BatchNumber)
		}
		if mv := b.MachineValues; mv != nil {
			row.Machine = Fields{
				HoleID:  orPlaceholder(mv.HoleID),
				From:    orPlaceholder(mv.From.String()),
				To:      orPlaceholder(mv.To.String()),
				Machine: orPlaceholder(mv.Machine),
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func batchPath(n int) string {
	return "/batches/" + strconv.Itoa(n)
}

func statusPath(n int) string {
	return "/status_checker/" + strconv.Itoa(n)
}
