package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Totarae/BatchConsole/internal/model"
)

const (
	BatchesPath = "/index/"
	StatusPath  = "/status_checker"
)

// NoticeLevel тип уведомления.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice сообщение пользователю (аналог alert).
type Notice struct {
	Level NoticeLevel
	Text  string
}

// BatchesView модель страницы batches.
type BatchesView struct {
	Rows   []BatchRow
	Pages  []PageButton
	State  PageState
	Metros string
	// Error показывается над таблицей, если страницу загрузить не удалось.
	Error   string
	Notices []Notice
	Modal   *ModalState
}

// StatusView модель страницы status checker.
type StatusView struct {
	Rows    []StatusRow
	Pages   []PageButton
	State   PageState
	Error   string
	Notices []Notice
	Modal   *ModalState
}

// Batches строит модель страницы по ответу бэкенда.
func Batches(p model.Page) BatchesView {
	state := pageState(p)
	return BatchesView{
		Rows:  BatchRows(p.Batches),
		Pages: Pagination(state.Total, state.Current, BatchesPath),
		State: state,
	}
}

// Status строит модель страницы status checker.
func Status(p model.Page) StatusView {
	state := pageState(p)
	return StatusView{
		Rows:  StatusRows(p.Batches),
		Pages: Pagination(state.Total, state.Current, StatusPath),
		State: state,
	}
}

func pageState(p model.Page) PageState {
	return PageState{Current: p.CurrentPage, Total: p.TotalPages}
}

var metrosPrinter = message.NewPrinter(language.Spanish)

// FormatMetros форматирует метры для вывода (испанская локаль, два знака).
func FormatMetros(v float64) string {
	return metrosPrinter.Sprintf("%.2f", v)
}
