package view

import (
	"strconv"
)

const (
	ClassPageActive   = "btn btn-primary"
	ClassPageInactive = "btn btn-secondary"
)

// PageState текущая и общая страница одной таблицы.
type PageState struct {
	Current int
	Total   int
}

// PageButton элемент пагинации.
type PageButton struct {
	Number int
	Label  string
	Class  string
	Active bool
	Href   string
}

// Pagination рисует по кнопке на каждую страницу 1..total; кнопка current активна.
// При total <= 0 кнопок нет.
func Pagination(total, current int, basePath string) []PageButton {
	if total <= 0 {
		return nil
	}
	buttons := make([]PageButton, 0, total)
	for i := 1; i <= total; i++ {
		btn := PageButton{
			Number: i,
			Label:  strconv.Itoa(i),
			Class:  ClassPageInactive,
			Href:   PageHref(basePath, i),
		}
		if i == current {
			btn.Class = ClassPageActive
			btn.Active = true
		}
		buttons = append(buttons, btn)
	}
	return buttons
}

// PageHref ссылка на страницу таблицы.
func PageHref(basePath string, page int) string {
	return basePath + "?page=" + strconv.Itoa(page)
}

// ParsePage разбирает номер страницы из запроса; всё некорректное даёт первую страницу.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
