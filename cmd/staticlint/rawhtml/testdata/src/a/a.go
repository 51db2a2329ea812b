package a

import "html/template"

func render(s string) []any {
	return []any{
		template.HTML(s), // want `приведение к template.HTML вне пакета view запрещено`
		template.CSS(s),  // want `приведение к template.CSS вне пакета view запрещено`
		template.HTMLEscapeString(s),
		s,
	}
}
