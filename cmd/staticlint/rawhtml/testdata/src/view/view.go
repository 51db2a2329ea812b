package view

import "html/template"

func style(s string) template.CSS {
	return template.CSS(s)
}
