// Package rawhtml содержит анализатор, который запрещает приводить строки
// к доверенным типам html/template (template.HTML, template.CSS и т.п.)
// за пределами пакета view.
package rawhtml

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer запрещает обход экранирования html/template.
var Analyzer = &analysis.Analyzer{
	Name: "rawhtml",
	Doc:  "запрещает приведение к template.HTML, template.CSS, template.JS и другим доверенным типам вне пакета view",
	Run:  run,
}

// NewAnalyzer возвращает анализатор rawhtml.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

var trusted = map[string]bool{
	"HTML":     true,
	"HTMLAttr": true,
	"CSS":      true,
	"JS":       true,
	"JSStr":    true,
	"URL":      true,
	"Srcset":   true,
}

func allowed(pkg *types.Package) bool {
	return pkg.Name() == "view" || strings.HasSuffix(pkg.Path(), "/internal/view")
}

func run(pass *analysis.Pass) (interface{}, error) {
	if allowed(pass.Pkg) {
		return nil, nil
	}

	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) != 1 {
				return true
			}

			tv, ok := pass.TypesInfo.Types[call.Fun]
			if !ok || !tv.IsType() {
				return true
			}

			named, ok := tv.Type.(*types.Named)
			if !ok {
				return true
			}
			obj := named.Obj()
			if obj.Pkg() != nil && obj.Pkg().Path() == "html/template" && trusted[obj.Name()] {
				pass.Reportf(call.Pos(), "приведение к template.%s вне пакета view запрещено", obj.Name())
			}
			return true
		})
	}
	return nil, nil
}
