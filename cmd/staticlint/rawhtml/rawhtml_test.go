package rawhtml_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/Totarae/BatchConsole/cmd/staticlint/rawhtml"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), rawhtml.Analyzer, "a", "view")
}
