package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pipdeps/internal/core"
	"pipdeps/internal/ports"
)

// PythonSourceAdapter loads Python files from disk and hands their
// content to the import scanner.
type PythonSourceAdapter struct{}

func NewPythonSourceAdapter() PythonSourceAdapter {
	return PythonSourceAdapter{}
}

func (a PythonSourceAdapter) ExtractImports(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("python file not readable").
			WithCause(err)
	}
	return core.ExtractImports(content, filepath.Base(path))
}

var _ ports.ImportExtractorPort = PythonSourceAdapter{}
