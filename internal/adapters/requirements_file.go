package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pipdeps/internal/core"
	"pipdeps/internal/ports"
	"pipdeps/internal/types"
)

// RequirementsFileAdapter loads requirements manifests from disk and
// hands their content to the manifest parser.
type RequirementsFileAdapter struct{}

func NewRequirementsFileAdapter() RequirementsFileAdapter {
	return RequirementsFileAdapter{}
}

func (a RequirementsFileAdapter) ReadManifest(path string) ([]types.PackageSpec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("requirements file not readable").
			WithCause(err)
	}
	return core.ParseRequirements(string(content), filepath.Base(path)), nil
}

var _ ports.ManifestPort = RequirementsFileAdapter{}
