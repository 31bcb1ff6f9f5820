package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pipdeps/internal/ports"
)

// MappingFileAdapter loads a user-supplied import-to-package mapping
// from a JSON or YAML file, keyed by file extension.
type MappingFileAdapter struct{}

func NewMappingFileAdapter() MappingFileAdapter {
	return MappingFileAdapter{}
}

func (a MappingFileAdapter) LoadUserMapping(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("mapping file not readable").
			WithCause(err)
	}

	mapping := map[string]string{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(content, &mapping); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("mapping file is not a valid JSON object of strings").
				WithCause(err)
		}
		return mapping, nil
	}
	if err := yaml.Unmarshal(content, &mapping); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("mapping file is not a valid YAML map of strings").
			WithCause(err)
	}
	return mapping, nil
}

var _ ports.MappingSourcePort = MappingFileAdapter{}
