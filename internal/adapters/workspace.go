package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pipdeps/internal/ports"
	"pipdeps/internal/types"
)

// WorkspaceAdapter expands file and directory arguments into the
// supported input files (.py scripts, .txt manifests). Directories are
// scanned one level deep by default and fully when recursive is set.
type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

func (a WorkspaceAdapter) FindInputs(paths []string, recursive bool) (types.Inputs, error) {
	if len(paths) == 0 {
		return types.Inputs{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one input path is required")
	}

	inputs := types.Inputs{}
	seen := map[string]struct{}{}
	collect := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		switch strings.ToLower(filepath.Ext(abs)) {
		case ".py":
			inputs.Scripts = append(inputs.Scripts, abs)
		case ".txt":
			inputs.Manifests = append(inputs.Manifests, abs)
		default:
			inputs.Invalid = append(inputs.Invalid, abs)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			inputs.Invalid = append(inputs.Invalid, path)
			continue
		}
		if !info.IsDir() {
			collect(path)
			continue
		}
		if err := a.scanDir(path, recursive, collect); err != nil {
			return types.Inputs{}, err
		}
	}

	sort.Strings(inputs.Scripts)
	sort.Strings(inputs.Manifests)
	sort.Strings(inputs.Invalid)
	return inputs, nil
}

func (a WorkspaceAdapter) scanDir(root string, recursive bool, collect func(string)) error {
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read directory").
				WithCause(err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if supportedInput(entry.Name()) {
				collect(filepath.Join(root, entry.Name()))
			}
		}
		return nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if supportedInput(d.Name()) {
			collect(path)
		}
		return nil
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan directory").
			WithCause(err)
	}
	return nil
}

// supportedInput reports whether the file name carries a supported
// extension. Non-matching files inside directories are silently
// ignored; only explicitly named files are reported as invalid.
func supportedInput(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".py", ".txt":
		return true
	default:
		return false
	}
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", ".hg", ".tox", ".venv", "venv", "__pycache__", "node_modules", ".mypy_cache", ".pytest_cache":
		return true
	default:
		return false
	}
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
