package core

import "strings"

// defaultImportPackages maps import names to PyPI distribution names
// where the two differ. Import-name keys are lowercase.
var defaultImportPackages = map[string]string{
	"cv2":        "opencv-python",
	"yaml":       "PyYAML",
	"bs4":        "beautifulsoup4",
	"skimage":    "scikit-image",
	"sklearn":    "scikit-learn",
	"pil":        "Pillow",
	"pandas":     "pandas",
	"numpy":      "numpy",
	"scipy":      "scipy",
	"matplotlib": "matplotlib",
	"requests":   "requests",
	"flask":      "Flask",
	"django":     "Django",
}

// Mapper translates import names into installable package names. It is
// built once per run from the default table merged with an optional
// user table (user entries win on key collision) and is read-only
// afterwards.
type Mapper struct {
	table map[string]string
}

// NewMapper merges the built-in defaults with a user-supplied table.
// Keys are compared case-insensitively.
func NewMapper(user map[string]string) Mapper {
	table := make(map[string]string, len(defaultImportPackages)+len(user))
	for key, value := range defaultImportPackages {
		table[key] = value
	}
	for key, value := range user {
		table[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return Mapper{table: table}
}

// Resolve returns the installable package name for an import name.
// Lookup order: user entry, default entry, then identity. Total over
// any string input.
func (m Mapper) Resolve(importName string) string {
	if mapped, ok := m.table[strings.ToLower(strings.TrimSpace(importName))]; ok && mapped != "" {
		return mapped
	}
	return strings.TrimSpace(importName)
}
