package ports

// ImportExtractorPort produces the top-level module names imported by a
// Python source file, deduplicated in discovery order.
type ImportExtractorPort interface {
	ExtractImports(path string) ([]string, error)
}
