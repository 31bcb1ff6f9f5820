package ports

// MappingSourcePort loads a user-supplied import-to-package mapping
// table. An empty path yields an empty table.
type MappingSourcePort interface {
	LoadUserMapping(path string) (map[string]string, error)
}
