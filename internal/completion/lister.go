package completion

import (
	"fmt"
	"os"
)

// Lister returns the names of the entries of a directory.
type Lister interface {
	List(dir string) ([]string, error)
}

// DirLister lists directories on the local filesystem.
type DirLister struct{}

// List returns every entry name in dir.
func (DirLister) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
