package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/myterm/internal/storage/linecodec"
)

// FileBackend stores one entry per line in a plain text file. Entries are
// escaped with linecodec so multi-line commands stay on one line. The file
// is rewritten wholesale on every Save through a temp file and rename.
type FileBackend struct {
	path string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates a file backend at path. The file need not exist.
func NewFileBackend(path string) (*FileBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	return &FileBackend{path: path}, nil
}

// Path returns the history file location.
func (f *FileBackend) Path() string { return f.path }

// Name returns "file".
func (f *FileBackend) Name() string { return BackendFile }

// Load reads every non-empty line.
func (f *FileBackend) Load() ([]string, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		entries = append(entries, linecodec.Decode(line))
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read history file: %w", err)
	}
	return entries, nil
}

// Save writes entries, one per line.
func (f *FileBackend) Save(entries []string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	return WithLock(f.path+".lock", func() error {
		tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
		if err != nil {
			return fmt.Errorf("create temp history file: %w", err)
		}
		defer os.Remove(tmp.Name())

		w := bufio.NewWriter(tmp)
		for _, entry := range entries {
			w.WriteString(linecodec.Encode(entry))
			w.WriteByte('\n')
		}
		if err := w.Flush(); err != nil {
			tmp.Close()
			return fmt.Errorf("write history file: %w", err)
		}
		if err := tmp.Chmod(0600); err != nil {
			tmp.Close()
			return fmt.Errorf("chmod history file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close history file: %w", err)
		}
		return os.Rename(tmp.Name(), f.path)
	})
}

// Close is a no-op; the file is only open during Load and Save.
func (f *FileBackend) Close() error { return nil }
