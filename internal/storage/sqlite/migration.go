package sqlite

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cristianoliveira/myterm/internal/storage/linecodec"
)

// MigrationStats reports what an import did.
type MigrationStats struct {
	TotalRows    int
	SkippedEmpty int
	Imported     int
}

// ImportHistoryFile copies a newline-delimited history file into an empty
// database. A missing file imports nothing. A database that already holds
// entries is left untouched and ErrNotEmpty is returned, so repeated calls
// are safe.
func ImportHistoryFile(filePath, dbPath string) (MigrationStats, error) {
	stats := MigrationStats{}

	file, err := os.Open(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("migration: open history file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.TotalRows++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			stats.SkippedEmpty++
			continue
		}
		entries = append(entries, linecodec.Decode(line))
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("migration: read history file: %w", err)
	}

	store, err := NewStorage(dbPath)
	if err != nil {
		return stats, err
	}
	defer store.Close()

	existing, err := store.Count()
	if err != nil {
		return stats, err
	}
	if existing > 0 {
		return stats, ErrNotEmpty
	}

	if err := store.Save(entries); err != nil {
		return stats, fmt.Errorf("migration: %w", err)
	}
	stats.Imported = len(entries)
	return stats, nil
}
