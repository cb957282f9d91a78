package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindTraceFiles lists the regular files in dir whose names end with ext
// (case-insensitive). Order is the directory listing order.
func FindTraceFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	ext = strings.ToLower(ext)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
