package duplicatescanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreManager holds glob patterns for paths the scanner and watcher skip.
// Patterns use doublestar syntax; a pattern without a path separator matches
// against the base name, one with a separator matches against the whole
// slash-normalized path.
type IgnoreManager struct {
	ignorePath string
	patterns   []string
	loaded     bool
}

// NewIgnoreManager creates an ignore manager reading patterns from the given
// file. An empty path means no file: the manager starts with no patterns and
// loading is a no-op.
func NewIgnoreManager(ignorePath string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: ignorePath,
		patterns:   make([]string, 0),
	}
}

// LoadIgnorePatterns loads patterns from the ignore file. Empty lines and
// lines starting with # are skipped; every other line must be a valid
// doublestar pattern.
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded || im.ignorePath == "" {
		im.loaded = true
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !doublestar.ValidatePattern(line) {
			return fmt.Errorf("invalid glob pattern at line %d: %s", lineNum, line)
		}

		im.patterns = append(im.patterns, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	im.loaded = true
	return nil
}

// AddPattern adds a single pattern, validating it first
func (im *IgnoreManager) AddPattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob pattern: %s", pattern)
	}
	im.patterns = append(im.patterns, pattern)
	return nil
}

// ShouldIgnore checks whether path matches any loaded pattern
func (im *IgnoreManager) ShouldIgnore(path string) bool {
	if !im.loaded {
		if err := im.LoadIgnorePatterns(); err != nil {
			return false // don't ignore on load errors
		}
	}

	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)

	for _, pattern := range im.patterns {
		target := normalized
		if !strings.Contains(pattern, "/") {
			target = base
		}
		if matched, err := doublestar.Match(pattern, target); err == nil && matched {
			return true
		}
	}

	return false
}

// HasPatterns returns true if any ignore patterns are loaded
func (im *IgnoreManager) HasPatterns() bool {
	if !im.loaded {
		im.LoadIgnorePatterns()
	}
	return len(im.patterns) > 0
}

// Patterns returns the loaded pattern strings
func (im *IgnoreManager) Patterns() []string {
	if !im.loaded {
		im.LoadIgnorePatterns()
	}
	return im.patterns
}
