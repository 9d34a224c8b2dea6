package duplicatescanner

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ScannerOptions configures a Scanner. The zero value is usable: symlinks
// are not followed, no ignore patterns apply, the platform path limit is
// enforced, and errors are reported to stderr.
type ScannerOptions struct {
	SymlinkMode string         // SymlinkNone (default) or SymlinkFollow
	Ignore      *IgnoreManager // optional skip patterns
	MaxPathLen  int            // 0 means MaxPathLen from the platform
	Report      func(error)    // diagnostic sink for per-entry errors
}

// Scanner recursively walks directory trees and registers every non-directory
// entry it finds with the Registry. Per-entry errors go to the reporter and
// traversal continues; Scan itself never fails fatally.
type Scanner struct {
	registry    *Registry
	symlinkMode string
	ignore      *IgnoreManager
	maxPathLen  int
	report      func(error)

	// Directories already entered, by device and inode. Only consulted in
	// follow mode, where directory symlinks can otherwise cycle.
	visited map[fileID]bool
}

type fileID struct {
	dev uint64
	ino uint64
}

// NewScanner creates a Scanner feeding the given registry
func NewScanner(registry *Registry, opts ScannerOptions) *Scanner {
	if opts.SymlinkMode == "" {
		opts.SymlinkMode = SymlinkNone
	}
	if opts.MaxPathLen <= 0 {
		opts.MaxPathLen = MaxPathLen
	}
	if opts.Report == nil {
		opts.Report = func(err error) {
			fmt.Fprintf(os.Stderr, "Error: %v -Ignoring-\n", err)
		}
	}
	return &Scanner{
		registry:    registry,
		symlinkMode: opts.SymlinkMode,
		ignore:      opts.Ignore,
		maxPathLen:  opts.MaxPathLen,
		report:      opts.Report,
		visited:     make(map[fileID]bool),
	}
}

// Scan walks path. A directory is descended into; anything else (regular
// files, devices, sockets, fifos) is registered with its modification time.
// Unreadable paths are reported and skipped; siblings keep processing.
func (s *Scanner) Scan(path string) {
	defer VerboseEnter()()
	s.scanPath(path)
}

func (s *Scanner) scanPath(path string) {
	info, err := s.statFor(path)
	if err != nil {
		s.report(&AccessError{Path: path, Err: err})
		return
	}

	if info.IsDir() {
		if s.symlinkMode == SymlinkFollow && s.alreadyVisited(info) {
			VerboseLog(2, "skipping already-visited directory %s", path)
			return
		}
		if IsDebugEnabled("scan") {
			VerboseLog(3, "scanPath: entering directory %s", path)
		}
		s.scanDirectory(path)
		return
	}

	// Non-directory entries of every type register with their mtime
	if err := s.registry.Register(path, info.ModTime()); err != nil {
		s.report(fmt.Errorf("failed to register %s: %w", path, err))
	} else if IsDebugEnabled("scan") {
		VerboseLog(3, "scanPath: registered %s", path)
	}
}

// scanDirectory lists path and recurses on each entry. Entries come back in
// whatever order the directory stream yields them; the chains' timestamp
// ordering never depends on visit order.
func (s *Scanner) scanDirectory(path string) {
	dir, err := os.Open(path)
	if err != nil {
		s.report(&AccessError{Path: path, Err: err})
		return
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		// Keep whatever entries were listed before the failure
		s.report(&AccessError{Path: path, Err: err})
	}

	for _, entry := range entries {
		name := entry.Name()
		joined := filepath.Join(path, name)

		if len(joined) > s.maxPathLen {
			s.report(&PathTooLongError{Path: joined, Limit: s.maxPathLen})
			continue
		}
		if s.ignore != nil && s.ignore.ShouldIgnore(joined) {
			if IsDebugEnabled("scan") {
				VerboseLog(3, "scanDirectory: ignoring %s", joined)
			}
			continue
		}

		s.scanPath(joined)
	}
}

// statFor resolves metadata according to the symlink mode: lstat when links
// are not followed, stat when they are.
func (s *Scanner) statFor(path string) (os.FileInfo, error) {
	if s.symlinkMode == SymlinkFollow {
		return os.Stat(path)
	}
	return os.Lstat(path)
}

// alreadyVisited marks the directory's (device, inode) pair and reports
// whether it was seen before. This is the cycle guard for follow mode.
func (s *Scanner) alreadyVisited(info os.FileInfo) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	id := fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}
	if s.visited[id] {
		return true
	}
	s.visited[id] = true
	return false
}
