package duplicatescanner

import (
	"golang.org/x/sys/unix"
)

// Registry sizing constants
const (
	// DefaultBucketCount is sized so that typical scans stay collision-light
	DefaultBucketCount int64 = 512000
)

// FNV-1a parameters (32-bit variant, widened arithmetic)
const (
	fnvOffsetBasis int64 = 2166136261
	fnvPrime       int64 = 16777619
)

// Path limits, taken from the platform
const (
	// MaxPathLen bounds the full path stored in a FileRecord
	MaxPathLen = unix.PathMax

	// MaxNameLen bounds a single filename token (search prompts etc.)
	MaxNameLen = unix.NAME_MAX
)

// unnamedKey is the placeholder hashed in place of an empty path, so that
// pathless registrations still map to a stable bucket
const unnamedKey = "(unnamed)"

// Symlink handling modes for the Scanner
const (
	SymlinkNone   = "none"   // lstat; symlinks register as plain entries, never followed
	SymlinkFollow = "follow" // stat; directory symlinks are traversed with a cycle guard
)

// Context constants for the bucket directory skiplist
const (
	RegistryContext = "registry"
)
