package duplicatescanner

import (
	"fmt"
	"sync"
	"time"
)

// FileRecord is one tracked file: its full path and last-modified timestamp
// at seconds resolution. Records are created by Register, owned exclusively
// by the Registry, immutable after creation, and released only at Teardown.
type FileRecord struct {
	Path     string
	Modified time.Time
}

// Registry is the hash-bucketed file table. Base filenames hash to one of
// bucketCount buckets; each bucket holds a chain of records sorted by
// descending modification time. The registry must be Initialized before use
// and may be torn down and re-initialized; every operation between Teardown
// and the next Initialize fails with ErrNotInitialized.
//
// The zero registry value is unusable; construct with NewRegistry. The mutex
// exists for the watch path, which registers files while the interactive
// loop reads; the synchronous scan path never contends on it.
type Registry struct {
	mu          sync.RWMutex
	bucketCount int64
	chains      map[int64][]*FileRecord
	directory   *bucketDirectory
	count       int64
}

// NewRegistry creates a registry with the given bucket count. Counts below 1
// fall back to DefaultBucketCount. The registry is not yet initialized.
func NewRegistry(buckets int64) *Registry {
	if buckets < 1 {
		buckets = DefaultBucketCount
	}
	return &Registry{
		bucketCount: buckets,
	}
}

// BucketCount returns the fixed number of buckets
func (r *Registry) BucketCount() int64 {
	return r.bucketCount
}

// Initialize allocates the bucket storage and resets the count to zero. It
// must be called exactly once before any other operation; calling it on a
// live registry fails with ErrAlreadyInitialized. After Teardown a fresh
// Initialize is valid.
func (r *Registry) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chains != nil {
		return ErrAlreadyInitialized
	}

	r.chains = make(map[int64][]*FileRecord)
	r.directory = newBucketDirectory(16)
	r.count = 0
	return nil
}

// Register creates a FileRecord for path, hashes its base name into a
// bucket, and splices the record into that bucket's chain preserving the
// newest-first ordering. The timestamp is truncated to seconds resolution.
func (r *Registry) Register(path string, modified time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chains == nil {
		return ErrNotInitialized
	}
	if len(path) > MaxPathLen {
		return &PathTooLongError{Path: path, Limit: MaxPathLen}
	}

	record := &FileRecord{
		Path:     path,
		Modified: modified.Truncate(time.Second),
	}

	bucket := hashName(BaseName(path), r.bucketCount)
	chain := r.chains[bucket]
	if chain == nil {
		r.directory.Insert(bucket)
	}
	r.chains[bucket] = spliceRecord(chain, record)
	r.count++

	if IsDebugEnabled("registry") {
		VerboseLog(3, "Register: %s -> bucket %d (chain length %d)", path, bucket, len(r.chains[bucket]))
	}
	return nil
}

// spliceRecord inserts record into chain before the first existing record
// whose timestamp is strictly older, appending when none is. Equal
// timestamps therefore keep their insertion order.
func spliceRecord(chain []*FileRecord, record *FileRecord) []*FileRecord {
	idx := len(chain)
	for i, existing := range chain {
		if record.Modified.After(existing.Modified) {
			idx = i
			break
		}
	}

	chain = append(chain, nil)
	copy(chain[idx+1:], chain[idx:])
	chain[idx] = record
	return chain
}

// Lookup returns the full chain at the bucket baseName hashes to, newest
// first. An empty bucket yields an empty chain and a nil error. The chain
// may contain differently named files whose names collided into the same
// bucket; see the package documentation.
func (r *Registry) Lookup(baseName string) ([]*FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.chains == nil {
		return nil, ErrNotInitialized
	}

	bucket := hashName(baseName, r.bucketCount)
	chain := r.chains[bucket]
	if len(chain) == 0 {
		return nil, nil
	}

	// Copy the chain header so callers cannot perturb bucket order
	out := make([]*FileRecord, len(chain))
	copy(out, chain)
	return out, nil
}

// EnumerateAll visits every non-empty bucket in ascending bucket-index order
// and passes its chain to fn. Iteration stops early when fn returns false.
// Each call re-walks from the lowest occupied bucket.
func (r *Registry) EnumerateAll(fn func(bucket int64, chain []*FileRecord) bool) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.chains == nil {
		return ErrNotInitialized
	}

	r.directory.ForEach(func(index int64) bool {
		chain := r.chains[index]
		if len(chain) == 0 {
			return true
		}
		out := make([]*FileRecord, len(chain))
		copy(out, chain)
		return fn(index, out)
	})
	return nil
}

// Count returns the running total of registered files. The total always
// equals the sum of chain lengths across all buckets.
func (r *Registry) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.chains == nil {
		return 0, ErrNotInitialized
	}
	return r.count, nil
}

// Stats returns the number of tracked files and of occupied buckets
func (r *Registry) Stats() (files int64, buckets int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.chains == nil {
		return 0, 0, ErrNotInitialized
	}
	return r.count, r.directory.Length(), nil
}

// Teardown releases every record chain and the bucket storage, leaving the
// registry ready for a fresh Initialize. Tearing down a registry that is not
// initialized fails with ErrNotInitialized; callers treat that as a report,
// not a fatal condition.
func (r *Registry) Teardown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chains == nil {
		return ErrNotInitialized
	}

	r.chains = nil
	r.directory = nil
	r.count = 0
	return nil
}

// String describes the registry state for diagnostics
func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.chains == nil {
		return "registry (not initialized)"
	}
	return fmt.Sprintf("registry (%d files, %d/%d buckets occupied)",
		r.count, r.directory.Length(), r.bucketCount)
}
