package duplicatescanner

import (
	"os"
	"strings"
)

// BaseName returns the final path component of path, the part after the last
// separator. A path with no separator is its own base name; an empty path
// maps to a fixed placeholder so it still hashes to a stable bucket.
func BaseName(path string) string {
	if path == "" {
		return unnamedKey
	}
	if idx := strings.LastIndexByte(path, os.PathSeparator); idx != -1 {
		return path[idx+1:]
	}
	return path
}

// hashName computes the FNV-1a hash of name folded into [0, buckets).
// The arithmetic is done in int64 so the multiply overflows the same way for
// every input, and the remainder's absolute value folds the result into the
// bucket range.
func hashName(name string, buckets int64) int64 {
	h := fnvOffsetBasis
	for i := 0; i < len(name); i++ {
		h ^= int64(name[i])
		h *= fnvPrime
	}
	h %= buckets
	if h < 0 {
		h = -h
	}
	return h
}

// BucketFor returns the bucket index the base name of path hashes to, given
// the registry's bucket count.
func BucketFor(path string, buckets int64) int64 {
	return hashName(BaseName(path), buckets)
}
