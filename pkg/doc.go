// Package duplicatescanner provides recursive directory scanning and a
// hash-bucketed registry of files keyed by base filename, so that files
// sharing a name (candidate duplicates) can be listed together ordered by
// modification time, newest first.
//
// # Core API
//
// The main entry points are Registry, which owns all tracked file records,
// and Scanner, which walks directory trees and feeds the registry:
//
//	reg := duplicatescanner.NewRegistry(duplicatescanner.DefaultBucketCount)
//	if err := reg.Initialize(); err != nil {
//		return err
//	}
//	defer reg.Teardown()
//
//	sc := duplicatescanner.NewScanner(reg, duplicatescanner.ScannerOptions{})
//	sc.Scan("/path/to/dir")
//
// # Queries
//
// Look up every record in the bucket a filename hashes to:
//
//	chain, err := reg.Lookup("report.pdf")
//
// Or walk every non-empty bucket in index order:
//
//	reg.EnumerateAll(func(bucket int64, chain []*duplicatescanner.FileRecord) bool {
//		fmt.Printf("bucket %d: %d records\n", bucket, len(chain))
//		return true
//	})
//
// # Note on bucket collisions
//
// Grouping is by hash bucket, not by exact filename: differently named files
// whose names hash to the same bucket share a chain. The registry guarantees
// that same-named files always land in the same chain, not that a chain
// contains only one name. Callers that need exact grouping should compare
// base names when presenting a chain.
//
// # Diagnostics
//
// Enable debug output:
//
//	duplicatescanner.SetDebugFlags("scan,watch")
//	duplicatescanner.SetVerboseLevel(2)
package duplicatescanner
