package duplicatescanner

import (
	"fmt"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// bucketSlot is the item stored in the bucket directory: one occupied bucket
// index. The record chains themselves live in the registry's bucket map; the
// skiplist only keeps the occupied indices in sorted order so EnumerateAll
// can walk buckets in index order without re-sorting on every call.
type bucketSlot struct {
	Index int64
}

// bucketKey renders a bucket index as a fixed-width decimal key so that
// lexicographic string order matches numeric order.
func bucketKey(index int64) string {
	return fmt.Sprintf("%012d", index)
}

// bucketDirectory wraps the generic zerocopyskiplist as an ordered set of
// occupied bucket indices
type bucketDirectory struct {
	skiplist *zcsl.ZeroCopySkiplist[bucketSlot, string, string]
}

// newBucketDirectory creates an empty bucket directory
func newBucketDirectory(maxLevels int) *bucketDirectory {
	if maxLevels < 8 {
		maxLevels = 16 // reasonable default
	}

	getKeyFromItem := func(slot *bucketSlot) string {
		return bucketKey(slot.Index)
	}

	// Size function for serialization; slots are a single int64
	getItemSize := func(slot *bucketSlot) int {
		return 8
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	skiplist := zcsl.MakeZeroCopySkiplist[bucketSlot, string, string](
		maxLevels,
		getKeyFromItem,
		getItemSize,
		cmpKey,
	)

	return &bucketDirectory{
		skiplist: skiplist,
	}
}

// Insert records a bucket index as occupied. Inserting an index that is
// already present leaves the directory unchanged.
func (bd *bucketDirectory) Insert(index int64) bool {
	if bd.Contains(index) {
		return false
	}
	slot := bucketSlot{Index: index}
	return bd.skiplist.Insert(&slot, RegistryContext)
}

// Contains reports whether the bucket index is recorded as occupied
func (bd *bucketDirectory) Contains(index int64) bool {
	node, _ := bd.skiplist.Find(bucketKey(index))
	return node != nil
}

// ForEach visits every occupied bucket index in ascending order until the
// callback returns false
func (bd *bucketDirectory) ForEach(callback func(index int64) bool) {
	for current := bd.skiplist.First(); current != nil; current = current.Next() {
		slot := current.Item()
		if !callback(slot.Index) {
			break
		}
	}
}

// Length returns the number of occupied buckets
func (bd *bucketDirectory) Length() int {
	return bd.skiplist.Length()
}
