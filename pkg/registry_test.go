package duplicatescanner

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newInitializedRegistry(t *testing.T, buckets int64) *Registry {
	t.Helper()
	reg := NewRegistry(buckets)
	require.NoError(t, reg.Initialize())
	return reg
}

func TestRegisterBeforeInitialize(t *testing.T) {
	reg := NewRegistry(DefaultBucketCount)

	if err := reg.Register("/tmp/a.txt", time.Now()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Register before Initialize: got %v, expected ErrNotInitialized", err)
	}
	if _, err := reg.Lookup("a.txt"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Lookup before Initialize: got %v, expected ErrNotInitialized", err)
	}
	if err := reg.EnumerateAll(func(int64, []*FileRecord) bool { return true }); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("EnumerateAll before Initialize: got %v, expected ErrNotInitialized", err)
	}
	if _, err := reg.Count(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Count before Initialize: got %v, expected ErrNotInitialized", err)
	}
	if err := reg.Teardown(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Teardown before Initialize: got %v, expected ErrNotInitialized", err)
	}
}

func TestInitializeTwice(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)
	if err := reg.Initialize(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Initialize: got %v, expected ErrAlreadyInitialized", err)
	}
}

func TestCountAfterRegistrations(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)

	const n = 100
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/data/file-%03d.bin", i)
		require.NoError(t, reg.Register(path, time.Unix(int64(1000+i), 0)))
	}

	count, err := reg.Count()
	require.NoError(t, err)
	require.Equal(t, int64(n), count)

	// The invariant: count equals the sum of chain lengths
	var sum int
	require.NoError(t, reg.EnumerateAll(func(_ int64, chain []*FileRecord) bool {
		sum += len(chain)
		return true
	}))
	require.Equal(t, n, sum)
}

func TestNewestFirstOrdering(t *testing.T) {
	t.Run("OlderThenNewer", func(t *testing.T) {
		reg := newInitializedRegistry(t, DefaultBucketCount)
		require.NoError(t, reg.Register("/d/a.txt", time.Unix(100, 0)))
		require.NoError(t, reg.Register("/d/sub/a.txt", time.Unix(200, 0)))

		chain, err := reg.Lookup("a.txt")
		require.NoError(t, err)
		require.Len(t, chain, 2)
		require.Equal(t, "/d/sub/a.txt", chain[0].Path)
		require.Equal(t, int64(200), chain[0].Modified.Unix())
		require.Equal(t, int64(100), chain[1].Modified.Unix())
	})

	t.Run("NewerThenOlder", func(t *testing.T) {
		reg := newInitializedRegistry(t, DefaultBucketCount)
		require.NoError(t, reg.Register("/d/sub/a.txt", time.Unix(200, 0)))
		require.NoError(t, reg.Register("/d/a.txt", time.Unix(100, 0)))

		chain, err := reg.Lookup("a.txt")
		require.NoError(t, err)
		require.Len(t, chain, 2)
		require.Equal(t, int64(200), chain[0].Modified.Unix())
		require.Equal(t, int64(100), chain[1].Modified.Unix())
	})

	t.Run("InteriorSplice", func(t *testing.T) {
		reg := newInitializedRegistry(t, DefaultBucketCount)
		require.NoError(t, reg.Register("/1/a.txt", time.Unix(300, 0)))
		require.NoError(t, reg.Register("/2/a.txt", time.Unix(100, 0)))
		require.NoError(t, reg.Register("/3/a.txt", time.Unix(200, 0)))

		chain, err := reg.Lookup("a.txt")
		require.NoError(t, err)
		require.Len(t, chain, 3)
		require.Equal(t, int64(300), chain[0].Modified.Unix())
		require.Equal(t, int64(200), chain[1].Modified.Unix())
		require.Equal(t, int64(100), chain[2].Modified.Unix())
	})
}

func TestTieOrderingPreservesInsertion(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)
	when := time.Unix(500, 0)

	require.NoError(t, reg.Register("/first/a.txt", when))
	require.NoError(t, reg.Register("/second/a.txt", when))
	require.NoError(t, reg.Register("/third/a.txt", when))

	chain, err := reg.Lookup("a.txt")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	require.Equal(t, "/first/a.txt", chain[0].Path)
	require.Equal(t, "/second/a.txt", chain[1].Path)
	require.Equal(t, "/third/a.txt", chain[2].Path)
}

func TestLookupEmptyBucket(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)

	chain, err := reg.Lookup("never-registered.txt")
	if err != nil {
		t.Errorf("Lookup on empty bucket: got error %v, expected nil", err)
	}
	if len(chain) != 0 {
		t.Errorf("Lookup on empty bucket: got %d records, expected 0", len(chain))
	}
}

func TestRegisterPathTooLong(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)

	long := "/" + strings.Repeat("x", MaxPathLen+10)
	err := reg.Register(long, time.Now())

	var tooLong *PathTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("Register with oversized path: got %v, expected PathTooLongError", err)
	}
	if tooLong.Limit != MaxPathLen {
		t.Errorf("PathTooLongError.Limit = %d, expected %d", tooLong.Limit, MaxPathLen)
	}

	count, err := reg.Count()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestEnumerateAllBucketOrder(t *testing.T) {
	// A tiny table forces collisions and makes bucket order observable
	reg := newInitializedRegistry(t, 16)

	names := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}
	for i, name := range names {
		require.NoError(t, reg.Register("/data/"+name, time.Unix(int64(100*i), 0)))
	}

	var buckets []int64
	var total int
	require.NoError(t, reg.EnumerateAll(func(bucket int64, chain []*FileRecord) bool {
		buckets = append(buckets, bucket)
		total += len(chain)
		return true
	}))

	require.Equal(t, len(names), total)
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			t.Errorf("EnumerateAll bucket order violated: %d after %d", buckets[i], buckets[i-1])
		}
	}
}

func TestEnumerateAllDuplicateScenario(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)
	require.NoError(t, reg.Register("/d/a.txt", time.Unix(100, 0)))
	require.NoError(t, reg.Register("/d/sub/a.txt", time.Unix(200, 0)))

	want := BucketFor("a.txt", reg.BucketCount())
	found := false
	require.NoError(t, reg.EnumerateAll(func(bucket int64, chain []*FileRecord) bool {
		if bucket != want {
			return true
		}
		found = true
		require.Len(t, chain, 2)
		require.Equal(t, int64(200), chain[0].Modified.Unix())
		require.Equal(t, int64(100), chain[1].Modified.Unix())
		return false
	}))
	require.True(t, found, "expected the a.txt bucket to be enumerated")
}

func TestTeardownReinitializeRoundTrip(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)
	require.NoError(t, reg.Register("/d/a.txt", time.Unix(100, 0)))

	require.NoError(t, reg.Teardown())

	// A second teardown is an error, reported not fatal
	if err := reg.Teardown(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("double Teardown: got %v, expected ErrNotInitialized", err)
	}

	// Operations between teardown and the next initialize fail
	if err := reg.Register("/d/b.txt", time.Now()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Register after Teardown: got %v, expected ErrNotInitialized", err)
	}

	require.NoError(t, reg.Initialize())

	count, err := reg.Count()
	require.NoError(t, err)
	require.Zero(t, count)

	chain, err := reg.Lookup("a.txt")
	require.NoError(t, err)
	require.Empty(t, chain)
}

func TestRegistryStats(t *testing.T) {
	reg := newInitializedRegistry(t, DefaultBucketCount)
	require.NoError(t, reg.Register("/d/a.txt", time.Unix(100, 0)))
	require.NoError(t, reg.Register("/e/a.txt", time.Unix(200, 0)))
	require.NoError(t, reg.Register("/d/b.txt", time.Unix(300, 0)))

	files, buckets, err := reg.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(3), files)
	require.Equal(t, 2, buckets) // a.txt records share one bucket
}
