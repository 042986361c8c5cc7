package oracle

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/spaolacci/murmur3"
)

// CachedOracle wraps an Oracle with a BadgerDB-backed read-through
// cache for ItemsetCount lookups (SPEC_FULL.md DOMAIN STACK). The
// selector re-queries the same candidate itemsets in every round over a
// large lmax / numits lattice; caching
// those exact counts trades disk for the redundant intersection work.
type CachedOracle struct {
	Oracle
	db   *badger.DB
	mu   sync.Mutex
	hits uint64
	miss uint64
}

// OpenCache wraps an Oracle with an on-disk cache rooted at path.
func OpenCache(inner Oracle, path string) (*CachedOracle, error) {
	opts := badger.DefaultOptions(filepath.Clean(path)).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &CachedOracle{Oracle: inner, db: db}, nil
}

func (c *CachedOracle) Close() error { return c.db.Close() }

// Stats returns the number of cache hits and misses observed so far.
func (c *CachedOracle) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.miss
}

// cacheKey canonicalizes values into a murmur3 digest. ItemsetCount
// sorts a copy of the query ascending before calling it, so the same
// itemset always maps to the same key whatever order the caller used.
func cacheKey(values []int) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	h := murmur3.Sum64(buf)
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], h)
	return key[:]
}

// encodeRecord packs count alongside the original values it was counted
// for, so a read can confirm the record actually belongs to the query
// key rather than to some other itemset that happens to share its
// murmur3 digest.
func encodeRecord(values []int, count int) []byte {
	buf := make([]byte, 8+len(values)*8)
	binary.LittleEndian.PutUint64(buf[:8], uint64(count))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8+i*8:], uint64(v))
	}
	return buf
}

// decodeRecord reports the stored count only if the record's embedded
// values match the query's values exactly; any mismatch (wrong length
// or wrong entries) means the digest collided with a different itemset
// and must be treated as a cache miss, not a wrong answer.
func decodeRecord(val []byte, values []int) (count int, match bool) {
	if len(val) != 8+len(values)*8 {
		return 0, false
	}
	for i, v := range values {
		if int(binary.LittleEndian.Uint64(val[8+i*8:])) != v {
			return 0, false
		}
	}
	return int(binary.LittleEndian.Uint64(val[:8])), true
}

func (c *CachedOracle) ItemsetCount(values []int) int {
	values = append([]int(nil), values...)
	sort.Ints(values)
	key := cacheKey(values)

	var cached int
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if n, ok := decodeRecord(val, values); ok {
				cached = n
				found = true
			}
			return nil
		})
	})
	if err == nil && found {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return cached
	}

	count := c.Oracle.ItemsetCount(values)
	c.mu.Lock()
	c.miss++
	c.mu.Unlock()

	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encodeRecord(values, count))
	})
	return count
}
