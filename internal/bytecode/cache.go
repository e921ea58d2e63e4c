package bytecode

import (
	"sync"

	"github.com/minio/highwayhash"

	"github.com/sunholo/pyzig/internal/errors"
)

// cacheKey is a fixed, arbitrary 32-byte HighwayHash key. It does not need
// to be secret — the hash is used only for content-addressed dedup, not
// authentication — so a compile-time constant key is fine.
var cacheKey = [32]byte{
	'p', 'y', 'z', 'i', 'g', '-', 'b', 'y', 't', 'e', 'c', 'o', 'd', 'e', '-', 'c',
	'a', 'c', 'h', 'e', '-', 'k', 'e', 'y', '-', 'v', '1', '-', '0', '0', '0', '0',
}

// Cache deduplicates compiled Programs by source-literal content hash, so
// that successive eval()/exec() calls on the same string literal share one
// embedded blob (spec.md §4.7). Safe for concurrent use; a single Cache is
// typically shared across one module's code generation pass.
type Cache struct {
	mu    sync.Mutex
	byKey map[uint64]*Program
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{byKey: make(map[uint64]*Program)}
}

// contentHash hashes source with HighwayHash, the fast, collision-resistant
// hash the rest of the pack (viant-linager) already uses for its own
// content-addressed cache keys.
func contentHash(source string) uint64 {
	h, err := highwayhash.New64(cacheKey[:])
	if err != nil {
		panic(err) // cacheKey is a fixed 32-byte constant; this never fails
	}
	_, _ = h.Write([]byte(source))
	return h.Sum64()
}

// CompileCached compiles source if no Program for its content hash has
// been seen yet, otherwise returns the cached Program. The bool result
// reports whether the Program came from cache.
func (c *Cache) CompileCached(source string) (*Program, bool, *errors.Report) {
	key := contentHash(source)
	c.mu.Lock()
	if p, ok := c.byKey[key]; ok {
		c.mu.Unlock()
		return p, true, nil
	}
	c.mu.Unlock()

	p, rep := Compile(source)
	if rep != nil {
		return nil, false, rep
	}
	c.mu.Lock()
	c.byKey[key] = p
	c.mu.Unlock()
	return p, false, nil
}
