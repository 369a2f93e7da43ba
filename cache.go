package equation

import (
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// Cache memoizes parsed expressions by their source text. It is safe for
// concurrent use. Expressions that fail to parse are not cached.
type Cache struct {
	opts  []ParseOption
	exprs sync.Map // uint64 -> *Expr
	n     atomic.Int64
}

// NewCache creates a cache that parses with the given options.
func NewCache(opts ...ParseOption) *Cache {
	return &Cache{opts: opts}
}

// Parse returns the parsed form of src, parsing it only if it is not already
// cached.
func (c *Cache) Parse(src string) (*Expr, error) {
	key := xxh3.HashString(src)
	if v, ok := c.exprs.Load(key); ok {
		if e := v.(*Expr); e.src == src {
			return e, nil
		}
		// Hash collision. Parse without replacing the existing entry.
		return Parse(src, c.opts...)
	}
	e, err := Parse(src, c.opts...)
	if err != nil {
		return nil, err
	}
	if v, loaded := c.exprs.LoadOrStore(key, e); loaded {
		if old := v.(*Expr); old.src == src {
			return old, nil
		}
		return e, nil
	}
	c.n.Add(1)
	return e, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	return int(c.n.Load())
}

// Reset removes all cached expressions.
func (c *Cache) Reset() {
	c.exprs.Range(func(k, _ any) bool {
		if _, ok := c.exprs.LoadAndDelete(k); ok {
			c.n.Add(-1)
		}
		return true
	})
}
