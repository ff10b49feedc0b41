package binlayout

import (
	"reflect"
	"sync"
)

// cache is a process-wide, read-mostly, lazily-populated map from
// reflect.Type to a derived value V, guarded by a mutex that only
// serialises the (rare) first-use computation; once a type's value is
// published, later Get calls for it never block on the lock for
// longer than a map read.
type cache[V any] struct {
	compute     func(reflect.Type) V
	onRecursive func(reflect.Type) V

	mu       sync.Mutex
	m        map[reflect.Type]V
	inFlight map[reflect.Type]bool
}

// Init sets the function used to derive a value on first use, and the
// function used to break infinite recursion (a type whose derivation
// recursively asks the cache for itself before the first computation
// finishes).
func (c *cache[V]) Init(compute func(reflect.Type) V, onRecursive func(reflect.Type) V) {
	c.compute = compute
	c.onRecursive = onRecursive
}

// Get returns the cached value for t, computing and publishing it if
// this is the first request for t.
func (c *cache[V]) Get(t reflect.Type) V {
	c.mu.Lock()
	if v, ok := c.m[t]; ok {
		c.mu.Unlock()
		return v
	}
	if c.inFlight[t] {
		c.mu.Unlock()
		return c.onRecursive(t)
	}
	if c.inFlight == nil {
		c.inFlight = map[reflect.Type]bool{}
	}
	c.inFlight[t] = true
	c.mu.Unlock()

	v := c.compute(t)

	c.mu.Lock()
	if c.m == nil {
		c.m = map[reflect.Type]V{}
	}
	c.m[t] = v
	delete(c.inFlight, t)
	c.mu.Unlock()

	return v
}
