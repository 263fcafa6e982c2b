// Package cache implements metricd's value cache (§4.5): the per-identity
// store of last-seen values, used to convert Derive/Counter/Absolute
// samples into per-second rates and to answer "what is the current value
// of X" queries without re-reading from a collector.
//
// It generalizes the per-identifier state-plus-mutex pattern the teacher's
// export package uses for its expvar-backed Gauge/Derive types (a map
// keyed by identifier string, guarded by a lock, one entry per metric) to
// the richer per-identity record metricd's dispatcher needs: raw values
// for wraparound-aware rate conversion, metadata, a hit counter and TTL
// expiry.
package cache // import "metricd.example.org/cache"

import (
	"math"
	"sync"
	"time"

	"metricd.example.org/api"
	"metricd.example.org/meta"
)

// DefaultTTLFactor is the default multiple of an entry's last-seen
// interval after which it is eligible for expiry.
const DefaultTTLFactor = 10

// entry holds the cached state for one metric identity. Every field is
// guarded by mu, not by the outer Cache lock, so rate computation for one
// identity never blocks lookups of another.
type entry struct {
	mu sync.Mutex

	lastTime     time.Time
	lastInterval time.Duration

	// lastValues holds the most recently computed, rate-converted values:
	// Gauge values are stored as-is, Derive/Counter/Absolute are replaced
	// by the computed rate as a Gauge.
	lastValues []api.Value

	// rawValues/rawTime hold the previous sample's untouched values, used
	// to compute the next rate.
	rawValues []api.Value
	rawTime   time.Time

	metaMap meta.Data
	hits    uint64
}

// Cache is metricd's value cache. The zero value is ready to use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

func (c *Cache) entryFor(id api.Identifier, create bool) *entry {
	key := id.String()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok || !create {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e
	}
	if c.entries == nil {
		c.entries = make(map[string]*entry)
	}
	e = &entry{}
	c.entries[key] = e
	return e
}

// Update folds vl into the cache, computing rate-converted values for
// Derive/Counter/Absolute sources relative to the previous sample. It
// returns the rate-converted values in the same order as vl.Values.
func (c *Cache) Update(vl *api.ValueList) []api.Value {
	e := c.entryFor(vl.Identifier, true)

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]api.Value, len(vl.Values))
	havePrev := !e.rawTime.IsZero()

	for i, v := range vl.Values {
		switch v := v.(type) {
		case api.Gauge:
			out[i] = v
		case api.Derive:
			if havePrev && i < len(e.rawValues) {
				if prev, ok := e.rawValues[i].(api.Derive); ok {
					out[i] = deriveRate(prev, v, vl.Time.Sub(e.rawTime))
					break
				}
			}
			out[i] = api.Gauge(math.NaN())
		case api.Counter:
			if havePrev && i < len(e.rawValues) {
				if prev, ok := e.rawValues[i].(api.Counter); ok {
					out[i] = counterRate(prev, v, vl.Time.Sub(e.rawTime))
					break
				}
			}
			out[i] = api.Gauge(math.NaN())
		case api.Absolute:
			out[i] = absoluteRate(v, vl.Interval)
		default:
			out[i] = api.Gauge(math.NaN())
		}
	}

	e.lastValues = out
	e.lastTime = vl.Time
	e.lastInterval = vl.Interval
	e.rawValues = append([]api.Value(nil), vl.Values...)
	e.rawTime = vl.Time
	e.hits++

	if vl.Meta != nil {
		if e.metaMap == nil {
			e.metaMap = make(meta.Data)
		}
		for k, v := range vl.Meta {
			e.metaMap[k] = v
		}
	}

	return out
}

func deriveRate(prev, cur api.Derive, interval time.Duration) api.Value {
	if interval <= 0 {
		return api.Gauge(math.NaN())
	}
	diff := int64(cur) - int64(prev)
	return api.Gauge(float64(diff) / interval.Seconds())
}

// counterRate computes a rate from consecutive Counter samples, handling a
// single wraparound at 2^64. Sources known to be 32-bit counters should
// use CounterRate32 instead.
func counterRate(prev, cur api.Counter, interval time.Duration) api.Value {
	if interval <= 0 {
		return api.Gauge(math.NaN())
	}
	var diff uint64
	if cur >= prev {
		diff = uint64(cur) - uint64(prev)
	} else {
		// Wrapped around the 64-bit modulus.
		diff = (math.MaxUint64 - uint64(prev)) + uint64(cur) + 1
	}
	return api.Gauge(float64(diff) / interval.Seconds())
}

// CounterRate32 computes a rate from consecutive Counter samples declared
// to wrap at 2^32 rather than 2^64.
func CounterRate32(prev, cur api.Counter, interval time.Duration) api.Value {
	if interval <= 0 {
		return api.Gauge(math.NaN())
	}
	const mod = uint64(1) << 32
	p := uint64(prev) % mod
	c := uint64(cur) % mod
	var diff uint64
	if c >= p {
		diff = c - p
	} else {
		diff = (mod - p) + c
	}
	return api.Gauge(float64(diff) / interval.Seconds())
}

func absoluteRate(v api.Absolute, interval time.Duration) api.Value {
	if interval <= 0 {
		return api.Gauge(math.NaN())
	}
	return api.Gauge(float64(v) / interval.Seconds())
}

// GetRate returns the most recent rate-converted values for id.
func (c *Cache) GetRate(id api.Identifier) ([]api.Value, bool) {
	e := c.entryFor(id, false)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastValues == nil {
		return nil, false
	}
	return append([]api.Value(nil), e.lastValues...), true
}

// GetValue returns the most recent rate-converted ValueList for id,
// including its timestamp and interval.
func (c *Cache) GetValue(id api.Identifier) (*api.ValueList, bool) {
	e := c.entryFor(id, false)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastValues == nil {
		return nil, false
	}
	return &api.ValueList{
		Identifier: id,
		Time:       e.lastTime,
		Interval:   e.lastInterval,
		Values:     append([]api.Value(nil), e.lastValues...),
		Meta:       e.metaMap.Clone(),
	}, true
}

// Hits returns the number of times id has been updated.
func (c *Cache) Hits(id api.Identifier) uint64 {
	e := c.entryFor(id, false)
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits
}

// MetaAdd sets a metadata entry for id, creating the cache entry if
// necessary.
func (c *Cache) MetaAdd(id api.Identifier, key string, value meta.Entry) {
	e := c.entryFor(id, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.metaMap == nil {
		e.metaMap = make(meta.Data)
	}
	e.metaMap[key] = value
}

// MetaGet returns a metadata entry for id.
func (c *Cache) MetaGet(id api.Identifier, key string) (meta.Entry, bool) {
	e := c.entryFor(id, false)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.metaMap[key]
	return v, ok
}

// MetaRemove deletes a metadata entry for id.
func (c *Cache) MetaRemove(id api.Identifier, key string) {
	e := c.entryFor(id, false)
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.metaMap, key)
}

// Expire removes every entry whose last update is older than
// DefaultTTLFactor times its last-seen interval, relative to now. It
// returns the cache keys of the removed entries, in no particular order.
func (c *Cache) Expire(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired []string
	for key, e := range c.entries {
		e.mu.Lock()
		ttl := e.lastInterval * DefaultTTLFactor
		stale := ttl > 0 && now.Sub(e.lastTime) > ttl
		e.mu.Unlock()

		if stale {
			delete(c.entries, key)
			expired = append(expired, key)
		}
	}
	return expired
}

// Len returns the number of distinct identities currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
