// Package cmap provides a sharded concurrent map.
//
// Keys are spread over a power-of-two number of shards by a murmur3
// hash; every shard is guarded by its own RWMutex, so no operation
// holds a lock wider than one shard and no caller-side locking is
// needed.
//
// Usage:
//
//	m := cmap.New[string, Entry]()
//	if !m.SetIfAbsent("node-1", entry) {
//		// somebody else owns node-1
//	}
//	m.Range(func(k string, v Entry) bool { ...; return true })
//
// Iteration locks one shard at a time. Writers touching other shards
// proceed concurrently, so Range, Keys and Items are weakly consistent:
// entries inserted or deleted during iteration may or may not be seen.
package cmap
