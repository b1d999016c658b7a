package pool

import (
	"sync"

	"github.com/momentics/hioload-ws/api"
)

var (
	defaultOnce sync.Once
	defaultMgr  *BufferPoolManager
)

// DefaultManager returns a process-wide BufferPoolManager so all components
// reuse the same NUMA-aware pools instead of fragmenting allocations.
func DefaultManager() *BufferPoolManager {
	defaultOnce.Do(func() {
		defaultMgr = NewBufferPoolManager()
	})
	return defaultMgr
}

// DefaultPool is a shortcut to fetch a pool from the default manager.
// Pools are kept per NUMA node, so size does not select the pool.
func DefaultPool(size, numaPreferred int) api.BufferPool {
	return DefaultManager().GetPool(numaPreferred)
}
