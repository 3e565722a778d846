package core

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// per-client cache for immutable by-hash reads
const blockCacheSize = 2048

func initCache(size int) *lru.TwoQueueCache {
	cache, err := lru.New2Q(size)
	if err != nil {
		panic(fmt.Errorf("init cache failed: %v", err))
	}

	return cache
}
