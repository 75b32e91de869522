// Package mem holds the in-process caches.
package mem

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ViewCache stores computed client views keyed by a string such as a platform
// name. Entries expire after the configured TTL.
type ViewCache interface {
	Get(key string) (map[string]interface{}, bool)
	Set(key string, view map[string]interface{})
	// Purge drops every entry. Admin writes call it so clients never see a
	// stale view for longer than one request.
	Purge()
}

type viewCache struct {
	lru *expirable.LRU[string, map[string]interface{}]
}

func NewViewCache(size int, ttl time.Duration) ViewCache {
	if size <= 0 {
		size = 128
	}
	return &viewCache{
		lru: expirable.NewLRU[string, map[string]interface{}](size, nil, ttl),
	}
}

func (v *viewCache) Get(key string) (map[string]interface{}, bool) {
	return v.lru.Get(key)
}

func (v *viewCache) Set(key string, view map[string]interface{}) {
	v.lru.Add(key, view)
}

func (v *viewCache) Purge() {
	v.lru.Purge()
}
