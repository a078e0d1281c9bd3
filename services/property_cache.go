package services

import (
	"homestays-server/models"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// PropertyCache is an in-process TTL cache in front of hot property reads.
// Writes to a property must call Invalidate so stale prices never surface.
type PropertyCache struct {
	cache *ccache.Cache[*models.Property]
	ttl   time.Duration
}

func NewPropertyCache() *PropertyCache {
	return &PropertyCache{
		cache: ccache.New(ccache.Configure[*models.Property]().MaxSize(1000)),
		ttl:   5 * time.Minute,
	}
}

func (c *PropertyCache) Get(key string) (*models.Property, bool) {
	item := c.cache.Get(key)
	if item == nil || item.Expired() {
		return nil, false
	}
	return item.Value(), true
}

func (c *PropertyCache) Set(key string, property *models.Property) {
	c.cache.Set(key, property, c.ttl)
}

func (c *PropertyCache) Invalidate(key string) {
	c.cache.Delete(key)
}
