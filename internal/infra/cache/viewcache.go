// Package cache implements the path-scoped view cache. Every cached
// payload is keyed under a per-path version counter; invalidating a
// path bumps the counter, orphaning all entries below it. Orphans age
// out through the item TTL.
package cache

import (
	"fmt"
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
)

const entryTTLSeconds = 300

type ViewCache struct {
	mc *memcache.Client
}

func NewViewCache(mc *memcache.Client) *ViewCache {
	return &ViewCache{mc: mc}
}

func (c *ViewCache) Get(path, key string) ([]byte, bool) {
	version, err := c.version(path)
	if err != nil {
		return nil, false
	}

	item, err := c.mc.Get(entryKey(path, version, key))
	if err != nil {
		return nil, false
	}
	return item.Value, true
}

func (c *ViewCache) Set(path, key string, value []byte) error {
	version, err := c.version(path)
	if err != nil {
		return err
	}

	return c.mc.Set(&memcache.Item{
		Key:        entryKey(path, version, key),
		Value:      value,
		Expiration: entryTTLSeconds,
	})
}

// InvalidatePath marks every cached view under path stale by bumping
// the path version.
func (c *ViewCache) InvalidatePath(path string) error {
	_, err := c.mc.Increment(versionKey(path), 1)
	if err == memcache.ErrCacheMiss {
		return c.mc.Set(&memcache.Item{
			Key:   versionKey(path),
			Value: []byte("1"),
		})
	}
	return err
}

func (c *ViewCache) version(path string) (uint64, error) {
	item, err := c.mc.Get(versionKey(path))
	if err == memcache.ErrCacheMiss {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(item.Value), 10, 64)
}

func versionKey(path string) string {
	return "viewver:" + path
}

func entryKey(path string, version uint64, key string) string {
	return fmt.Sprintf("view:%s:%d:%s", path, version, key)
}
