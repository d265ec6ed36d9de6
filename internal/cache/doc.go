// Package cache provides a small generic memoizing cache.
//
// Cache holds values that are expensive to build and never change for a
// given key, such as compiled shader binaries:
//
//	c := cache.New[shader.Family, []uint32]()
//	words, err := c.GetOrCreate(shader.FamilyBox, compile)
//
// Failed builds are not stored, so a later call retries. Cache is safe for
// concurrent use and must not be copied after creation.
package cache
