package geo

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type point struct{ lat, lon float64 }

// CachedClassifier memoizes another classifier's answers per exact coordinate.
// It is safe for concurrent use.
type CachedClassifier struct {
	inner Classifier
	cache *lru.Cache[point, Province]
}

// NewCached wraps inner with an LRU cache holding up to size coordinates.
func NewCached(inner Classifier, size int) (*CachedClassifier, error) {
	cache, err := lru.New[point, Province](size)
	if err != nil {
		return nil, err
	}
	return &CachedClassifier{inner: inner, cache: cache}, nil
}

// Classify implements Classifier.
func (c *CachedClassifier) Classify(lat, lon float64) Province {
	key := point{lat, lon}
	if p, ok := c.cache.Get(key); ok {
		return p
	}
	p := c.inner.Classify(lat, lon)
	c.cache.Add(key, p)
	return p
}

// Len returns the number of cached coordinates.
func (c *CachedClassifier) Len() int {
	return c.cache.Len()
}
