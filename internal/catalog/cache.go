package catalog

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	categoriesCacheKey = "catalog:categories"
	productsCacheKey   = "catalog:products"
)

// Cached wraps a Source and memoizes successful reads for ttl. Failures are
// never cached so the next page load retries the backend.
type Cached struct {
	src   Source
	store *gocache.Cache
	ttl   time.Duration
}

// NewCached builds a caching decorator. A non-positive ttl defaults to one minute.
func NewCached(src Source, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cached{
		src:   src,
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *Cached) GetAllCategories(ctx context.Context) ([]Category, error) {
	if v, ok := c.store.Get(categoriesCacheKey); ok {
		return cloneCategories(v.([]Category)), nil
	}
	cats, err := c.src.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(categoriesCacheKey, cloneCategories(cats), c.ttl)
	return cats, nil
}

func (c *Cached) GetAllProducts(ctx context.Context) ([]ProductWithCategory, error) {
	if v, ok := c.store.Get(productsCacheKey); ok {
		return cloneProducts(v.([]ProductWithCategory)), nil
	}
	products, err := c.src.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(productsCacheKey, cloneProducts(products), c.ttl)
	return products, nil
}

// Flush drops every cached list.
func (c *Cached) Flush() { c.store.Flush() }

func cloneCategories(src []Category) []Category {
	if src == nil {
		return nil
	}
	return append([]Category(nil), src...)
}

// cloneProducts copies the slice only; product fields are never mutated after load.
func cloneProducts(src []ProductWithCategory) []ProductWithCategory {
	if src == nil {
		return nil
	}
	return append([]ProductWithCategory(nil), src...)
}
