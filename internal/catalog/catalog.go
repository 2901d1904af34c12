package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AllCategories is the filter value selecting every product.
const AllCategories = "all"

// ErrUnavailable wraps any failure to read from the backing data service.
var ErrUnavailable = errors.New("catalog: unavailable")

// Category is a product grouping. Categories are read-only snapshots.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRef is the denormalized owner category carried by a product.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product mirrors the products table. Nullable columns are pointers.
type Product struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	ProductLink *string  `json:"product_link"`
	CategoryID  *string  `json:"category_id"`
}

// ProductWithCategory is a product joined with its category, if any.
type ProductWithCategory struct {
	Product
	Category *CategoryRef `json:"categories"`
}

// InCategory reports whether the product belongs to the category id.
func (p ProductWithCategory) InCategory(id string) bool {
	return p.CategoryID != nil && *p.CategoryID == id
}

// Source is the data access facade consumed by the gallery.
type Source interface {
	GetAllCategories(ctx context.Context) ([]Category, error)
	GetAllProducts(ctx context.Context) ([]ProductWithCategory, error)
}

// Snapshot holds both lists as loaded together.
type Snapshot struct {
	Categories []Category
	Products   []ProductWithCategory
}

// CategoryName returns the name for id, or "" when unknown.
func (s Snapshot) CategoryName(id string) string {
	for _, c := range s.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// Load requests categories and products concurrently. Either failure fails the
// whole load and no partial snapshot is returned.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	if src == nil {
		return Snapshot{}, fmt.Errorf("%w: no source configured", ErrUnavailable)
	}
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := src.GetAllCategories(gctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		snap.Categories = cats
		return nil
	})
	g.Go(func() error {
		products, err := src.GetAllProducts(gctx)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		snap.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return snap, nil
}

// Join attaches category refs to products using the category list. It is used by
// backends that cannot join server-side.
func Join(categories []Category, products []Product) []ProductWithCategory {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	out := make([]ProductWithCategory, 0, len(products))
	for _, p := range products {
		item := ProductWithCategory{Product: p}
		if p.CategoryID != nil {
			if c, ok := byID[*p.CategoryID]; ok {
				item.Category = &CategoryRef{ID: c.ID, Name: c.Name}
			}
		}
		out = append(out, item)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
