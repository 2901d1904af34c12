// Package postgres reads the catalog straight from the Postgres database behind
// the data service.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"anhdu.dev/wyd-web/internal/catalog"
)

const (
	selectCategories = `SELECT id::text, COALESCE(name, '') FROM categories ORDER BY name`

	selectProducts = `SELECT p.id::text, p.name, p.price::float8, p.image_url, p.product_link,
       p.category_id::text, c.id::text, c.name
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id
 ORDER BY p.id`
)

// Options tunes the connection pool.
type Options struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

// Store implements catalog.Source over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open parses dsn, builds a pool and verifies connectivity.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.pool.Query(ctx, selectCategories)
	if err != nil {
		return nil, fmt.Errorf("postgres: query categories: %w", err)
	}
	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Category, error) {
		var c catalog.Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan categories: %w", err)
	}
	return cats, nil
}

func (s *Store) GetAllProducts(ctx context.Context) ([]catalog.ProductWithCategory, error) {
	rows, err := s.pool.Query(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("postgres: query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.ProductWithCategory, error) {
	var (
		p       catalog.ProductWithCategory
		catID   *string
		catName *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.ProductLink, &p.CategoryID, &catID, &catName); err != nil {
		return p, err
	}
	if catID != nil {
		p.Category = &catalog.CategoryRef{ID: *catID}
		if catName != nil {
			p.Category.Name = *catName
		}
	}
	return p, nil
}
