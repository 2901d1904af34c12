// Package sqlite serves the catalog from a local SQLite file. It mirrors the
// Postgres schema and is meant for development and demos.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"anhdu.dev/wyd-web/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
	id           TEXT PRIMARY KEY,
	name         TEXT,
	price        REAL,
	image_url    TEXT,
	product_link TEXT,
	category_id  TEXT REFERENCES categories(id)
);`

// Store implements catalog.Source over database/sql.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at dsn. Accepted forms are
// "sqlite:<path>", "file:<path>" or a bare path.
func Open(ctx context.Context, dsn string) (*Store, error) {
	path := strings.TrimPrefix(strings.TrimSpace(dsn), "sqlite:")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Seed inserts categories and products, replacing rows with the same id.
func (s *Store) Seed(ctx context.Context, categories []catalog.Category, products []catalog.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
			return fmt.Errorf("sqlite: insert category %s: %w", c.ID, err)
		}
	}
	for _, p := range products {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO products (id, name, price, image_url, product_link, category_id) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Price, p.ImageURL, p.ProductLink, p.CategoryID,
		); err != nil {
			return fmt.Errorf("sqlite: insert product %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query categories: %w", err)
	}
	defer rows.Close()
	var out []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetAllProducts(ctx context.Context) ([]catalog.ProductWithCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT p.id, p.name, p.price, p.image_url, p.product_link, p.category_id, c.id, c.name
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id
 ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query products: %w", err)
	}
	defer rows.Close()
	var out []catalog.ProductWithCategory
	for rows.Next() {
		var (
			p                                         catalog.ProductWithCategory
			name, image, link, categoryID, cID, cName sql.NullString
			price                                     sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &name, &price, &image, &link, &categoryID, &cID, &cName); err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		p.Name = nullString(name)
		p.ImageURL = nullString(image)
		p.ProductLink = nullString(link)
		p.CategoryID = nullString(categoryID)
		if price.Valid {
			v := price.Float64
			p.Price = &v
		}
		if cID.Valid {
			p.Category = &catalog.CategoryRef{ID: cID.String, Name: cName.String}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
