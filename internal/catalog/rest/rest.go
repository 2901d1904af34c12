// Package rest reads the catalog from a PostgREST-compatible endpoint such as
// the Supabase REST API.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"anhdu.dev/wyd-web/internal/catalog"
)

const defaultTimeout = 5 * time.Second

// Client issues read-only catalog requests.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client for baseURL (e.g. https://xyz.supabase.co/rest/v1).
// apiKey is sent both as the apikey header and as a bearer token when set.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetHTTPClient overrides the transport, primarily for tests.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

func (c *Client) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	q := url.Values{}
	q.Set("select", "id,name")
	q.Set("order", "name.asc")
	var out []catalog.Category
	if err := c.get(ctx, "categories", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAllProducts(ctx context.Context) ([]catalog.ProductWithCategory, error) {
	q := url.Values{}
	q.Set("select", "*,categories(id,name)")
	q.Set("order", "id.asc")
	var out []catalog.ProductWithCategory
	if err := c.get(ctx, "products", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, table string, q url.Values, dst any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("%w: rest base url not set", catalog.ErrUnavailable)
	}
	endpoint, err := url.JoinPath(c.baseURL, table)
	if err != nil {
		return fmt.Errorf("rest: join path %s: %w", table, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("rest: build request %s: %w", table, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s request: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("rest: %s status %d: %s", table, resp.StatusCode, drainError(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("rest: decode %s: %w", table, err)
	}
	return nil
}

func drainError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
