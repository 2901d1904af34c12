package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"anhdu.dev/wyd-web/internal/catalog"
)

func TestClientDecodesPostgRESTPayloads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("apikey"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/v1/categories":
			require.Equal(t, "id,name", r.URL.Query().Get("select"))
			_, _ = w.Write([]byte(`[{"id":"c1","name":"Skincare"}]`))
		case "/rest/v1/products":
			require.Equal(t, "*,categories(id,name)", r.URL.Query().Get("select"))
			_, _ = w.Write([]byte(`[
				{"id":"p1","name":"Serum","price":250000,"image_url":null,"product_link":"https://shop.tiktok.com/x","category_id":"c1","categories":{"id":"c1","name":"Skincare"}},
				{"id":"p2","name":null,"price":null,"image_url":null,"product_link":null,"category_id":null,"categories":null}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/rest/v1/", "secret")
	snap, err := catalog.Load(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, []catalog.Category{{ID: "c1", Name: "Skincare"}}, snap.Categories)
	require.Len(t, snap.Products, 2)

	first := snap.Products[0]
	require.Equal(t, "Serum", *first.Name)
	require.Equal(t, 250000.0, *first.Price)
	require.Nil(t, first.ImageURL)
	require.Equal(t, &catalog.CategoryRef{ID: "c1", Name: "Skincare"}, first.Category)

	second := snap.Products[1]
	require.Nil(t, second.Name)
	require.Nil(t, second.Price)
	require.Nil(t, second.Category)
}

func TestClientSurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	_, err := c.GetAllProducts(context.Background())
	require.ErrorContains(t, err, "status 401")

	_, err = catalog.Load(context.Background(), c)
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestClientWithoutBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", "").GetAllCategories(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}
