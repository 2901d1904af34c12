package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"anhdu.dev/wyd-web/internal/catalog"
)

func TestSeedAndReadBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cats, products := catalog.SampleData()
	require.NoError(t, store.Seed(ctx, cats, products))

	snap, err := catalog.Load(ctx, store)
	require.NoError(t, err)
	require.Len(t, snap.Categories, len(cats))
	require.Len(t, snap.Products, len(products))

	byID := map[string]catalog.ProductWithCategory{}
	for _, p := range snap.Products {
		byID[p.ID] = p
	}

	withCategory := byID["p-000001"]
	require.NotNil(t, withCategory.Category)
	require.Equal(t, "c-skincare", withCategory.Category.ID)
	require.Equal(t, "Skincare", withCategory.Category.Name)
	require.Equal(t, 159000.0, *withCategory.Price)

	bare := byID["p-000013"]
	require.Nil(t, bare.Name)
	require.Nil(t, bare.CategoryID)
	require.Nil(t, bare.Category)
	require.Nil(t, bare.ImageURL)

	noPrice := byID["p-000011"]
	require.Nil(t, noPrice.Price)
}
