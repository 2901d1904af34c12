package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalAndAlternates(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://wyd.example/", Canonical("https://wyd.example/", ""))
	require.Equal(t, "https://wyd.example/works", Canonical("https://wyd.example", "works"))

	alts := Alternates("https://wyd.example", "/about", []string{"vi", "en"})
	require.Len(t, alts, 3)
	require.Equal(t, Alternate{Href: "https://wyd.example/about?hl=vi", Hreflang: "vi"}, alts[0])
	require.Equal(t, "x-default", alts[2].Hreflang)
	require.Equal(t, "https://wyd.example/about", alts[2].Href)
}

func TestItemListOfProducts(t *testing.T) {
	t.Parallel()

	items := []map[string]any{
		Product("Serum", "https://shop.example/1", "", "p-1", &Offer{Price: 159000, Currency: "VND"}),
		Product("Mystery", "", "", "p-2", &Offer{}),
	}
	raw := JSON(ItemList("GIỎ HÀNG", 13, items))

	var decoded struct {
		Type  string `json:"@type"`
		Items []struct {
			Position int            `json:"position"`
			Item     map[string]any `json:"item"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Equal(t, "ItemList", decoded.Type)
	require.Len(t, decoded.Items, 2)
	require.Equal(t, 13, decoded.Items[0].Position)
	require.Equal(t, 14, decoded.Items[1].Position)
	require.Contains(t, decoded.Items[0].Item, "offers")
	require.NotContains(t, decoded.Items[1].Item, "offers")
}

func TestBreadcrumbListPositions(t *testing.T) {
	t.Parallel()

	m := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "https://x/"}, {Name: "Works", Item: "https://x/works"}})
	el := m["itemListElement"].([]map[string]any)
	require.Equal(t, 2, el[1]["position"])
	require.Equal(t, "", JSON(func() {}))
}
