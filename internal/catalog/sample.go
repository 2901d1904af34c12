package catalog

import "context"

// Sample serves a small built-in catalog. It backs local development when no
// data service is configured.
type Sample struct{}

func (Sample) GetAllCategories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Category(nil), sampleCategories...), nil
}

func (Sample) GetAllProducts(ctx context.Context) ([]ProductWithCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Join(sampleCategories, sampleProducts), nil
}

var sampleCategories = []Category{
	{ID: "c-skincare", Name: "Skincare"},
	{ID: "c-home", Name: "Nhà cửa"},
	{ID: "c-tech", Name: "Công nghệ"},
	{ID: "c-fashion", Name: "Thời trang"},
}

var sampleProducts = []Product{
	{ID: "p-000001", Name: ptr("Sữa rửa mặt dịu nhẹ"), Price: ptr(159000.0), ImageURL: ptr("https://p16-oec-va.ibyteimg.com/tos-maliva-i-o3syd03w52-us/cleanser.jpeg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1729"), CategoryID: ptr("c-skincare")},
	{ID: "p-000002", Name: ptr("Kem chống nắng SPF50"), Price: ptr(245000.0), ImageURL: ptr("/images/products/sunscreen.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1730"), CategoryID: ptr("c-skincare")},
	{ID: "p-000003", Name: ptr("Serum vitamin C"), Price: ptr(320000.0), ImageURL: nil, ProductLink: ptr("https://shopee.vn/serum-vitamin-c"), CategoryID: ptr("c-skincare")},
	{ID: "p-000004", Name: ptr("Đèn ngủ cảm ứng"), Price: ptr(189000.0), ImageURL: ptr("/images/products/lamp.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1801"), CategoryID: ptr("c-home")},
	{ID: "p-000005", Name: ptr("Hộp đựng gia vị"), Price: ptr(99000.0), ImageURL: ptr("/images/products/spice.jpg"), ProductLink: nil, CategoryID: ptr("c-home")},
	{ID: "p-000006", Name: ptr("Tai nghe bluetooth"), Price: ptr(450000.0), ImageURL: ptr("https://p16-oec-va.ibyteimg.com/tos-maliva-i-o3syd03w52-us/earbuds.jpeg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1902"), CategoryID: ptr("c-tech")},
	{ID: "p-000007", Name: ptr("Sạc dự phòng 10000mAh"), Price: ptr(299000.0), ImageURL: ptr("/images/products/powerbank.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1903"), CategoryID: ptr("c-tech")},
	{ID: "p-000008", Name: ptr("Giá đỡ điện thoại"), Price: ptr(59000.0), ImageURL: nil, ProductLink: ptr("not a url"), CategoryID: ptr("c-tech")},
	{ID: "p-000009", Name: ptr("Áo thun oversize"), Price: ptr(175000.0), ImageURL: ptr("/images/products/tee.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/2001"), CategoryID: ptr("c-fashion")},
	{ID: "p-000010", Name: ptr("Túi tote canvas"), Price: ptr(135000.0), ImageURL: ptr("/images/products/tote.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/2002"), CategoryID: ptr("c-fashion")},
	{ID: "p-000011", Name: ptr("Mũ bucket"), Price: nil, ImageURL: ptr("/images/products/bucket.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/2003"), CategoryID: ptr("c-fashion")},
	{ID: "p-000012", Name: ptr("Bình giữ nhiệt"), Price: ptr(210000.0), ImageURL: ptr("/images/products/bottle.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1804"), CategoryID: ptr("c-home")},
	{ID: "p-000013", Name: nil, Price: ptr(49000.0), ImageURL: nil, ProductLink: nil, CategoryID: nil},
	{ID: "p-000014", Name: ptr("Bàn phím cơ mini"), Price: ptr(890000.0), ImageURL: ptr("/images/products/keyboard.jpg"), ProductLink: ptr("https://shop.tiktok.com/view/product/1904"), CategoryID: ptr("c-tech")},
}

// SampleData returns copies of the built-in categories and products, e.g. for
// seeding a development database.
func SampleData() ([]Category, []Product) {
	return append([]Category(nil), sampleCategories...), append([]Product(nil), sampleProducts...)
}
