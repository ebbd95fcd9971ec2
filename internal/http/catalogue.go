package http

// catalogue is the fixed product list served by GET /products.
var catalogue = []Product{
	{ID: 1, Title: "Essence Mascara Lash Princess", Category: "beauty", Price: 9.99, Stock: 99},
	{ID: 2, Title: "Eyeshadow Palette with Mirror", Category: "beauty", Price: 19.99, Stock: 34},
	{ID: 3, Title: "Powder Canister", Category: "beauty", Price: 14.99, Stock: 89},
	{ID: 4, Title: "Red Lipstick", Category: "beauty", Price: 12.99, Stock: 91},
	{ID: 5, Title: "Red Nail Polish", Category: "beauty", Price: 8.99, Stock: 79},
	{ID: 6, Title: "Calvin Klein CK One", Category: "fragrances", Price: 49.99, Stock: 29},
	{ID: 7, Title: "Chanel Coco Noir Eau De", Category: "fragrances", Price: 129.99, Stock: 58},
	{ID: 8, Title: "Dior J'adore", Category: "fragrances", Price: 89.99, Stock: 98},
	{ID: 9, Title: "Dolce Shine Eau de", Category: "fragrances", Price: 69.99, Stock: 4},
	{ID: 10, Title: "Gucci Bloom Eau de", Category: "fragrances", Price: 79.99, Stock: 91},
	{ID: 11, Title: "Annibale Colombo Bed", Category: "furniture", Price: 1899.99, Stock: 88},
	{ID: 12, Title: "Annibale Colombo Sofa", Category: "furniture", Price: 2499.99, Stock: 60},
}

// page returns up to limit products starting at skip. A limit of zero or
// less returns everything after skip.
func page(skip, limit int) []Product {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(catalogue) {
		return []Product{}
	}
	end := len(catalogue)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	out := make([]Product, end-skip)
	copy(out, catalogue[skip:end])
	return out
}
