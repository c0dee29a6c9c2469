package catalog

import "github.com/shopspring/decimal"

// DefaultProducts is the starter catalog written out when no persisted
// catalog can be loaded.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:            "mug-001",
			Name:          "Stoneware Coffee Mug",
			Description:   "Handcrafted ceramic mug perfect for your morning chai or coffee. Microwave and dishwasher safe.",
			Price:         decimal.NewFromInt(800),
			Currency:      "INR",
			Category:      "mugs",
			Subcategory:   "drinkware",
			Color:         "white",
			Material:      "ceramic",
			Size:          "standard",
			Brand:         "Artisan Pottery",
			Tags:          []string{"coffee", "tea", "ceramic", "handmade", "microwave-safe"},
			InStock:       true,
			StockQuantity: 45,
			Rating:        4.5,
			ReviewCount:   23,
			Images:        []string{"mug-001-1.jpg", "mug-001-2.jpg"},
		},
		{
			ID:            "mug-002",
			Name:          "Blue Ceramic Tea Mug with Handle",
			Description:   "Beautiful blue ceramic mug with traditional Indian patterns. Perfect for tea lovers.",
			Price:         decimal.NewFromInt(950),
			Currency:      "INR",
			Category:      "mugs",
			Subcategory:   "drinkware",
			Color:         "blue",
			Material:      "ceramic",
			Size:          "standard",
			Brand:         "Desi Designs",
			Tags:          []string{"tea", "ceramic", "traditional", "blue", "hand-painted"},
			InStock:       true,
			StockQuantity: 32,
			Rating:        4.7,
			ReviewCount:   18,
			Images:        []string{"mug-002-1.jpg", "mug-002-2.jpg"},
		},
		{
			ID:            "tshirt-001",
			Name:          "Classic Cotton T-Shirt",
			Description:   "100% premium cotton comfortable t-shirt for everyday wear. Pre-shrunk fabric.",
			Price:         decimal.NewFromInt(899),
			Currency:      "INR",
			Category:      "clothing",
			Subcategory:   "tops",
			Color:         "black",
			Material:      "cotton",
			Size:          "M",
			Brand:         "Comfort Wear",
			Tags:          []string{"cotton", "basic", "casual", "everyday", "comfort"},
			InStock:       true,
			StockQuantity: 67,
			Rating:        4.3,
			ReviewCount:   45,
			Images:        []string{"tshirt-001-1.jpg"},
		},
		{
			ID:            "tshirt-002",
			Name:          "Premium Cotton Polo T-Shirt",
			Description:   "Premium quality cotton polo t-shirt with better fit and durable fabric.",
			Price:         decimal.NewFromInt(1299),
			Currency:      "INR",
			Category:      "clothing",
			Subcategory:   "tops",
			Color:         "white",
			Material:      "cotton",
			Size:          "L",
			Brand:         "Urban Classic",
			Tags:          []string{"polo", "premium", "cotton", "formal-casual", "durable"},
			InStock:       true,
			StockQuantity: 28,
			Rating:        4.6,
			ReviewCount:   32,
			Images:        []string{"tshirt-002-1.jpg", "tshirt-002-2.jpg"},
		},
		{
			ID:            "hoodie-001",
			Name:          "Classic Black Hoodie",
			Description:   "Warm and comfortable black hoodie for casual wear. Perfect for winter seasons.",
			Price:         decimal.NewFromInt(2499),
			Currency:      "INR",
			Category:      "clothing",
			Subcategory:   "outerwear",
			Color:         "black",
			Material:      "cotton-polyester",
			Size:          "M",
			Brand:         "Street Style",
			Tags:          []string{"hoodie", "winter", "casual", "warm", "comfortable"},
			InStock:       true,
			StockQuantity: 15,
			Rating:        4.4,
			ReviewCount:   56,
			Images:        []string{"hoodie-001-1.jpg"},
		},
		{
			ID:            "hoodie-002",
			Name:          "Soft Grey Hoodie with Front Pocket",
			Description:   "Soft grey hoodie with spacious front pocket. Made from premium fabric.",
			Price:         decimal.NewFromInt(2299),
			Currency:      "INR",
			Category:      "clothing",
			Subcategory:   "outerwear",
			Color:         "grey",
			Material:      "cotton-polyester",
			Size:          "L",
			Brand:         "Comfort Zone",
			Tags:          []string{"hoodie", "grey", "pocket", "soft", "premium"},
			InStock:       true,
			StockQuantity: 22,
			Rating:        4.8,
			ReviewCount:   41,
			Images:        []string{"hoodie-002-1.jpg", "hoodie-002-2.jpg"},
		},
		{
			ID:            "notebook-001",
			Name:          "Handmade Leather Journal",
			Description:   "Handmade leather-bound journal with premium paper for writing and sketching.",
			Price:         decimal.NewFromInt(650),
			Currency:      "INR",
			Category:      "stationery",
			Subcategory:   "journals",
			Color:         "brown",
			Material:      "leather-paper",
			Size:          "A5",
			Brand:         "Artisan Crafts",
			Tags:          []string{"journal", "leather", "writing", "sketching", "premium"},
			InStock:       true,
			StockQuantity: 38,
			Rating:        4.9,
			ReviewCount:   29,
			Images:        []string{"notebook-001-1.jpg"},
		},
		{
			ID:            "laptop-bag-001",
			Name:          "Professional Laptop Bag",
			Description:   "Water-resistant laptop bag with multiple compartments for professionals.",
			Price:         decimal.NewFromInt(1899),
			Currency:      "INR",
			Category:      "bags",
			Subcategory:   "laptop-bags",
			Color:         "black",
			Material:      "nylon",
			Size:          "15-inch",
			Brand:         "Urban Professional",
			Tags:          []string{"laptop", "bag", "professional", "water-resistant", "compartments"},
			InStock:       true,
			StockQuantity: 12,
			Rating:        4.5,
			ReviewCount:   38,
			Images:        []string{"laptop-bag-001-1.jpg"},
		},
	}
}
