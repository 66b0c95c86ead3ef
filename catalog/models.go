package catalog

// Item is a purchasable prompt package as shown on catalog cards and the
// details screen. It mirrors the catalog_items table.
type Item struct {
	ID            string
	Title         string
	Author        string
	Rating        float64
	Reviews       string
	PromptCount   int
	Price         float64
	DiscountPrice float64
	Image         string
	Category      string
	Tag           string
}

// Featured is the single package the storefront ships with when no
// database is configured.
var Featured = Item{
	ID:            "1",
	Title:         "100+ videos prompts for stunning AI creations",
	Author:        "Alex Morgan",
	Rating:        4.8,
	Reviews:       "1.2k",
	PromptCount:   12,
	Price:         299,
	DiscountPrice: 99,
	Image:         "https://picsum.photos/600/600?random=10",
	Category:      "Design",
	Tag:           "AI Prompts",
}
