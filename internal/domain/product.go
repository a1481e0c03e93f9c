package domain

// Product is a catalog entry as served by the backend. Price arrives as a
// decimal rupee figure and is converted to paise at the cart boundary.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active"`
}

// PricePaise returns the catalog price in paise.
func (p Product) PricePaise() int64 {
	return RupeesToPaise(p.Price)
}
