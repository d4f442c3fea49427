package domain

// ProductSnapshot is the product data a cart line carries.
type ProductSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	StockLimit     int    `json:"stock"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

// CartLine is one product entry in a cart.
type CartLine struct {
	ID         string          `json:"id"`
	Product    ProductSnapshot `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalCents int64           `json:"itemTotalCents"`
}

// Cart mirrors the remote cart: lines in add order plus derived totals.
type Cart struct {
	ID            string     `json:"id,omitempty"`
	Lines         []CartLine `json:"items"`
	SubtotalCents int64      `json:"subtotalCents"`
	TotalCents    int64      `json:"totalCents"`
}

// Snapshot projects a catalog product into a cart line snapshot.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		StockLimit:     p.Stock,
		ImageURL:       p.ImageURL,
	}
}
