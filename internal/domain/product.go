package domain

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceCents  int64    `json:"priceCents"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Category    Category `json:"category"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items         []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}
