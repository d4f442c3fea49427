package domain

// ProductQuery filters the public product listing.
type ProductQuery struct {
	Search        string
	CategoryID    string
	MinPriceCents *int64
	MaxPriceCents *int64
	Page          int
	Size          int
}

// ProductInput is the admin product form.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl"`
	CategoryID  string `json:"categoryId"`
}

// BannerInput is the admin hero banner form.
type BannerInput struct {
	ImageURL     string `json:"imageUrl"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	DisplayOrder int    `json:"displayOrder"`
	Active       bool   `json:"isActive"`
}

// CheckoutInput is the delivery and payment form submitted at checkout.
type CheckoutInput struct {
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
}
