package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"storefront/internal/domain"
)

// wireID accepts numeric or string ids and sends numeric-looking ids back as numbers.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = wireID(n.String())
	return nil
}

func (id wireID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// wireMoney is a decimal amount on the wire and integer cents in memory.
type wireMoney int64

func (m *wireMoney) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*m = wireMoney(math.Round(f * 100))
	return nil
}

func (m wireMoney) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m)/100, 'f', 2, 64)), nil
}

type wireAuth struct {
	Token string `json:"token"`
	wireIdentity
}

type wireIdentity struct {
	ID    wireID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (w wireIdentity) toDomain() domain.Identity {
	return domain.Identity{
		ID:    string(w.ID),
		Name:  w.Name,
		Email: w.Email,
		Role:  domain.ParseRole(w.Role),
	}
}

type wireCategory struct {
	ID   wireID `json:"id"`
	Name string `json:"name"`
}

type wireProduct struct {
	ID          wireID        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       wireMoney     `json:"price"`
	Stock       int           `json:"stock"`
	ImageURL    string        `json:"imageUrl"`
	Category    *wireCategory `json:"category"`
}

func (w wireProduct) toDomain() domain.Product {
	p := domain.Product{
		ID:          string(w.ID),
		Name:        w.Name,
		Description: w.Description,
		PriceCents:  int64(w.Price),
		Stock:       w.Stock,
		ImageURL:    w.ImageURL,
	}
	if w.Category != nil {
		p.Category = domain.Category{ID: string(w.Category.ID), Name: w.Category.Name}
	}
	return p
}

type wireProductPage struct {
	Content       []wireProduct `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Size          int           `json:"size"`
	Number        int           `json:"number"`
}

type wireCartItem struct {
	ID        wireID      `json:"id"`
	Product   wireProduct `json:"product"`
	Quantity  int         `json:"quantity"`
	ItemTotal wireMoney   `json:"itemTotal"`
}

type wireCart struct {
	ID       wireID         `json:"id"`
	Items    []wireCartItem `json:"items"`
	Subtotal wireMoney      `json:"subtotal"`
	Total    wireMoney      `json:"total"`
}

func (w wireCart) toDomain() domain.Cart {
	cart := domain.Cart{
		ID:            string(w.ID),
		SubtotalCents: int64(w.Subtotal),
		TotalCents:    int64(w.Total),
	}
	if len(w.Items) > 0 {
		cart.Lines = make([]domain.CartLine, 0, len(w.Items))
	}
	for _, item := range w.Items {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID:         string(item.ID),
			Product:    item.Product.toDomain().Snapshot(),
			Quantity:   item.Quantity,
			TotalCents: int64(item.ItemTotal),
		})
	}
	return cart
}

type wireOrderItem struct {
	ID          wireID    `json:"id"`
	ProductID   wireID    `json:"productId"`
	ProductName string    `json:"productName"`
	UnitPrice   wireMoney `json:"unitPrice"`
	Quantity    int       `json:"quantity"`
	Total       wireMoney `json:"total"`
}

type wireOrder struct {
	ID            wireID          `json:"id"`
	UserID        wireID          `json:"userId"`
	UserName      string          `json:"userName"`
	TotalAmount   wireMoney       `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	CreatedAt     wireTime        `json:"createdAt"`
	Items         []wireOrderItem `json:"items"`
}

func (w wireOrder) toDomain() domain.Order {
	o := domain.Order{
		ID:            string(w.ID),
		UserID:        string(w.UserID),
		UserName:      w.UserName,
		TotalCents:    int64(w.TotalAmount),
		Status:        domain.OrderStatus(w.Status),
		PaymentMethod: w.PaymentMethod,
		PaymentStatus: domain.PaymentStatus(w.PaymentStatus),
		Address:       w.Address,
		Phone:         w.Phone,
		CreatedAt:     time.Time(w.CreatedAt),
	}
	for _, it := range w.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:             string(it.ID),
			ProductID:      string(it.ProductID),
			ProductName:    it.ProductName,
			UnitPriceCents: int64(it.UnitPrice),
			Quantity:       it.Quantity,
			TotalCents:     int64(it.Total),
		})
	}
	return o
}

type wireBanner struct {
	ID           wireID   `json:"id"`
	ImageURL     string   `json:"imageUrl"`
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	DisplayOrder int      `json:"displayOrder"`
	IsActive     bool     `json:"isActive"`
	CreatedAt    wireTime `json:"createdAt"`
	UpdatedAt    wireTime `json:"updatedAt"`
}

func (w wireBanner) toDomain() domain.HeroBanner {
	return domain.HeroBanner{
		ID:           string(w.ID),
		ImageURL:     w.ImageURL,
		Title:        w.Title,
		Subtitle:     w.Subtitle,
		DisplayOrder: w.DisplayOrder,
		Active:       w.IsActive,
		CreatedAt:    time.Time(w.CreatedAt),
		UpdatedAt:    time.Time(w.UpdatedAt),
	}
}

// wireTime accepts RFC 3339 and zone-less local timestamps.
type wireTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		*t = wireTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unsupported format", s)
}
