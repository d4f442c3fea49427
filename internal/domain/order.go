package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus returns the status for s, or false when s is not a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return st, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

const (
	PaymentCashOnDelivery = "Cash on Delivery"
	PaymentCard           = "Card Payment"
)

type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	UserName      string        `json:"userName"`
	TotalCents    int64         `json:"totalAmountCents"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Address       string        `json:"address"`
	Phone         string        `json:"phone"`
	CreatedAt     time.Time     `json:"createdAt"`
	Items         []OrderItem   `json:"items"`
}

type OrderItem struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	TotalCents     int64  `json:"totalCents"`
}
