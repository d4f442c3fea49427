package domain

import "time"

type HeroBanner struct {
	ID           string    `json:"id"`
	ImageURL     string    `json:"imageUrl"`
	Title        string    `json:"title,omitempty"`
	Subtitle     string    `json:"subtitle,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
