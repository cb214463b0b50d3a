package repository

import "time"

// Product represents a catalog row. Price is nil for priceless products.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       *int64
	Category    string
	Image       string
}

// Order represents a placed order row.
type Order struct {
	ID        string
	Payment   string
	Address   string
	Email     string
	Phone     string
	Total     int64
	CreatedAt time.Time
	ItemIDs   []string
}
