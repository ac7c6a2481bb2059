package store

import (
	"github.com/shopspring/decimal"

	"order-console/model"
)

// Seed returns the static demo catalog the console starts with.
func Seed() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        "Premium Wireless Headphones",
			Price:       decimal.RequireFromString("199.99"),
			Inventory:   50,
			Description: "High-quality wireless headphones with noise cancellation",
			Image:       "https://via.placeholder.com/150",
		},
		{
			ID:          "2",
			Name:        "Smart Watch Series 5",
			Price:       decimal.RequireFromString("299.99"),
			Inventory:   30,
			Description: "Latest smartwatch with health monitoring features",
			Image:       "https://via.placeholder.com/150",
		},
		{
			ID:          "3",
			Name:        "Professional Camera Kit",
			Price:       decimal.RequireFromString("899.99"),
			Inventory:   15,
			Description: "Complete camera kit for professional photography",
			Image:       "https://via.placeholder.com/150",
		},
		{
			ID:          "4",
			Name:        "Gaming Laptop Pro",
			Price:       decimal.RequireFromString("1299.99"),
			Inventory:   20,
			Description: "High-performance gaming laptop with RTX graphics",
			Image:       "https://via.placeholder.com/150",
		},
		{
			ID:          "5",
			Name:        "Wireless Earbuds",
			Price:       decimal.RequireFromString("79.99"),
			Inventory:   100,
			Description: "True wireless earbuds with premium sound quality",
			Image:       "https://via.placeholder.com/150",
		},
	}
}
