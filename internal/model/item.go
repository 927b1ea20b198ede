package model

import "time"

// InventoryItem is one row of household stock. Quantity never goes below
// zero; decrements clamp at the floor.
type InventoryItem struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
