package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"larder/internal/model"
)

// Inventory is the four-operation contract against the household inventory
// table, plus the reads the UI needs. Implementations: InventoryStore (local
// SQLite) and supabase.Client (hosted PostgREST).
type Inventory interface {
	// List returns all items ordered by created_at descending (newest first).
	List(ctx context.Context) ([]model.InventoryItem, error)
	// Get returns one item, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.InventoryItem, error)
	// Insert creates a new row and returns it as stored (id and created_at
	// assigned by the store). Validation of name/quantity happens at the
	// handler boundary.
	Insert(ctx context.Context, category, name string, quantity int, notes string) (*model.InventoryItem, error)
	// AdjustQuantity applies quantity = max(0, quantity+delta) as a single
	// store-side expression and returns the new quantity. Returns ErrNotFound
	// when the id no longer exists.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
	// Delete removes a row. Deleting an id that is already gone is a no-op
	// success.
	Delete(ctx context.Context, id int64) error
	// Categories returns the distinct category labels currently in use,
	// sorted ascending.
	Categories(ctx context.Context) ([]string, error)
}

// InventoryStore is the local SQLite implementation of Inventory.
type InventoryStore struct {
	db *sql.DB
}

var _ Inventory = (*InventoryStore)(nil)

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

const itemCols = `id, category, name, quantity, notes, created_at`

func scanItem(scanner interface{ Scan(...any) error }) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := scanner.Scan(&item.ID, &item.Category, &item.Name, &item.Quantity, &item.Notes, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *InventoryStore) List(ctx context.Context) ([]model.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM inventory_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *InventoryStore) Get(ctx context.Context, id int64) (*model.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM inventory_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *InventoryStore) Insert(ctx context.Context, category, name string, quantity int, notes string) (*model.InventoryItem, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_items (category, name, quantity, notes) VALUES (?, ?, ?, ?)`,
		category, name, quantity, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// AdjustQuantity clamps at zero inside the UPDATE itself, so two concurrent
// adjustments on the same row both take effect (no read-modify-write window).
func (s *InventoryStore) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	var quantity int
	err := s.db.QueryRowContext(ctx,
		`UPDATE inventory_items SET quantity = MAX(0, quantity + ?) WHERE id = ? RETURNING quantity`,
		delta, id,
	).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}
	return quantity, nil
}

func (s *InventoryStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *InventoryStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM inventory_items ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
