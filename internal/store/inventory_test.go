package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"larder/internal/database"
)

func setupInventoryTestDB(t *testing.T) *InventoryStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewInventoryStore(db)
}

func TestItemInsertAndGet(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	item, err := s.Insert(ctx, "Groceries", "Soy Sauce", 1, "dark")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected assigned id")
	}
	if item.Name != "Soy Sauce" {
		t.Errorf("name = %q, want %q", item.Name, "Soy Sauce")
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", item.Quantity)
	}
	if item.Category != "Groceries" {
		t.Errorf("category = %q, want %q", item.Category, "Groceries")
	}
	if item.Notes != "dark" {
		t.Errorf("notes = %q, want %q", item.Notes, "dark")
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := s.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Soy Sauce" {
		t.Errorf("got name = %q, want %q", got.Name, "Soy Sauce")
	}
}

func TestItemGetNotFound(t *testing.T) {
	s := setupInventoryTestDB(t)

	_, err := s.Get(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	first, _ := s.Insert(ctx, "Groceries", "Rice", 1, "")
	second, _ := s.Insert(ctx, "Household", "Sponges", 3, "")

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != second.ID {
		t.Errorf("items[0].ID = %d, want %d (inserted last)", items[0].ID, second.ID)
	}
	if items[1].ID != first.ID {
		t.Errorf("items[1].ID = %d, want %d (inserted first)", items[1].ID, first.ID)
	}
}

func TestListReflectsInsertAndDelete(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	item, _ := s.Insert(ctx, "Groceries", "Miso", 1, "")

	items, _ := s.List(ctx)
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("expected list to contain the inserted item, got %v", items)
	}

	if err := s.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ = s.List(ctx)
	if len(items) != 0 {
		t.Errorf("expected empty list after delete, got %d items", len(items))
	}
}

func TestAdjustQuantity(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	item, _ := s.Insert(ctx, "Groceries", "Eggs", 5, "")

	q, err := s.AdjustQuantity(ctx, item.ID, 1)
	if err != nil {
		t.Fatalf("adjust +1: %v", err)
	}
	if q != 6 {
		t.Errorf("quantity = %d, want 6", q)
	}

	q, err = s.AdjustQuantity(ctx, item.ID, -2)
	if err != nil {
		t.Fatalf("adjust -2: %v", err)
	}
	if q != 4 {
		t.Errorf("quantity = %d, want 4", q)
	}
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	item, _ := s.Insert(ctx, "Groceries", "Flour", 2, "")

	q, err := s.AdjustQuantity(ctx, item.ID, -100)
	if err != nil {
		t.Fatalf("adjust -100: %v", err)
	}
	if q != 0 {
		t.Errorf("quantity = %d, want 0", q)
	}

	// Decrementing at the floor stays at the floor.
	q, err = s.AdjustQuantity(ctx, item.ID, -1)
	if err != nil {
		t.Fatalf("adjust at zero: %v", err)
	}
	if q != 0 {
		t.Errorf("quantity = %d, want 0", q)
	}
}

func TestAdjustQuantityNotFound(t *testing.T) {
	s := setupInventoryTestDB(t)

	_, err := s.AdjustQuantity(context.Background(), 9999, -1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAdjustQuantityConcurrent(t *testing.T) {
	// File-backed db: with ":memory:" every pooled connection gets its own
	// database, and this test needs two connections at once.
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s := NewInventoryStore(db)
	ctx := context.Background()

	item, _ := s.Insert(ctx, "Groceries", "Butter", 5, "")

	// Two concurrent -1s from 5 must land on 3: the clamp runs inside the
	// UPDATE, so there is no read-modify-write window to lose one.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AdjustQuantity(ctx, item.ID, -1); err != nil {
				t.Errorf("concurrent adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", got.Quantity)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	item, _ := s.Insert(ctx, "Groceries", "Tea", 1, "")

	if err := s.Delete(ctx, item.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(ctx, item.ID); err != nil {
		t.Errorf("second delete should be a no-op success, got %v", err)
	}
}

func TestCategoriesDistinctSorted(t *testing.T) {
	s := setupInventoryTestDB(t)
	ctx := context.Background()

	s.Insert(ctx, "Household", "Soap", 1, "")
	s.Insert(ctx, "Groceries", "Rice", 1, "")
	s.Insert(ctx, "Groceries", "Noodles", 2, "")

	categories, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []string{"Groceries", "Household"}
	if len(categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(categories))
	}
	for i, c := range want {
		if categories[i] != c {
			t.Errorf("categories[%d] = %q, want %q", i, categories[i], c)
		}
	}
}
