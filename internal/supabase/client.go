package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"larder/internal/model"
	"larder/internal/store"
)

// Single synchronous round trip per operation; a slow store is an unavailable
// store.
const requestTimeout = 5 * time.Second

// Client talks to a hosted Supabase (PostgREST) table holding the inventory.
// It implements store.Inventory. Atomic quantity adjustment goes through the
// adjust_item_quantity database function so the clamp-at-zero expression runs
// inside the store, not here:
//
//	create function adjust_item_quantity(item_id bigint, delta int)
//	returns int language sql as $$
//	  update household_inventory
//	     set quantity = greatest(0, quantity + delta)
//	   where id = item_id
//	   returning quantity;
//	$$;
type Client struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
}

var _ store.Inventory = (*Client)(nil)

// New creates a client for the project at baseURL (e.g.
// https://xyz.supabase.co) using the given service or anon key.
func New(baseURL, key, table string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		table:   table,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

const itemSelect = "id,category,name,quantity,notes,created_at"

func (c *Client) List(ctx context.Context) ([]model.InventoryItem, error) {
	q := url.Values{}
	q.Set("select", itemSelect)
	q.Set("order", "created_at.desc,id.desc")

	var items []model.InventoryItem
	if err := c.do(ctx, http.MethodGet, c.tableURL(q), nil, nil, &items); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*model.InventoryItem, error) {
	q := url.Values{}
	q.Set("select", itemSelect)
	q.Set("id", fmt.Sprintf("eq.%d", id))
	q.Set("limit", "1")

	var items []model.InventoryItem
	if err := c.do(ctx, http.MethodGet, c.tableURL(q), nil, nil, &items); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(items) == 0 {
		return nil, store.ErrNotFound
	}
	return &items[0], nil
}

func (c *Client) Insert(ctx context.Context, category, name string, quantity int, notes string) (*model.InventoryItem, error) {
	body := map[string]any{
		"category": category,
		"name":     name,
		"quantity": quantity,
		"notes":    notes,
	}

	// Prefer: return=representation makes PostgREST echo the stored row,
	// including the assigned id and created_at.
	var items []model.InventoryItem
	headers := map[string]string{"Prefer": "return=representation"}
	if err := c.do(ctx, http.MethodPost, c.tableURL(nil), headers, body, &items); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("insert item: %w: empty representation", store.ErrUnavailable)
	}
	return &items[0], nil
}

func (c *Client) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	body := map[string]any{"item_id": id, "delta": delta}

	// The function returns NULL when the row is gone (deleted by another
	// visitor between the caller's list and this action).
	var quantity *int
	rpcURL := c.baseURL + "/rest/v1/rpc/adjust_item_quantity"
	if err := c.do(ctx, http.MethodPost, rpcURL, nil, body, &quantity); err != nil {
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}
	if quantity == nil {
		return 0, store.ErrNotFound
	}
	return *quantity, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", fmt.Sprintf("eq.%d", id))

	// PostgREST answers 204 whether or not a row matched, which is exactly
	// the no-op-success semantics delete wants.
	if err := c.do(ctx, http.MethodDelete, c.tableURL(q), nil, nil, nil); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("select", "category")

	var rows []struct {
		Category string `json:"category"`
	}
	if err := c.do(ctx, http.MethodGet, c.tableURL(q), nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	var categories []string
	for _, r := range rows {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (c *Client) tableURL(q url.Values) string {
	u := c.baseURL + "/rest/v1/" + c.table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do performs one round trip and decodes the JSON response into out (if
// non-nil). Transport failures, timeouts and non-2xx responses all map to
// store.ErrUnavailable; there is no retry.
func (c *Client) do(ctx context.Context, method, rawURL string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", store.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", store.ErrUnavailable, err)
	}
	return nil
}
