// ABOUTME: Item listing and CRUD endpoints
// ABOUTME: Items are the goods users offer for exchange

package api

import (
	"context"
	"fmt"
)

// Item statuses assigned by the backend
const (
	ItemAvailable = "available"
	ItemExchanged = "exchanged"
)

// Item is a marketplace listing
type Item struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
	CreatedAt   string `json:"created_at"`
	Status      string `json:"status"`
	UserID      int    `json:"user_id"`
}

// ItemInput carries the writable item fields. On update, empty fields are
// omitted so the backend only touches what the caller set.
type ItemInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ListItems calls GET /items. Works unauthenticated; the backend returns
// every listing.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.get(ctx, "/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem calls GET /items/{id}
func (c *Client) GetItem(ctx context.Context, id int) (*Item, error) {
	var item Item
	if err := c.get(ctx, fmt.Sprintf("/items/%d", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem calls POST /items and returns the new item's ID
func (c *Client) CreateItem(ctx context.Context, input ItemInput) (int, error) {
	var resp createdResponse
	if err := c.post(ctx, "/items", input, &resp); err != nil {
		return 0, err
	}
	return resp.ItemID, nil
}

// UpdateItem calls PATCH /items/{id}. Only the item's owner may update it.
func (c *Client) UpdateItem(ctx context.Context, id int, input ItemInput) error {
	return c.patch(ctx, fmt.Sprintf("/items/%d", id), input, nil)
}

// DeleteItem calls DELETE /items/{id}. Only the item's owner may delete it.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/items/%d", id), nil)
}
