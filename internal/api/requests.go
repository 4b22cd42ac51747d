// ABOUTME: Exchange request endpoints: create, sent, received, status updates
// ABOUTME: A request asks another user for one of their items

package api

import (
	"context"
	"fmt"
)

// Request statuses and the transitions the backend accepts
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestRejected  = "rejected"
	RequestCancelled = "cancelled"
)

// SentRequest is a request the current user made for someone else's item
type SentRequest struct {
	ID        int    `json:"id"`
	ItemID    int    `json:"item_id"`
	ItemTitle string `json:"item_title"`
	OwnerID   int    `json:"owner_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ReceivedRequest is a request another user made for the current user's item
type ReceivedRequest struct {
	ID                int    `json:"id"`
	ItemID            int    `json:"item_id"`
	ItemTitle         string `json:"item_title"`
	RequesterID       int    `json:"requester_id"`
	RequesterUsername string `json:"requester_username"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

// CreateRequest calls POST /requests for the given item and returns the
// new request's ID. The backend rejects requests for your own items and
// duplicate pending requests.
func (c *Client) CreateRequest(ctx context.Context, itemID int) (int, error) {
	body := struct {
		ItemID int `json:"item_id"`
	}{ItemID: itemID}

	var resp createdResponse
	if err := c.post(ctx, "/requests", body, &resp); err != nil {
		return 0, err
	}
	return resp.RequestID, nil
}

// SentRequests calls GET /requests/sent
func (c *Client) SentRequests(ctx context.Context) ([]SentRequest, error) {
	var reqs []SentRequest
	if err := c.get(ctx, "/requests/sent", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ReceivedRequests calls GET /requests/received
func (c *Client) ReceivedRequests(ctx context.Context) ([]ReceivedRequest, error) {
	var reqs []ReceivedRequest
	if err := c.get(ctx, "/requests/received", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateRequestStatus calls PUT /requests/{id}/status. Only the item's
// owner may change status, and only to accepted, rejected, or cancelled.
func (c *Client) UpdateRequestStatus(ctx context.Context, id int, status string) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.put(ctx, fmt.Sprintf("/requests/%d/status", id), body, nil)
}
