// ABOUTME: Admin-only endpoints for user and request management
// ABOUTME: The backend enforces the admin role; clients gate these in the UI only

package api

import (
	"context"
	"fmt"
)

// AdminUser is a user record as the admin endpoints return it
type AdminUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// AdminRequest is a request record including both parties' usernames
type AdminRequest struct {
	ID                int    `json:"id"`
	ItemID            int    `json:"item_id"`
	ItemTitle         string `json:"item_title"`
	RequesterID       int    `json:"requester_id"`
	RequesterUsername string `json:"requester_username"`
	OwnerID           int    `json:"owner_id"`
	OwnerUsername     string `json:"owner_username"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

// AdminUsers calls GET /admin/users
func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var users []AdminUser
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateAdminUser calls POST /admin/create_admin_user and returns the new
// admin's user ID
func (c *Client) CreateAdminUser(ctx context.Context, input RegisterInput) (int, error) {
	var resp createdResponse
	if err := c.post(ctx, "/admin/create_admin_user", input, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// AdminRequests calls GET /admin/requests
func (c *Client) AdminRequests(ctx context.Context) ([]AdminRequest, error) {
	var reqs []AdminRequest
	if err := c.get(ctx, "/admin/requests", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// AdminDeleteRequest calls DELETE /admin/requests/{id}
func (c *Client) AdminDeleteRequest(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/admin/requests/%d", id), nil)
}

// AdminDeleteUser calls DELETE /admin/users/{id}, removing the user and
// all of their items, requests, and ratings
func (c *Client) AdminDeleteUser(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/admin/users/%d", id), nil)
}
