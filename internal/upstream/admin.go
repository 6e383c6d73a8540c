package upstream

import (
	"context"
	"net/http"
)

// AdminClient talks to the administrator service for user management.
type AdminClient struct {
	*Client
}

func NewAdminClient(cfg Config) (*AdminClient, error) {
	cfg.Service = "admin"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &AdminClient{Client: c}, nil
}

// Profile fetches the aggregated administrator profile for a user.
func (c *AdminClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/administrators/"+userID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns every user merged with identity data.
func (c *AdminClient) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.get(ctx, "/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUserRequest is the admin create-user payload. Role-specific fields
// travel only when set.
type CreateUserRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	UserType       string `json:"user_type"`
	EmployeeID     string `json:"employee_id,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
}

// CreateUser provisions a user via the admin service, which orchestrates the
// identity registration. A 409 means the username already exists.
func (c *AdminClient) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var out User
	if err := c.post(ctx, "/users/create/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user. Both 200 and 204 count as success.
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	return c.delete(ctx, "/users/"+userID+"/")
}
