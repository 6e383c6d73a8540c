package upstream

import (
	"context"
	"net/http"
)

// IdentityClient authenticates credentials against the identity service.
type IdentityClient struct {
	*Client
}

func NewIdentityClient(cfg Config) (*IdentityClient, error) {
	cfg.Service = "identity"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &IdentityClient{Client: c}, nil
}

// LoginResponse is the identity payload a successful login returns.
type LoginResponse struct {
	ID        string `json:"id"`
	UserType  string `json:"user_type"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Login exchanges credentials for an identity. A 401 surfaces as a status
// error; callers translate it to "Invalid username or password."
func (c *IdentityClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var out LoginResponse
	if err := c.post(ctx, "/login/", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
