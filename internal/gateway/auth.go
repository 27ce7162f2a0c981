package gateway

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

// Login exchanges credentials for a new Session. The receiver's own session, if
// any, is left alone.
func (c *Client) Login(ctx context.Context, creds storefront.Credentials) (*Session, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

func (c *Client) Register(ctx context.Context, reg storefront.Registration) (*Session, error) {
	return c.authenticate(ctx, "/auth/register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Session, error) {
	var out authResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, backendErr(http.StatusOK, "login response carried no token")
	}
	return NewSession(out.Token, out.User.canonical()), nil
}

// Me refreshes the session's user from GET /auth/me.
func (c *Client) Me(ctx context.Context) (storefront.User, error) {
	var out wireUser
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", auth: true}, &out); err != nil {
		return storefront.User{}, err
	}
	u := out.canonical()
	c.session.SetUser(u)
	return u, nil
}

// Logout destroys the bound session. The API keeps no server-side state for it.
func (c *Client) Logout() {
	c.session.Destroy()
}
