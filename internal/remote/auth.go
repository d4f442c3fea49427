package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

// Login exchanges email and password for a credential and the identity it belongs to.
func (c *Client) Login(ctx context.Context, email, password string) (string, domain.Identity, error) {
	var out wireAuth
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return "", domain.Identity{}, err
	}
	return out.Token, out.toDomain(), nil
}

// Register creates an account and returns its credential and identity.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, domain.Identity, error) {
	var out wireAuth
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   map[string]string{"name": name, "email": email, "password": password},
	}, &out)
	if err != nil {
		return "", domain.Identity{}, err
	}
	return out.Token, out.toDomain(), nil
}

// WhoAmI returns the server's view of the identity bound to credential.
func (c *Client) WhoAmI(ctx context.Context, credential string) (domain.Identity, error) {
	var out wireIdentity
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", credential: credential}, &out); err != nil {
		return domain.Identity{}, err
	}
	return out.toDomain(), nil
}
