package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

type cartItemRequest struct {
	ProductID wireID `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart fetches the authoritative cart.
func (c *Client) GetCart(ctx context.Context, credential string) (domain.Cart, error) {
	var out wireCart
	if err := c.do(ctx, request{method: http.MethodGet, path: "/cart", credential: credential}, &out); err != nil {
		return domain.Cart{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) AddCartItem(ctx context.Context, credential, productID string, quantity int) error {
	return c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/cart/items",
		credential: credential,
		body:       cartItemRequest{ProductID: wireID(productID), Quantity: quantity},
	}, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, credential, lineID, productID string, quantity int) error {
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       idPath("/cart/items", lineID),
		credential: credential,
		body:       cartItemRequest{ProductID: wireID(productID), Quantity: quantity},
	}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, credential, lineID string) error {
	return c.do(ctx, request{
		method:     http.MethodDelete,
		path:       idPath("/cart/items", lineID),
		credential: credential,
	}, nil)
}
