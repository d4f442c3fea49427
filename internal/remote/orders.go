package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

// PlaceOrder converts the current server cart into an order.
func (c *Client) PlaceOrder(ctx context.Context, credential string, in domain.CheckoutInput) (domain.Order, error) {
	var out wireOrder
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/orders",
		credential: credential,
		body:       in,
	}, &out)
	if err != nil {
		return domain.Order{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) ListOrders(ctx context.Context, credential string) ([]domain.Order, error) {
	return c.listOrders(ctx, request{method: http.MethodGet, path: "/orders", credential: credential})
}

func (c *Client) GetOrder(ctx context.Context, credential, id string) (domain.Order, error) {
	return c.getOrder(ctx, request{method: http.MethodGet, path: idPath("/orders", id), credential: credential})
}

func (c *Client) listOrders(ctx context.Context, req request) ([]domain.Order, error) {
	var out []wireOrder
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(out))
	for _, w := range out {
		orders = append(orders, w.toDomain())
	}
	return orders, nil
}

func (c *Client) getOrder(ctx context.Context, req request) (domain.Order, error) {
	var out wireOrder
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Order{}, err
	}
	return out.toDomain(), nil
}
