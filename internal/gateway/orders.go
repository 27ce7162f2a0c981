package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func (c *Client) CreateOrder(ctx context.Context, in storefront.OrderCreate) (storefront.Order, error) {
	var out wireOrder
	if err := c.do(ctx, call{method: http.MethodPost, path: "/orders", body: in, auth: true}, &out); err != nil {
		return storefront.Order{}, err
	}
	return out.canonical(), nil
}

func (c *Client) ListOrders(ctx context.Context) ([]storefront.Order, error) {
	var out []wireOrder
	if err := c.do(ctx, call{method: http.MethodGet, path: "/orders", auth: true}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireOrder.canonical), nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (storefront.Order, error) {
	var out wireOrder
	if err := c.do(ctx, call{method: http.MethodGet, path: "/orders/" + url.PathEscape(id), auth: true}, &out); err != nil {
		return storefront.Order{}, err
	}
	return out.canonical(), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status storefront.OrderStatus) error {
	body := map[string]storefront.OrderStatus{"status": status}
	return c.do(ctx, call{method: http.MethodPatch, path: "/orders/" + url.PathEscape(id) + "/status", body: body, auth: true}, nil)
}
