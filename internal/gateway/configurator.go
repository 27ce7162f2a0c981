package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func (c *Client) ListColors(ctx context.Context) ([]storefront.Color, error) {
	var out []wireColor
	if err := c.do(ctx, call{method: http.MethodGet, path: "/configurator/colors", auth: true}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireColor.canonical), nil
}

func (c *Client) ListOptions(ctx context.Context, trimID string) ([]storefront.AddOn, error) {
	q := url.Values{"trim_id": {trimID}}
	var out []wireOption
	if err := c.do(ctx, call{method: http.MethodGet, path: "/configurator/options", query: q, auth: true}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireOption.canonical), nil
}

func (c *Client) CreateConfiguration(ctx context.Context, in storefront.ConfigurationCreate) (storefront.Configuration, error) {
	if in.OptionIDs == nil {
		in.OptionIDs = []string{}
	}
	var out wireConfiguration
	err := c.do(ctx, call{method: http.MethodPost, path: "/configurator/configurations", body: in, auth: true}, &out)
	if err != nil {
		return storefront.Configuration{}, err
	}
	return out.canonical(), nil
}

func (c *Client) GetConfiguration(ctx context.Context, id string) (storefront.Configuration, error) {
	var out wireConfiguration
	err := c.do(ctx, call{method: http.MethodGet, path: "/configurator/configurations/" + url.PathEscape(id), auth: true}, &out)
	if err != nil {
		return storefront.Configuration{}, err
	}
	return out.canonical(), nil
}

func (c *Client) UpdateConfiguration(ctx context.Context, id string, in storefront.ConfigurationUpdate) (storefront.Configuration, error) {
	var out wireConfiguration
	err := c.do(ctx, call{method: http.MethodPut, path: "/configurator/configurations/" + url.PathEscape(id), body: in, auth: true}, &out)
	if err != nil {
		return storefront.Configuration{}, err
	}
	return out.canonical(), nil
}

func (c *Client) DeleteConfiguration(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/configurator/configurations/" + url.PathEscape(id), auth: true}, nil)
}

func (c *Client) ListConfigurations(ctx context.Context) ([]storefront.Configuration, error) {
	var out []wireConfiguration
	if err := c.do(ctx, call{method: http.MethodGet, path: "/profile/configurations", auth: true}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireConfiguration.canonical), nil
}
