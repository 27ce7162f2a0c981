package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func (c *Client) ListTrims(ctx context.Context, f storefront.TrimFilter) ([]storefront.Trim, error) {
	q := url.Values{}
	setIf(q, "brand_id", joinIDs(f.BrandIDs))
	setIf(q, "engine_type_id", joinIDs(f.EngineTypeIDs))
	setIf(q, "transmission_id", joinIDs(f.TransmissionIDs))
	setIf(q, "drive_type_id", joinIDs(f.DriveTypeIDs))
	if f.MinPrice != nil {
		q.Set("min_price", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("max_price", f.MaxPrice.String())
	}
	setIf(q, "is_available", boolParam(f.AvailableOnly))

	var out []wireTrim
	if err := c.do(ctx, call{method: http.MethodGet, path: "/catalog/trims", query: q}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireTrim.canonical), nil
}

func (c *Client) GetTrim(ctx context.Context, id string) (storefront.Trim, error) {
	var out wireTrim
	if err := c.do(ctx, call{method: http.MethodGet, path: "/catalog/trims/" + url.PathEscape(id)}, &out); err != nil {
		return storefront.Trim{}, err
	}
	return out.canonical(), nil
}

func (c *Client) ListBrands(ctx context.Context) ([]storefront.Brand, error) {
	var out []wireBrand
	if err := c.do(ctx, call{method: http.MethodGet, path: "/catalog/brands"}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireBrand.canonical), nil
}

func (c *Client) ListModels(ctx context.Context, brandID string) ([]storefront.Model, error) {
	q := url.Values{"brand_id": {brandID}}
	var out []wireModel
	if err := c.do(ctx, call{method: http.MethodGet, path: "/catalog/models", query: q}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireModel.canonical), nil
}

func (c *Client) ListGenerations(ctx context.Context, modelID string) ([]storefront.Generation, error) {
	q := url.Values{"model_id": {modelID}}
	var out []wireGeneration
	if err := c.do(ctx, call{method: http.MethodGet, path: "/catalog/generations", query: q}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireGeneration.canonical), nil
}

func (c *Client) ListEngineTypes(ctx context.Context) ([]storefront.Dictionary, error) {
	return c.dictionary(ctx, "/catalog/engine-types")
}

func (c *Client) ListTransmissions(ctx context.Context) ([]storefront.Dictionary, error) {
	return c.dictionary(ctx, "/catalog/transmissions")
}

func (c *Client) ListDriveTypes(ctx context.Context) ([]storefront.Dictionary, error) {
	return c.dictionary(ctx, "/catalog/drive-types")
}

func (c *Client) dictionary(ctx context.Context, path string) ([]storefront.Dictionary, error) {
	var out []wireDictionary
	if err := c.do(ctx, call{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireDictionary.canonical), nil
}
