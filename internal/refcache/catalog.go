// Package refcache keeps catalog reference data for a freshness window so wizard
// steps do not refetch colors, options or branches on every render.
package refcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

// Source is the set of side-effect-free reads the cache fronts. *gateway.Client
// satisfies it, and so does *Catalog.
type Source interface {
	ListTrims(ctx context.Context, f storefront.TrimFilter) ([]storefront.Trim, error)
	GetTrim(ctx context.Context, id string) (storefront.Trim, error)
	ListBrands(ctx context.Context) ([]storefront.Brand, error)
	ListModels(ctx context.Context, brandID string) ([]storefront.Model, error)
	ListGenerations(ctx context.Context, modelID string) ([]storefront.Generation, error)
	ListEngineTypes(ctx context.Context) ([]storefront.Dictionary, error)
	ListTransmissions(ctx context.Context) ([]storefront.Dictionary, error)
	ListDriveTypes(ctx context.Context) ([]storefront.Dictionary, error)
	ListColors(ctx context.Context) ([]storefront.Color, error)
	ListOptions(ctx context.Context, trimID string) ([]storefront.AddOn, error)
	ListBranches(ctx context.Context, activeOnly *bool) ([]storefront.Branch, error)
	ListServiceTypes(ctx context.Context, availableOnly *bool) ([]storefront.ServiceType, error)
}

type shared struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

type Catalog struct {
	*shared
	src Source
}

var _ Source = (*Catalog)(nil)

func New(store Store, ttl time.Duration, log *logger.Logger) *Catalog {
	if ttl <= 0 {
		ttl = redisx.TTLReference
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{shared: &shared{store: store, ttl: ttl, log: log.With("component", "refcache")}}
}

// WithSource binds the cache to a reader, typically a session-bound gateway client.
// The store and in-flight dedup are shared between bindings.
func (c *Catalog) WithSource(src Source) *Catalog {
	return &Catalog{shared: c.shared, src: src}
}

func key(resource, variant string) string {
	return fmt.Sprintf(redisx.KeyReference, resource, variant)
}

func load[T any](ctx context.Context, c *Catalog, k string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if b, ok, err := c.store.Get(ctx, k); err != nil {
		c.log.Warn("cache read failed", "key", k, "err", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		c.log.Warn("cache entry corrupt, refetching", "key", k)
	}

	// The flight outlives the caller that started it. Joiners of a failed
	// flight refetch through their own source.
	led := false
	v, err, _ := c.group.Do(k, func() (any, error) {
		led = true
		return fill(context.WithoutCancel(ctx), c, k, fetch)
	})
	if err != nil && !led {
		v, err = fill(ctx, c, k, fetch)
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func fill[T any](ctx context.Context, c *Catalog, k string, fetch func(context.Context) (T, error)) (any, error) {
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(v); err == nil {
		if err := c.store.Set(ctx, k, b, c.ttl); err != nil {
			c.log.Warn("cache write failed", "key", k, "err", err)
		}
	}
	return v, nil
}

// Invalidate drops the given cache keys.
func (c *Catalog) Invalidate(ctx context.Context, keys ...string) error {
	return c.store.Delete(ctx, keys...)
}

func trimFilterKey(f storefront.TrimFilter) string {
	part := func(name string, ids []string) string {
		cp := append([]string(nil), ids...)
		sort.Strings(cp)
		return name + "=" + strings.Join(cp, ",")
	}
	parts := []string{
		part("b", f.BrandIDs),
		part("e", f.EngineTypeIDs),
		part("t", f.TransmissionIDs),
		part("d", f.DriveTypeIDs),
	}
	if f.MinPrice != nil {
		parts = append(parts, "min="+f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		parts = append(parts, "max="+f.MaxPrice.String())
	}
	parts = append(parts, "avail="+boolKey(f.AvailableOnly))
	return strings.Join(parts, ";")
}

func boolKey(b *bool) string {
	switch {
	case b == nil:
		return "any"
	case *b:
		return "true"
	}
	return "false"
}

func (c *Catalog) ListTrims(ctx context.Context, f storefront.TrimFilter) ([]storefront.Trim, error) {
	return load(ctx, c, key("trims", trimFilterKey(f)), func(ctx context.Context) ([]storefront.Trim, error) {
		return c.src.ListTrims(ctx, f)
	})
}

func (c *Catalog) GetTrim(ctx context.Context, id string) (storefront.Trim, error) {
	return load(ctx, c, key("trim", id), func(ctx context.Context) (storefront.Trim, error) {
		return c.src.GetTrim(ctx, id)
	})
}

func (c *Catalog) ListBrands(ctx context.Context) ([]storefront.Brand, error) {
	return load(ctx, c, key("brands", "all"), c.src.ListBrands)
}

func (c *Catalog) ListModels(ctx context.Context, brandID string) ([]storefront.Model, error) {
	return load(ctx, c, key("models", brandID), func(ctx context.Context) ([]storefront.Model, error) {
		return c.src.ListModels(ctx, brandID)
	})
}

func (c *Catalog) ListGenerations(ctx context.Context, modelID string) ([]storefront.Generation, error) {
	return load(ctx, c, key("generations", modelID), func(ctx context.Context) ([]storefront.Generation, error) {
		return c.src.ListGenerations(ctx, modelID)
	})
}

func (c *Catalog) ListEngineTypes(ctx context.Context) ([]storefront.Dictionary, error) {
	return load(ctx, c, key("engine-types", "all"), c.src.ListEngineTypes)
}

func (c *Catalog) ListTransmissions(ctx context.Context) ([]storefront.Dictionary, error) {
	return load(ctx, c, key("transmissions", "all"), c.src.ListTransmissions)
}

func (c *Catalog) ListDriveTypes(ctx context.Context) ([]storefront.Dictionary, error) {
	return load(ctx, c, key("drive-types", "all"), c.src.ListDriveTypes)
}

func (c *Catalog) ListColors(ctx context.Context) ([]storefront.Color, error) {
	return load(ctx, c, key("colors", "all"), c.src.ListColors)
}

func (c *Catalog) ListOptions(ctx context.Context, trimID string) ([]storefront.AddOn, error) {
	return load(ctx, c, key("options", trimID), func(ctx context.Context) ([]storefront.AddOn, error) {
		return c.src.ListOptions(ctx, trimID)
	})
}

func (c *Catalog) ListBranches(ctx context.Context, activeOnly *bool) ([]storefront.Branch, error) {
	return load(ctx, c, key("branches", boolKey(activeOnly)), func(ctx context.Context) ([]storefront.Branch, error) {
		return c.src.ListBranches(ctx, activeOnly)
	})
}

func (c *Catalog) ListServiceTypes(ctx context.Context, availableOnly *bool) ([]storefront.ServiceType, error) {
	return load(ctx, c, key("service-types", boolKey(availableOnly)), func(ctx context.Context) ([]storefront.ServiceType, error) {
		return c.src.ListServiceTypes(ctx, availableOnly)
	})
}
