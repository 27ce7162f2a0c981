package refcache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type countingSource struct {
	Source
	colors  atomic.Int32
	options atomic.Int32
	trims   atomic.Int32
	fail    bool
}

func (s *countingSource) ListColors(context.Context) ([]storefront.Color, error) {
	s.colors.Add(1)
	if s.fail {
		return nil, errors.New("boom")
	}
	return []storefront.Color{{ID: "c1", Name: "White", Available: true}, {ID: "c2", PriceDelta: pricing.FromUnits(50_000), Available: true}}, nil
}

func (s *countingSource) ListOptions(_ context.Context, trimID string) ([]storefront.AddOn, error) {
	s.options.Add(1)
	return []storefront.AddOn{{ID: "o-" + trimID, Price: pricing.FromUnits(30_000), Available: true}}, nil
}

func (s *countingSource) ListTrims(context.Context, storefront.TrimFilter) ([]storefront.Trim, error) {
	s.trims.Add(1)
	return []storefront.Trim{{ID: "t1"}}, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCatalog(src Source) (*Catalog, *clock) {
	clk := &clock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clk.now
	return New(store, 5*time.Minute, nil).WithSource(src), clk
}

func TestCatalogServesWithinFreshnessWindow(t *testing.T) {
	src := &countingSource{}
	c, clk := newCatalog(src)
	ctx := context.Background()

	first, err := c.ListColors(ctx)
	require.NoError(t, err)
	clk.t = clk.t.Add(4 * time.Minute)
	second, err := c.ListColors(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, pricing.FromUnits(50_000), second[1].PriceDelta)
	assert.EqualValues(t, 1, src.colors.Load())

	clk.t = clk.t.Add(2 * time.Minute)
	_, err = c.ListColors(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.colors.Load(), "expired entry refetches")
}

func TestCatalogKeysOptionsPerTrim(t *testing.T) {
	src := &countingSource{}
	c, _ := newCatalog(src)
	ctx := context.Background()

	a, err := c.ListOptions(ctx, "t1")
	require.NoError(t, err)
	b, err := c.ListOptions(ctx, "t2")
	require.NoError(t, err)
	_, err = c.ListOptions(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, "o-t1", a[0].ID)
	assert.Equal(t, "o-t2", b[0].ID)
	assert.EqualValues(t, 2, src.options.Load())
}

func TestCatalogTrimFilterKeyIgnoresOrder(t *testing.T) {
	src := &countingSource{}
	c, _ := newCatalog(src)
	ctx := context.Background()

	_, err := c.ListTrims(ctx, storefront.TrimFilter{BrandIDs: []string{"b2", "b1"}})
	require.NoError(t, err)
	_, err = c.ListTrims(ctx, storefront.TrimFilter{BrandIDs: []string{"b1", "b2"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.trims.Load())

	avail := true
	_, err = c.ListTrims(ctx, storefront.TrimFilter{BrandIDs: []string{"b1", "b2"}, AvailableOnly: &avail})
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.trims.Load())
}

func TestCatalogDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{fail: true}
	c, _ := newCatalog(src)
	ctx := context.Background()

	_, err := c.ListColors(ctx)
	require.Error(t, err)
	src.fail = false
	colors, err := c.ListColors(ctx)
	require.NoError(t, err)
	assert.Len(t, colors, 2)
	assert.EqualValues(t, 2, src.colors.Load())
}

func TestInvalidateDropsEntry(t *testing.T) {
	src := &countingSource{}
	c, _ := newCatalog(src)
	ctx := context.Background()

	_, _ = c.ListColors(ctx)
	require.NoError(t, c.Invalidate(ctx, key("colors", "all")))
	_, _ = c.ListColors(ctx)
	assert.EqualValues(t, 2, src.colors.Load())
}

func TestBindingsShareStore(t *testing.T) {
	src := &countingSource{}
	c, _ := newCatalog(src)
	other := c.WithSource(src)

	_, _ = c.ListColors(context.Background())
	_, _ = other.ListColors(context.Background())
	assert.EqualValues(t, 1, src.colors.Load())
}

// gatedSource blocks ListColors until release is closed.
type gatedSource struct {
	Source
	entered chan struct{}
	release chan struct{}
	err     error
	calls   atomic.Int32
}

func newGatedSource(err error) *gatedSource {
	return &gatedSource{entered: make(chan struct{}, 1), release: make(chan struct{}), err: err}
}

func (s *gatedSource) ListColors(ctx context.Context) ([]storefront.Color, error) {
	s.calls.Add(1)
	select {
	case s.entered <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return []storefront.Color{{ID: "c1", Available: true}}, nil
}

func TestFailedFlightIsNotSharedAcrossBindings(t *testing.T) {
	revoked := newGatedSource(errors.New("auth 401: token revoked"))
	healthy := &countingSource{}
	a, _ := newCatalog(revoked)
	b := a.WithSource(healthy)

	errA := make(chan error, 1)
	go func() {
		_, err := a.ListColors(context.Background())
		errA <- err
	}()
	<-revoked.entered

	type result struct {
		colors []storefront.Color
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		colors, err := b.ListColors(context.Background())
		resB <- result{colors, err}
	}()
	time.Sleep(50 * time.Millisecond)
	close(revoked.release)

	require.Error(t, <-errA)
	got := <-resB
	require.NoError(t, got.err)
	assert.Len(t, got.colors, 2)
	assert.EqualValues(t, 1, healthy.colors.Load())
}

func TestFlightSurvivesLeaderCancellation(t *testing.T) {
	src := newGatedSource(nil)
	a, _ := newCatalog(src)
	b := a.WithSource(src)

	ctxA, cancelA := context.WithCancel(context.Background())
	go func() { _, _ = a.ListColors(ctxA) }()
	<-src.entered

	resB := make(chan error, 1)
	go func() {
		_, err := b.ListColors(context.Background())
		resB <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancelA()
	close(src.release)

	require.NoError(t, <-resB)
	assert.EqualValues(t, 1, src.calls.Load())
}
