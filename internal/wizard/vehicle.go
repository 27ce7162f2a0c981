package wizard

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

const (
	StepTrim    = "trim"
	StepColor   = "color"
	StepOptions = "options"
	StepSummary = "summary"
)

type SubmitMode string

const (
	ModeDraft   SubmitMode = "draft"
	ModeConfirm SubmitMode = "confirm"
)

// VehicleCatalog is the reference data the configurator renders from. The
// cached catalog and the gateway both satisfy it.
type VehicleCatalog interface {
	GetTrim(ctx context.Context, id string) (storefront.Trim, error)
	ListColors(ctx context.Context) ([]storefront.Color, error)
	ListOptions(ctx context.Context, trimID string) ([]storefront.AddOn, error)
}

// VehicleGateway serves uncached reads for price recomputation and the writes.
type VehicleGateway interface {
	VehicleCatalog
	GetConfiguration(ctx context.Context, id string) (storefront.Configuration, error)
	CreateConfiguration(ctx context.Context, in storefront.ConfigurationCreate) (storefront.Configuration, error)
	UpdateConfiguration(ctx context.Context, id string, in storefront.ConfigurationUpdate) (storefront.Configuration, error)
	CreateOrder(ctx context.Context, in storefront.OrderCreate) (storefront.Order, error)
}

// pendingOrder is a configuration persisted by a confirm attempt whose order
// write failed. Retries only re-issue the order.
type pendingOrder struct {
	configID string
	price    pricing.Money
}

type VehicleWizard struct {
	*session
	catalog VehicleCatalog
	api     VehicleGateway

	sel     VehicleSelection
	trim    *storefront.Trim
	colors  []storefront.Color
	options []storefront.AddOn
	draftID string
	pending *pendingOrder
}

func NewVehicle(id string, catalog VehicleCatalog, api VehicleGateway, events Emitter, log *logger.Logger) *VehicleWizard {
	w := &VehicleWizard{
		session: newSession(id, storefront.WizardVehicle, events, log),
		catalog: catalog,
		api:     api,
		sel:     NewVehicleSelection(),
	}
	w.seq = NewSequencer(
		Step{Name: StepTrim, Complete: func() bool { return w.sel.TrimID != "" }},
		Step{Name: StepColor, Complete: func() bool { return w.sel.ColorID != "" }},
		Step{Name: StepOptions},
		Step{Name: StepSummary},
	)
	return w
}

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	i := slices.IndexFunc(items, func(it T) bool { return key(it) == id })
	if i < 0 {
		var zero T
		return zero, false
	}
	return items[i], true
}

func colorID(c storefront.Color) string { return c.ID }
func addOnID(a storefront.AddOn) string { return a.ID }

// Load fetches the trim, colors and trim options in parallel and binds the trim.
// An unavailable trim is loaded but left unbound.
func (w *VehicleWizard) Load(ctx context.Context, trimID string) error {
	if trimID == "" {
		return &MissingSelectionError{Field: "trim"}
	}
	var (
		trim    storefront.Trim
		colors  []storefront.Color
		options []storefront.AddOn
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		trim, err = w.catalog.GetTrim(gctx, trimID)
		return err
	})
	g.Go(func() (err error) {
		colors, err = w.catalog.ListColors(gctx)
		return err
	})
	g.Go(func() (err error) {
		options, err = w.catalog.ListOptions(gctx, trimID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load vehicle reference data: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.trim = &trim
	w.colors = colors
	w.options = options
	if !w.sel.BindTrim(trim) {
		w.log.Info("trim not bound", "trim_id", trimID, "available", trim.Available)
	}
	return nil
}

// Resume rebuilds a session from a saved draft. Every step counts as reached and
// submission updates the draft instead of creating a new configuration.
func (w *VehicleWizard) Resume(ctx context.Context, configID string) error {
	cfg, err := w.api.GetConfiguration(ctx, configID)
	if err != nil {
		return err
	}
	if cfg.Status != storefront.ConfigDraft {
		return fmt.Errorf("%w: status %s", ErrNotDraft, cfg.Status)
	}
	if err := w.Load(ctx, cfg.TrimID); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.draftID = cfg.ID
	if c, ok := find(w.colors, cfg.ColorID, colorID); ok {
		w.sel.SelectColor(c)
	}
	for _, id := range cfg.OptionIDs {
		if a, ok := find(w.options, id, addOnID); ok && !w.sel.AddOns.has(id) {
			w.sel.ToggleAddOn(a)
		}
	}
	w.seq.Reach(w.seq.Len() - 1)
	return nil
}

func (w *VehicleWizard) editableVehicle() error {
	if err := w.editable(); err != nil {
		return err
	}
	if w.pending != nil {
		return ErrOrderPending
	}
	return nil
}

func (w *VehicleWizard) SelectColor(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableVehicle(); err != nil {
		return err
	}
	c, ok := find(w.colors, id, colorID)
	if !ok {
		return fmt.Errorf("%w: color %s", ErrUnknownItem, id)
	}
	w.sel.SelectColor(c)
	return nil
}

func (w *VehicleWizard) ToggleAddOn(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableVehicle(); err != nil {
		return err
	}
	a, ok := find(w.options, id, addOnID)
	if !ok {
		return fmt.Errorf("%w: option %s", ErrUnknownItem, id)
	}
	w.sel.ToggleAddOn(a)
	return nil
}

// Selection returns a copy of the current choices.
func (w *VehicleWizard) Selection() VehicleSelection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel.Clone()
}

// Total is recomputed from the loaded reference data on every call.
func (w *VehicleWizard) Total() (pricing.Money, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalLocked()
}

func (w *VehicleWizard) totalLocked() (pricing.Money, error) {
	if w.trim == nil {
		return 0, nil
	}
	return vehiclePrice(w.sel, *w.trim, w.colors, w.options)
}

func vehiclePrice(sel VehicleSelection, trim storefront.Trim, colors []storefront.Color, options []storefront.AddOn) (pricing.Money, error) {
	var delta pricing.Money
	if sel.ColorID != "" {
		c, ok := find(colors, sel.ColorID, colorID)
		if !ok || !c.Available {
			return 0, fmt.Errorf("%w: color %s", ErrSelectionStale, sel.ColorID)
		}
		delta = c.PriceDelta
	}
	ids := sel.AddOnIDs()
	addOns := make([]pricing.Money, 0, len(ids))
	for _, id := range ids {
		a, ok := find(options, id, addOnID)
		if !ok || !a.Available {
			return 0, fmt.Errorf("%w: option %s", ErrSelectionStale, id)
		}
		addOns = append(addOns, a.Price)
	}
	return pricing.ComputeTotal(trim.BasePrice, delta, addOns)
}

// livePrice bypasses the cache so the submitted total reflects current prices.
func (w *VehicleWizard) livePrice(ctx context.Context, sel VehicleSelection) (pricing.Money, error) {
	var (
		trim    storefront.Trim
		colors  []storefront.Color
		options []storefront.AddOn
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		trim, err = w.api.GetTrim(gctx, sel.TrimID)
		return err
	})
	g.Go(func() (err error) {
		colors, err = w.api.ListColors(gctx)
		return err
	})
	g.Go(func() (err error) {
		options, err = w.api.ListOptions(gctx, sel.TrimID)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if !trim.Available {
		return 0, fmt.Errorf("%w: trim %s", ErrSelectionStale, sel.TrimID)
	}
	return vehiclePrice(sel, trim, colors, options)
}

func (w *VehicleWizard) SaveDraft(ctx context.Context) (Outcome, error) { return w.Submit(ctx, ModeDraft) }
func (w *VehicleWizard) Confirm(ctx context.Context) (Outcome, error)   { return w.Submit(ctx, ModeConfirm) }

// Submit validates, recomputes the price from live data and persists. Draft mode
// saves the configuration only; confirm mode also places an order.
func (w *VehicleWizard) Submit(ctx context.Context, mode SubmitMode) (Outcome, error) {
	if mode != ModeDraft && mode != ModeConfirm {
		return Outcome{}, fmt.Errorf("unknown submit mode %q", mode)
	}
	w.mu.Lock()
	err := w.beginSubmit(func() error {
		if f := w.sel.missing(); f != "" {
			return &MissingSelectionError{Field: f}
		}
		if w.pending != nil && mode != ModeConfirm {
			return ErrOrderPending
		}
		return nil
	})
	if err != nil {
		st := w.state
		w.mu.Unlock()
		return Outcome{State: st}, err
	}
	sel := w.sel.Clone()
	draftID, pending := w.draftID, w.pending
	w.mu.Unlock()

	out, pending, err := w.persist(ctx, mode, sel, draftID, pending)

	w.mu.Lock()
	w.pending = pending
	if err != nil {
		res := w.fail(err)
		w.mu.Unlock()
		w.log.Warn("vehicle submission failed", "mode", mode, "err", err)
		w.emitFailure(context.WithoutCancel(ctx), err)
		return res, err
	}
	res := w.complete(out)
	w.mu.Unlock()
	w.log.Info("vehicle submission completed", "mode", mode, "configuration_id", res.EntityID, "order_id", res.OrderID)
	return res, nil
}

func (w *VehicleWizard) persist(ctx context.Context, mode SubmitMode, sel VehicleSelection, draftID string, pending *pendingOrder) (Outcome, *pendingOrder, error) {
	// Once issued, writes run to completion even if the caller goes away.
	wctx := context.WithoutCancel(ctx)

	if pending == nil {
		total, err := w.livePrice(ctx, sel)
		if err != nil {
			return Outcome{}, nil, err
		}
		status := storefront.ConfigDraft
		if mode == ModeConfirm {
			status = storefront.ConfigConfirmed
		}
		cfg, err := w.saveConfiguration(wctx, draftID, sel, status, total)
		if err != nil {
			return Outcome{}, nil, err
		}
		w.emit(wctx, storefront.EventConfigurationSaved, storefront.ConfigurationSavedPayload{
			SessionID:       w.id,
			ConfigurationID: cfg.ID,
			TrimID:          sel.TrimID,
			ColorID:         sel.ColorID,
			OptionIDs:       sel.AddOnIDs(),
			Status:          status,
			TotalPrice:      total,
		})
		if mode == ModeDraft {
			return Outcome{EntityID: cfg.ID}, nil, nil
		}
		pending = &pendingOrder{configID: cfg.ID, price: total}
	}

	order, err := w.api.CreateOrder(wctx, storefront.OrderCreate{
		ConfigurationID: pending.configID,
		FinalPrice:      pending.price,
		Status:          storefront.OrderPending,
	})
	if err != nil {
		return Outcome{}, pending, err
	}
	w.emit(wctx, storefront.EventOrderPlaced, storefront.OrderPlacedPayload{
		SessionID:       w.id,
		OrderID:         order.ID,
		ConfigurationID: pending.configID,
		FinalPrice:      pending.price,
	})
	return Outcome{EntityID: pending.configID, OrderID: order.ID}, nil, nil
}

// saveConfiguration creates a new configuration, or for a resumed draft issues
// a full update followed by a status-only update when confirming.
func (w *VehicleWizard) saveConfiguration(ctx context.Context, draftID string, sel VehicleSelection, status storefront.ConfigurationStatus, total pricing.Money) (storefront.Configuration, error) {
	if draftID == "" {
		return w.api.CreateConfiguration(ctx, storefront.ConfigurationCreate{
			TrimID:     sel.TrimID,
			ColorID:    sel.ColorID,
			OptionIDs:  sel.AddOnIDs(),
			Status:     status,
			TotalPrice: total,
		})
	}
	trimID, colorID := sel.TrimID, sel.ColorID
	cfg, err := w.api.UpdateConfiguration(ctx, draftID, storefront.ConfigurationUpdate{
		TrimID:    &trimID,
		ColorID:   &colorID,
		OptionIDs: sel.AddOnIDs(),
	})
	if err != nil {
		return storefront.Configuration{}, err
	}
	if status == storefront.ConfigDraft {
		return cfg, nil
	}
	return w.api.UpdateConfiguration(ctx, draftID, storefront.ConfigurationUpdate{Status: &status})
}

type VehicleSelectionView struct {
	TrimID    string   `json:"trim_id,omitempty"`
	ColorID   string   `json:"color_id,omitempty"`
	OptionIDs []string `json:"option_ids"`
}

type VehicleView struct {
	ID              string                `json:"id"`
	Kind            storefront.WizardKind `json:"kind"`
	State           State                 `json:"state"`
	Step            string                `json:"step"`
	StepIndex       int                   `json:"step_index"`
	Steps           []StepView            `json:"steps"`
	Trim            *storefront.Trim      `json:"trim,omitempty"`
	Colors          []storefront.Color    `json:"colors"`
	Options         []storefront.AddOn    `json:"options"`
	Selection       VehicleSelectionView  `json:"selection"`
	Total           pricing.Money         `json:"total_price"`
	PriceError      string                `json:"price_error,omitempty"`
	ConfigurationID string                `json:"configuration_id,omitempty"`
	OrderPending    bool                  `json:"order_pending"`
	Outcome         *Outcome              `json:"outcome,omitempty"`
}

func (w *VehicleWizard) View() any { return w.Snapshot() }

func (w *VehicleWizard) Snapshot() VehicleView {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := VehicleView{
		ID:              w.id,
		Kind:            w.kind,
		State:           w.state,
		Step:            w.seq.CurrentStep(),
		StepIndex:       w.seq.Current(),
		Steps:           w.seq.View(),
		Trim:            w.trim,
		Colors:          w.colors,
		Options:         w.options,
		ConfigurationID: w.draftID,
		OrderPending:    w.pending != nil,
		Selection: VehicleSelectionView{
			TrimID:    w.sel.TrimID,
			ColorID:   w.sel.ColorID,
			OptionIDs: w.sel.AddOnIDs(),
		},
	}
	if w.pending != nil {
		v.ConfigurationID = w.pending.configID
	}
	if total, err := w.totalLocked(); err != nil {
		v.PriceError = err.Error()
	} else {
		v.Total = total
	}
	if w.state == StateCompleted || w.state == StateFailed {
		out := w.outcome
		v.Outcome = &out
	}
	return v
}
