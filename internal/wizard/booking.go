package wizard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

const (
	StepCar          = "car"
	StepBranch       = "branch"
	StepServices     = "services"
	StepDateTime     = "datetime"
	StepConfirmation = "confirmation"
)

type BookingCatalog interface {
	ListBranches(ctx context.Context, activeOnly *bool) ([]storefront.Branch, error)
	ListServiceTypes(ctx context.Context, availableOnly *bool) ([]storefront.ServiceType, error)
}

type BookingGateway interface {
	BookingCatalog
	ListUserCars(ctx context.Context) ([]storefront.UserCar, error)
	CreateAppointment(ctx context.Context, in storefront.AppointmentCreate) (storefront.Appointment, error)
}

type BookingWizard struct {
	*session
	catalog BookingCatalog
	api     BookingGateway
	loc     *time.Location
	now     func() time.Time

	sel      BookingSelection
	cars     []storefront.UserCar
	branches []storefront.Branch
	services []storefront.ServiceType
}

func NewBooking(id string, catalog BookingCatalog, api BookingGateway, loc *time.Location, events Emitter, log *logger.Logger) *BookingWizard {
	if loc == nil {
		loc = time.UTC
	}
	w := &BookingWizard{
		session: newSession(id, storefront.WizardBooking, events, log),
		catalog: catalog,
		api:     api,
		loc:     loc,
		now:     time.Now,
		sel:     NewBookingSelection(),
	}
	w.seq = NewSequencer(
		Step{Name: StepCar, Complete: func() bool { return w.sel.CarID != "" }},
		Step{Name: StepBranch, Complete: func() bool { return w.sel.BranchID != "" }},
		Step{Name: StepServices, Complete: func() bool { return len(w.sel.Services) > 0 }},
		Step{Name: StepDateTime, Complete: func() bool { return w.sel.Date != "" && w.sel.Slot != "" }},
		Step{Name: StepConfirmation},
	)
	return w
}

func carID(c storefront.UserCar) string         { return c.ID }
func branchID(b storefront.Branch) string       { return b.ID }
func serviceID(t storefront.ServiceType) string { return t.ID }

// Load fetches the user's cars, active branches and available service types in parallel.
func (w *BookingWizard) Load(ctx context.Context) error {
	var (
		cars     []storefront.UserCar
		branches []storefront.Branch
		services []storefront.ServiceType
	)
	only := true
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cars, err = w.api.ListUserCars(gctx)
		return err
	})
	g.Go(func() (err error) {
		branches, err = w.catalog.ListBranches(gctx, &only)
		return err
	})
	g.Go(func() (err error) {
		services, err = w.catalog.ListServiceTypes(gctx, &only)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load booking reference data: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.cars, w.branches, w.services = cars, branches, services
	return nil
}

func (w *BookingWizard) SelectCar(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	c, ok := find(w.cars, id, carID)
	if !ok {
		return fmt.Errorf("%w: car %s", ErrUnknownItem, id)
	}
	w.sel.SelectCar(c)
	return nil
}

func (w *BookingWizard) SelectBranch(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	b, ok := find(w.branches, id, branchID)
	if !ok {
		return fmt.Errorf("%w: branch %s", ErrUnknownItem, id)
	}
	w.sel.SelectBranch(b)
	return nil
}

func (w *BookingWizard) ToggleService(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	t, ok := find(w.services, id, serviceID)
	if !ok {
		return fmt.Errorf("%w: service %s", ErrUnknownItem, id)
	}
	w.sel.ToggleService(t)
	return nil
}

// SetSchedule binds the date (YYYY-MM-DD) and half-hour slot (HH:MM).
func (w *BookingWizard) SetSchedule(date, slot string) error {
	at, err := slotTime(date, slot, w.loc)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	if !at.After(w.now()) {
		return ErrPastSchedule
	}
	w.sel.Date, w.sel.Slot = date, slot
	return nil
}

func (w *BookingWizard) SetDescription(d string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.sel.SetDescription(d)
	return nil
}

func (w *BookingWizard) Selection() BookingSelection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel.Clone()
}

func (w *BookingWizard) Total() (pricing.Money, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bookingPrice(w.sel, w.services)
}

func bookingPrice(sel BookingSelection, services []storefront.ServiceType) (pricing.Money, error) {
	ids := sel.ServiceIDs()
	prices := make([]pricing.Money, 0, len(ids))
	for _, id := range ids {
		t, ok := find(services, id, serviceID)
		if !ok || !t.Available {
			return 0, fmt.Errorf("%w: service %s", ErrSelectionStale, id)
		}
		prices = append(prices, t.Price)
	}
	return pricing.Sum(prices)
}

// Submit books the appointment. Selections are validated locally first and the
// total is recomputed from live service prices.
func (w *BookingWizard) Submit(ctx context.Context) (Outcome, error) {
	var at time.Time
	w.mu.Lock()
	err := w.beginSubmit(func() error {
		if f := w.sel.missing(); f != "" {
			return &MissingSelectionError{Field: f}
		}
		var err error
		if at, err = slotTime(w.sel.Date, w.sel.Slot, w.loc); err != nil {
			return err
		}
		if !at.After(w.now()) {
			return ErrPastSchedule
		}
		return nil
	})
	if err != nil {
		st := w.state
		w.mu.Unlock()
		return Outcome{State: st}, err
	}
	sel := w.sel.Clone()
	w.mu.Unlock()

	appt, total, err := w.persist(ctx, sel, at)

	w.mu.Lock()
	if err != nil {
		res := w.fail(err)
		w.mu.Unlock()
		w.log.Warn("booking submission failed", "err", err)
		w.emitFailure(context.WithoutCancel(ctx), err)
		return res, err
	}
	res := w.complete(Outcome{EntityID: appt.ID})
	w.mu.Unlock()

	w.log.Info("booking submission completed", "appointment_id", appt.ID)
	w.emit(context.WithoutCancel(ctx), storefront.EventAppointmentBooked, storefront.AppointmentBookedPayload{
		SessionID:      w.id,
		AppointmentID:  appt.ID,
		UserCarID:      sel.CarID,
		BranchID:       sel.BranchID,
		ServiceTypeIDs: sel.ServiceIDs(),
		At:             at.UTC(),
		TotalCost:      total,
	})
	return res, nil
}

func (w *BookingWizard) persist(ctx context.Context, sel BookingSelection, at time.Time) (storefront.Appointment, pricing.Money, error) {
	live, err := w.api.ListServiceTypes(ctx, nil)
	if err != nil {
		return storefront.Appointment{}, 0, err
	}
	total, err := bookingPrice(sel, live)
	if err != nil {
		return storefront.Appointment{}, 0, err
	}
	appt, err := w.api.CreateAppointment(context.WithoutCancel(ctx), storefront.AppointmentCreate{
		UserCarID:      sel.CarID,
		BranchID:       sel.BranchID,
		At:             at,
		ServiceTypeIDs: sel.ServiceIDs(),
		Status:         storefront.AppointmentScheduled,
		Description:    sel.Description,
	})
	if err != nil {
		return storefront.Appointment{}, 0, err
	}
	return appt, total, nil
}

type BookingSelectionView struct {
	CarID       string   `json:"car_id,omitempty"`
	BranchID    string   `json:"branch_id,omitempty"`
	ServiceIDs  []string `json:"service_ids"`
	Date        string   `json:"date,omitempty"`
	Time        string   `json:"time,omitempty"`
	Description string   `json:"description,omitempty"`
}

type BookingView struct {
	ID         string                   `json:"id"`
	Kind       storefront.WizardKind    `json:"kind"`
	State      State                    `json:"state"`
	Step       string                   `json:"step"`
	StepIndex  int                      `json:"step_index"`
	Steps      []StepView               `json:"steps"`
	Cars       []storefront.UserCar     `json:"cars"`
	Branches   []storefront.Branch      `json:"branches"`
	Services   []storefront.ServiceType `json:"services"`
	TimeSlots  []string                 `json:"time_slots"`
	Selection  BookingSelectionView     `json:"selection"`
	Total      pricing.Money            `json:"total_cost"`
	PriceError string                   `json:"price_error,omitempty"`
	Outcome    *Outcome                 `json:"outcome,omitempty"`
}

func (w *BookingWizard) View() any { return w.Snapshot() }

func (w *BookingWizard) Snapshot() BookingView {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := BookingView{
		ID:        w.id,
		Kind:      w.kind,
		State:     w.state,
		Step:      w.seq.CurrentStep(),
		StepIndex: w.seq.Current(),
		Steps:     w.seq.View(),
		Cars:      w.cars,
		Branches:  w.branches,
		Services:  w.services,
		TimeSlots: TimeSlots(),
		Selection: BookingSelectionView{
			CarID:       w.sel.CarID,
			BranchID:    w.sel.BranchID,
			ServiceIDs:  w.sel.ServiceIDs(),
			Date:        w.sel.Date,
			Time:        w.sel.Slot,
			Description: w.sel.Description,
		},
	}
	if total, err := bookingPrice(w.sel, w.services); err != nil {
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
