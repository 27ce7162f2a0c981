package wizard

import (
	"context"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type vehicleAPI struct {
	mu      sync.Mutex
	trim    storefront.Trim
	colors  []storefront.Color
	options []storefront.AddOn
	draft   storefront.Configuration

	createErr error
	updateErr error
	orderErr  error
	block     chan struct{}

	reads   int
	creates []storefront.ConfigurationCreate
	updates []storefront.ConfigurationUpdate
	orders  []storefront.OrderCreate
}

func newVehicleAPI() *vehicleAPI {
	return &vehicleAPI{
		trim: storefront.Trim{ID: "t1", Name: "Comfort", BasePrice: pricing.FromUnits(2_000_000), Available: true},
		colors: []storefront.Color{
			{ID: "white", Name: "White", Available: true},
			{ID: "red", Name: "Red", PriceDelta: pricing.FromUnits(50_000), Available: true},
			{ID: "gold", Name: "Gold", PriceDelta: pricing.FromUnits(90_000)},
		},
		options: []storefront.AddOn{
			{ID: "roof", Price: pricing.FromUnits(30_000), Category: storefront.CategoryComfort, Available: true},
			{ID: "mats", Price: pricing.FromUnits(15_000), Category: storefront.CategoryInterior, Available: true},
			{ID: "spoiler", Price: pricing.FromUnits(5_000), Category: storefront.CategoryExterior},
		},
	}
}

func (f *vehicleAPI) GetTrim(context.Context, string) (storefront.Trim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.trim, nil
}

func (f *vehicleAPI) ListColors(context.Context) ([]storefront.Color, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return append([]storefront.Color(nil), f.colors...), nil
}

func (f *vehicleAPI) ListOptions(context.Context, string) ([]storefront.AddOn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return append([]storefront.AddOn(nil), f.options...), nil
}

func (f *vehicleAPI) GetConfiguration(_ context.Context, id string) (storefront.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft, nil
}

func (f *vehicleAPI) CreateConfiguration(_ context.Context, in storefront.ConfigurationCreate) (storefront.Configuration, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	if f.createErr != nil {
		return storefront.Configuration{}, f.createErr
	}
	return storefront.Configuration{ID: "cfg-1", TrimID: in.TrimID, ColorID: in.ColorID, OptionIDs: in.OptionIDs, Status: in.Status, TotalPrice: in.TotalPrice}, nil
}

func (f *vehicleAPI) UpdateConfiguration(_ context.Context, id string, in storefront.ConfigurationUpdate) (storefront.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return storefront.Configuration{}, f.updateErr
	}
	return storefront.Configuration{ID: id}, nil
}

func (f *vehicleAPI) CreateOrder(_ context.Context, in storefront.OrderCreate) (storefront.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, in)
	if f.orderErr != nil {
		return storefront.Order{}, f.orderErr
	}
	return storefront.Order{ID: "ord-1", ConfigurationID: in.ConfigurationID, FinalPrice: in.FinalPrice, Status: in.Status}, nil
}

func (f *vehicleAPI) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *vehicleAPI) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates) + len(f.updates) + len(f.orders)
}

type bookingAPI struct {
	mu       sync.Mutex
	cars     []storefront.UserCar
	branches []storefront.Branch
	services []storefront.ServiceType

	createErr error
	created   []storefront.AppointmentCreate
}

func newBookingAPI() *bookingAPI {
	return &bookingAPI{
		cars: []storefront.UserCar{{ID: "car-1", VIN: "XTA000000000001"}},
		branches: []storefront.Branch{
			{ID: "br-1", Name: "North", Active: true},
			{ID: "br-2", Name: "Closed"},
		},
		services: []storefront.ServiceType{
			{ID: "oil", Price: pricing.FromUnits(3_500), Available: true},
			{ID: "tyres", Price: pricing.FromUnits(2_000), Available: true},
			{ID: "paint", Price: pricing.FromUnits(40_000)},
		},
	}
}

func (f *bookingAPI) ListUserCars(context.Context) ([]storefront.UserCar, error) {
	return f.cars, nil
}

func (f *bookingAPI) ListBranches(context.Context, *bool) ([]storefront.Branch, error) {
	return f.branches, nil
}

func (f *bookingAPI) ListServiceTypes(context.Context, *bool) ([]storefront.ServiceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storefront.ServiceType(nil), f.services...), nil
}

func (f *bookingAPI) CreateAppointment(_ context.Context, in storefront.AppointmentCreate) (storefront.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.createErr != nil {
		return storefront.Appointment{}, f.createErr
	}
	return storefront.Appointment{ID: "appt-1", At: in.At, Status: in.Status}, nil
}

type recordedEvent struct {
	Type          string
	CorrelationID string
	Payload       any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Emit(_ context.Context, eventType, correlationID string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{eventType, correlationID, payload})
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
