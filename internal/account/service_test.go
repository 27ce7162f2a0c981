package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type fakeAPI struct {
	configs  map[string]storefront.Configuration
	orders   map[string]storefront.Order
	appts    map[string]storefront.Appointment
	cars     []storefront.UserCar
	deleted  []string
	cancels  []string
	statuses []storefront.OrderStatus
}

func (f *fakeAPI) ListConfigurations(context.Context) ([]storefront.Configuration, error) {
	out := make([]storefront.Configuration, 0, len(f.configs))
	for _, c := range f.configs {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeAPI) GetConfiguration(_ context.Context, id string) (storefront.Configuration, error) {
	return f.configs[id], nil
}

func (f *fakeAPI) DeleteConfiguration(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ListOrders(context.Context) ([]storefront.Order, error) {
	out := make([]storefront.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeAPI) GetOrder(_ context.Context, id string) (storefront.Order, error) {
	return f.orders[id], nil
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, _ string, s storefront.OrderStatus) error {
	f.statuses = append(f.statuses, s)
	return nil
}

func (f *fakeAPI) ListAppointments(context.Context) ([]storefront.Appointment, error) {
	out := make([]storefront.Appointment, 0, len(f.appts))
	for _, a := range f.appts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAPI) GetAppointment(_ context.Context, id string) (storefront.Appointment, error) {
	return f.appts[id], nil
}

func (f *fakeAPI) CancelAppointment(_ context.Context, id string) error {
	f.cancels = append(f.cancels, id)
	return nil
}

func (f *fakeAPI) ListUserCars(context.Context) ([]storefront.UserCar, error) { return f.cars, nil }

var day = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

func TestDeleteOnlyDrafts(t *testing.T) {
	api := &fakeAPI{configs: map[string]storefront.Configuration{
		"c1": {ID: "c1", Status: storefront.ConfigDraft},
		"c2": {ID: "c2", Status: storefront.ConfigOrdered},
	}}
	svc := New(api, nil)

	require.NoError(t, svc.DeleteConfiguration(context.Background(), "c1"))
	err := svc.DeleteConfiguration(context.Background(), "c2")
	assert.ErrorIs(t, err, ErrNotDraft)
	assert.True(t, IsGuard(err))
	assert.Equal(t, []string{"c1"}, api.deleted)
}

func TestCancelOnlyScheduled(t *testing.T) {
	api := &fakeAPI{appts: map[string]storefront.Appointment{
		"a1": {ID: "a1", Status: storefront.AppointmentScheduled},
		"a2": {ID: "a2", Status: storefront.AppointmentCompleted},
	}}
	svc := New(api, nil)

	require.NoError(t, svc.CancelAppointment(context.Background(), "a1"))
	assert.ErrorIs(t, svc.CancelAppointment(context.Background(), "a2"), ErrNotCancellable)
	assert.Equal(t, []string{"a1"}, api.cancels)
}

func TestOrderStatusFollowsTransitions(t *testing.T) {
	api := &fakeAPI{orders: map[string]storefront.Order{
		"o1": {ID: "o1", Status: storefront.OrderPending},
	}}
	svc := New(api, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "o1", "shipped"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "o1", storefront.OrderPaid), ErrTransitionDenied)
	require.NoError(t, svc.UpdateOrderStatus(ctx, "o1", storefront.OrderApproved))
	assert.Equal(t, []storefront.OrderStatus{storefront.OrderApproved}, api.statuses)
}

func TestListOrdering(t *testing.T) {
	api := &fakeAPI{
		configs: map[string]storefront.Configuration{
			"old": {ID: "old", CreatedAt: day},
			"new": {ID: "new", CreatedAt: day.Add(48 * time.Hour)},
		},
		appts: map[string]storefront.Appointment{
			"done":  {ID: "done", Status: storefront.AppointmentCompleted, At: day},
			"later": {ID: "later", Status: storefront.AppointmentScheduled, At: day.Add(72 * time.Hour)},
			"soon":  {ID: "soon", Status: storefront.AppointmentScheduled, At: day.Add(24 * time.Hour)},
		},
	}
	svc := New(api, nil)

	cfgs, err := svc.Configurations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", cfgs[0].ID)

	appts, err := svc.Appointments(context.Background())
	require.NoError(t, err)
	ids := []string{appts[0].ID, appts[1].ID, appts[2].ID}
	assert.Equal(t, []string{"soon", "later", "done"}, ids)
}
