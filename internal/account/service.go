// Package account backs the profile dashboard: the signed-in user's saved
// configurations, orders, appointments and cars.
package account

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

var (
	ErrNotDraft         = errors.New("only draft configurations can be deleted")
	ErrNotCancellable   = errors.New("only scheduled appointments can be cancelled")
	ErrInvalidStatus    = errors.New("unknown status")
	ErrTransitionDenied = errors.New("status transition not allowed")
)

type Gateway interface {
	ListConfigurations(ctx context.Context) ([]storefront.Configuration, error)
	GetConfiguration(ctx context.Context, id string) (storefront.Configuration, error)
	DeleteConfiguration(ctx context.Context, id string) error
	ListOrders(ctx context.Context) ([]storefront.Order, error)
	GetOrder(ctx context.Context, id string) (storefront.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status storefront.OrderStatus) error
	ListAppointments(ctx context.Context) ([]storefront.Appointment, error)
	GetAppointment(ctx context.Context, id string) (storefront.Appointment, error)
	CancelAppointment(ctx context.Context, id string) error
	ListUserCars(ctx context.Context) ([]storefront.UserCar, error)
}

type Service struct {
	api Gateway
	log *logger.Logger
}

func New(api Gateway, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{api: api, log: log.With("component", "account")}
}

// Configurations are returned newest first.
func (s *Service) Configurations(ctx context.Context) ([]storefront.Configuration, error) {
	out, err := s.api.ListConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b storefront.Configuration) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Service) Orders(ctx context.Context) ([]storefront.Order, error) {
	out, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b storefront.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// Appointments are ordered scheduled first, then by date.
func (s *Service) Appointments(ctx context.Context) ([]storefront.Appointment, error) {
	out, err := s.api.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	rank := func(a storefront.Appointment) int {
		if a.Status == storefront.AppointmentScheduled {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(out, func(a, b storefront.Appointment) int {
		return cmp.Or(cmp.Compare(rank(a), rank(b)), a.At.Compare(b.At))
	})
	return out, nil
}

func (s *Service) Cars(ctx context.Context) ([]storefront.UserCar, error) {
	return s.api.ListUserCars(ctx)
}

func (s *Service) DeleteConfiguration(ctx context.Context, id string) error {
	cfg, err := s.api.GetConfiguration(ctx, id)
	if err != nil {
		return err
	}
	if cfg.Status != storefront.ConfigDraft {
		return fmt.Errorf("%w: %s is %s", ErrNotDraft, id, cfg.Status)
	}
	if err := s.api.DeleteConfiguration(ctx, id); err != nil {
		return err
	}
	s.log.Info("configuration deleted", "configuration_id", id)
	return nil
}

func (s *Service) CancelAppointment(ctx context.Context, id string) error {
	appt, err := s.api.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if !appt.Status.CanTransition(storefront.AppointmentCancelled) {
		return fmt.Errorf("%w: %s is %s", ErrNotCancellable, id, appt.Status)
	}
	if err := s.api.CancelAppointment(ctx, id); err != nil {
		return err
	}
	s.log.Info("appointment cancelled", "appointment_id", id)
	return nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, to storefront.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !o.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionDenied, o.Status, to)
	}
	if err := s.api.UpdateOrderStatus(ctx, id, to); err != nil {
		return err
	}
	s.log.Info("order status updated", "order_id", id, "from", o.Status, "to", to)
	return nil
}

// IsGuard reports errors raised by the local transition checks.
func IsGuard(err error) bool {
	return errors.Is(err, ErrNotDraft) ||
		errors.Is(err, ErrNotCancellable) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrTransitionDenied)
}
