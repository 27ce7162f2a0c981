package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func (c *Client) ListUserCars(ctx context.Context) ([]storefront.UserCar, error) {
	var out []wireUserCar
	if err := c.do(ctx, call{method: http.MethodGet, path: "/service/user-cars", auth: true}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireUserCar.canonical), nil
}

func (c *Client) ListBranches(ctx context.Context, activeOnly *bool) ([]storefront.Branch, error) {
	q := url.Values{}
	setIf(q, "is_active", boolParam(activeOnly))
	var out []wireBranch
	if err := c.do(ctx, call{method: http.MethodGet, path: "/service/branches", query: q}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireBranch.canonical), nil
}

func (c *Client) ListServiceTypes(ctx context.Context, availableOnly *bool) ([]storefront.ServiceType, error) {
	q := url.Values{}
	setIf(q, "is_available", boolParam(availableOnly))
	var out []wireServiceType
	if err := c.do(ctx, call{method: http.MethodGet, path: "/service/types", query: q}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireServiceType.canonical), nil
}

type appointmentBody struct {
	UserCarID      string                       `json:"user_car_id"`
	BranchID       string                       `json:"branch_id"`
	AppointmentAt  string                       `json:"appointment_date"`
	ServiceTypeIDs []string                     `json:"service_type_ids"`
	Status         storefront.AppointmentStatus `json:"status"`
	Description    string                       `json:"description,omitempty"`
}

func (c *Client) CreateAppointment(ctx context.Context, in storefront.AppointmentCreate) (storefront.Appointment, error) {
	body := appointmentBody{
		UserCarID:      in.UserCarID,
		BranchID:       in.BranchID,
		AppointmentAt:  in.At.UTC().Format(time.RFC3339),
		ServiceTypeIDs: in.ServiceTypeIDs,
		Status:         in.Status,
		Description:    in.Description,
	}
	if body.Status == "" {
		body.Status = storefront.AppointmentScheduled
	}
	var out wireAppointment
	if err := c.do(ctx, call{method: http.MethodPost, path: "/service/appointments", body: body, auth: true}, &out); err != nil {
		return storefront.Appointment{}, err
	}
	return out.canonical(), nil
}

func (c *Client) ListAppointments(ctx context.Context) ([]storefront.Appointment, error) {
	var out []wireAppointment
	if err := c.do(ctx, call{method: http.MethodGet, path: "/service/appointments", auth: true}, &out); err != nil {
		return nil, err
	}
	return mapList(out, wireAppointment.canonical), nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (storefront.Appointment, error) {
	var out wireAppointment
	if err := c.do(ctx, call{method: http.MethodGet, path: "/service/appointments/" + url.PathEscape(id), auth: true}, &out); err != nil {
		return storefront.Appointment{}, err
	}
	return out.canonical(), nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodPatch, path: "/service/appointments/" + url.PathEscape(id) + "/cancel", auth: true}, nil)
}
