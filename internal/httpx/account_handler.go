package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/account"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type statusReq struct {
	Status storefront.OrderStatus `json:"status"`
}

func (a *API) account(r *http.Request) *account.Service {
	return account.New(a.client(r), a.Log)
}

func (a *API) myConfigurations(w http.ResponseWriter, r *http.Request) {
	v, err := a.account(r).Configurations(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) myOrders(w http.ResponseWriter, r *http.Request) {
	v, err := a.account(r).Orders(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) myAppointments(w http.ResponseWriter, r *http.Request) {
	v, err := a.account(r).Appointments(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) myCars(w http.ResponseWriter, r *http.Request) {
	v, err := a.account(r).Cars(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) deleteConfiguration(w http.ResponseWriter, r *http.Request) {
	if err := a.account(r).DeleteConfiguration(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	if err := a.account(r).CancelAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]string{"status": string(storefront.AppointmentCancelled)})
}

func (a *API) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Status == "" {
		a.writeError(w, r, errMissingFields)
		return
	}
	if err := a.account(r).UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}
