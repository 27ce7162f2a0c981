package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ariefcatur/go-storefront/internal/wizard"
)

type startVehicleReq struct {
	TrimID          string `json:"trim_id"`
	ConfigurationID string `json:"configuration_id"`
}

type idReq struct {
	ID string `json:"id"`
}

type colorReq struct {
	ColorID string `json:"color_id"`
}

type jumpReq struct {
	Index *int `json:"index"`
}

type scheduleReq struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type descriptionReq struct {
	Description string `json:"description"`
}

type submitReq struct {
	Mode wizard.SubmitMode `json:"mode"`
}

type submitResp struct {
	Outcome wizard.Outcome `json:"outcome"`
	Wizard  any            `json:"wizard"`
}

func (a *API) startVehicle(w http.ResponseWriter, r *http.Request) {
	var req startVehicleReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	wz := wizard.NewVehicle(uuid.NewString(), a.catalog(r), a.client(r), a.Events, a.Log)
	var err error
	switch {
	case req.ConfigurationID != "":
		err = wz.Resume(r.Context(), req.ConfigurationID)
	case req.TrimID != "":
		err = wz.Load(r.Context(), req.TrimID)
	default:
		err = errMissingFields
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Wizards.Put(owner(r), wz)
	writeOK(w, http.StatusCreated, wz.Snapshot())
}

func (a *API) startBooking(w http.ResponseWriter, r *http.Request) {
	wz := wizard.NewBooking(uuid.NewString(), a.catalog(r), a.client(r), a.Location, a.Events, a.Log)
	if err := wz.Load(r.Context()); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Wizards.Put(owner(r), wz)
	writeOK(w, http.StatusCreated, wz.Snapshot())
}

func (a *API) lookup(w http.ResponseWriter, r *http.Request) (Wizard, bool) {
	wz, err := a.Wizards.Get(owner(r), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return nil, false
	}
	return wz, true
}

// do runs op against the session and answers with the refreshed view.
func (a *API) do(w http.ResponseWriter, r *http.Request, op func(Wizard) error) {
	wz, ok := a.lookup(w, r)
	if !ok {
		return
	}
	if err := op(wz); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, wz.View())
}

func vehicle(wz Wizard) (*wizard.VehicleWizard, error) {
	v, ok := wz.(*wizard.VehicleWizard)
	if !ok {
		return nil, errWrongWizard
	}
	return v, nil
}

func booking(wz Wizard) (*wizard.BookingWizard, error) {
	b, ok := wz.(*wizard.BookingWizard)
	if !ok {
		return nil, errWrongWizard
	}
	return b, nil
}

func (a *API) viewWizard(w http.ResponseWriter, r *http.Request) {
	a.do(w, r, func(Wizard) error { return nil })
}

func (a *API) discardWizard(w http.ResponseWriter, r *http.Request) {
	if !a.Wizards.Delete(owner(r), chi.URLParam(r, "id")) {
		a.writeError(w, r, errWizardNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) advance(w http.ResponseWriter, r *http.Request) {
	a.do(w, r, func(wz Wizard) error { return wz.Advance() })
}

func (a *API) retreat(w http.ResponseWriter, r *http.Request) {
	a.do(w, r, func(wz Wizard) error { return wz.Retreat() })
}

func (a *API) jump(w http.ResponseWriter, r *http.Request) {
	var req jumpReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Index == nil {
		a.writeError(w, r, errMissingFields)
		return
	}
	a.do(w, r, func(wz Wizard) error { return wz.JumpTo(*req.Index) })
}

func (a *API) selectColor(w http.ResponseWriter, r *http.Request) {
	var req colorReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.do(w, r, func(wz Wizard) error {
		v, err := vehicle(wz)
		if err != nil {
			return err
		}
		return v.SelectColor(req.ColorID)
	})
}

func (a *API) toggleOption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "option_id")
	a.do(w, r, func(wz Wizard) error {
		v, err := vehicle(wz)
		if err != nil {
			return err
		}
		return v.ToggleAddOn(id)
	})
}

func (a *API) selectCar(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.do(w, r, func(wz Wizard) error {
		b, err := booking(wz)
		if err != nil {
			return err
		}
		return b.SelectCar(req.ID)
	})
}

func (a *API) selectBranch(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.do(w, r, func(wz Wizard) error {
		b, err := booking(wz)
		if err != nil {
			return err
		}
		return b.SelectBranch(req.ID)
	})
}

func (a *API) toggleService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "service_id")
	a.do(w, r, func(wz Wizard) error {
		b, err := booking(wz)
		if err != nil {
			return err
		}
		return b.ToggleService(id)
	})
}

func (a *API) setSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.do(w, r, func(wz Wizard) error {
		b, err := booking(wz)
		if err != nil {
			return err
		}
		return b.SetSchedule(req.Date, req.Time)
	})
}

func (a *API) setDescription(w http.ResponseWriter, r *http.Request) {
	var req descriptionReq
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.do(w, r, func(wz Wizard) error {
		b, err := booking(wz)
		if err != nil {
			return err
		}
		return b.SetDescription(req.Description)
	})
}

// submit finishes the session. A completed session is dropped from the
// registry; its final view travels in the response.
func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	// an empty body means the default mode
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.writeError(w, r, errInvalidJSON)
		return
	}
	wz, ok := a.lookup(w, r)
	if !ok {
		return
	}

	var (
		out wizard.Outcome
		err error
	)
	switch v := wz.(type) {
	case *wizard.VehicleWizard:
		mode := req.Mode
		if mode == "" {
			mode = wizard.ModeConfirm
		}
		if mode != wizard.ModeDraft && mode != wizard.ModeConfirm {
			a.writeError(w, r, errBadMode)
			return
		}
		out, err = v.Submit(r.Context(), mode)
	case *wizard.BookingWizard:
		out, err = v.Submit(r.Context())
	default:
		err = errWrongWizard
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if out.State == wizard.StateCompleted {
		a.Wizards.Delete(owner(r), wz.ID())
	}
	writeOK(w, http.StatusOK, submitResp{Outcome: out, Wizard: wz.View()})
}
