package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/account"
	"github.com/ariefcatur/go-storefront/internal/gateway"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/wizard"
)

// envelope mirrors the upstream API's response shape.
type envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	LoginURL string `json:"login_url,omitempty"`
}

var (
	errInvalidJSON    = errors.New("invalid json")
	errMissingFields  = errors.New("missing fields")
	errBadQuery       = errors.New("invalid query parameter")
	errBadMode        = errors.New("mode must be draft or confirm")
	errWizardNotFound = errors.New("wizard session not found")
	errWrongWizard    = errors.New("operation not supported by this wizard")
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidJSON
	}
	return nil
}

// writeError maps domain and gateway errors onto HTTP statuses.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusInternalServerError, "internal error"
	env := envelope{}

	switch ge, isGateway := gateway.AsError(err); {
	case errors.Is(err, errInvalidJSON), errors.Is(err, errMissingFields), errors.Is(err, errBadQuery),
		errors.Is(err, errBadMode):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, errWizardNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, wizard.ErrSubmissionInFlight),
		errors.Is(err, wizard.ErrCompleted),
		errors.Is(err, wizard.ErrOrderPending):
		code, msg = http.StatusConflict, err.Error()
	case wizard.IsValidation(err), account.IsGuard(err),
		errors.Is(err, errWrongWizard), errors.Is(err, wizard.ErrSelectionStale),
		errors.Is(err, pricing.ErrNegativeAmount):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case isGateway && ge.Kind == gateway.KindAuth:
		code, msg = http.StatusUnauthorized, ge.Message
		env.LoginURL = a.LoginURL
		a.dropRejected(r)
	case isGateway && ge.Kind == gateway.KindNetwork:
		code, msg = http.StatusBadGateway, ge.Message
	case isGateway:
		code, msg = http.StatusBadGateway, ge.Message
		if ge.Status >= 400 && ge.Status < 500 {
			code = ge.Status
		}
	}

	if code >= 500 {
		a.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
	} else {
		a.Log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
	}
	env.Error = msg
	writeJSON(w, code, env)
}

// dropRejected discards the wizards of a token the upstream API just rejected;
// none of them could ever submit.
func (a *API) dropRejected(r *http.Request) {
	if sessionFrom(r) == nil || a.Wizards == nil {
		return
	}
	if n := a.Wizards.DropOwner(owner(r)); n > 0 {
		a.Log.Info("dropped wizards of rejected token", "count", n)
	}
}
