package httpx

import (
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/gateway"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type authResp struct {
	Token string          `json:"token"`
	User  storefront.User `json:"user"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req storefront.Credentials
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		a.writeError(w, r, errMissingFields)
		return
	}
	sess, err := a.Gateway.Login(r.Context(), req)
	a.respondSession(w, r, sess, err, http.StatusOK)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req storefront.Registration
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		a.writeError(w, r, errMissingFields)
		return
	}
	sess, err := a.Gateway.Register(r.Context(), req)
	a.respondSession(w, r, sess, err, http.StatusCreated)
}

func (a *API) respondSession(w http.ResponseWriter, r *http.Request, sess *gateway.Session, err error, code int) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	token, _ := sess.Token()
	u := sess.User()
	a.Log.Info("signed in", "user_id", u.ID)
	writeOK(w, code, authResp{Token: token, User: u})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, err := a.client(r).Me(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, u)
}

// logout ends the session and drops every wizard the token still owns.
func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	a.client(r).Logout()
	n := a.Wizards.DropOwner(owner(r))
	a.Log.Debug("signed out", "wizards_dropped", n)
	writeOK(w, http.StatusOK, map[string]bool{"logged_out": true})
}
