package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/gateway"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/refcache"
	"github.com/ariefcatur/go-storefront/internal/storefront"
	"github.com/ariefcatur/go-storefront/internal/wizard"
)

// API wires the storefront handlers. Gateway and Catalog are unbound; each
// request binds them to the caller's session.
type API struct {
	Gateway  *gateway.Client
	Catalog  *refcache.Catalog
	Wizards  *Registry
	Events   wizard.Emitter
	Location *time.Location
	LoginURL string
	Log      *logger.Logger
}

func (a *API) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", a.login)
		r.Post("/register", a.register)
		r.With(a.requireSession).Get("/me", a.me)
		r.With(a.requireSession).Post("/logout", a.logout)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/trims", a.listTrims)
		r.Get("/trims/{id}", a.getTrim)
		r.Get("/brands", a.listBrands)
		r.Get("/models", a.listModels)
		r.Get("/generations", a.listGenerations)
		r.Get("/engine-types", a.listEngineTypes)
		r.Get("/transmissions", a.listTransmissions)
		r.Get("/drive-types", a.listDriveTypes)
		r.Get("/branches", a.listBranches)
		r.Get("/service-types", a.listServiceTypes)
	})

	r.Route("/wizards", func(r chi.Router) {
		r.Use(a.requireSession)
		r.Post("/vehicle", a.startVehicle)
		r.Post("/booking", a.startBooking)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.viewWizard)
			r.Delete("/", a.discardWizard)
			r.Post("/advance", a.advance)
			r.Post("/retreat", a.retreat)
			r.Post("/jump", a.jump)
			r.Post("/submit", a.submit)
			r.Post("/color", a.selectColor)
			r.Post("/options/{option_id}/toggle", a.toggleOption)
			r.Post("/car", a.selectCar)
			r.Post("/branch", a.selectBranch)
			r.Post("/services/{service_id}/toggle", a.toggleService)
			r.Post("/schedule", a.setSchedule)
			r.Post("/description", a.setDescription)
		})
	})

	r.Route("/account", func(r chi.Router) {
		r.Use(a.requireSession)
		r.Get("/configurations", a.myConfigurations)
		r.Delete("/configurations/{id}", a.deleteConfiguration)
		r.Get("/orders", a.myOrders)
		r.Patch("/orders/{id}/status", a.updateOrderStatus)
		r.Get("/appointments", a.myAppointments)
		r.Post("/appointments/{id}/cancel", a.cancelAppointment)
		r.Get("/cars", a.myCars)
	})
}

type ctxKey int

const sessionKey ctxKey = iota

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireSession turns the bearer token into a gateway session. The upstream
// API stays the authority on whether the token is still good.
func (a *API) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{Error: "authentication required", LoginURL: a.LoginURL})
			return
		}
		sess := gateway.NewSession(token, storefront.User{})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func sessionFrom(r *http.Request) *gateway.Session {
	sess, _ := r.Context().Value(sessionKey).(*gateway.Session)
	return sess
}

// owner is the registry key for wizard sessions of the caller.
func owner(r *http.Request) string { return bearer(r) }

func (a *API) client(r *http.Request) *gateway.Client {
	return a.Gateway.WithSession(sessionFrom(r))
}

// catalog reads reference data through the cache on behalf of the caller.
func (a *API) catalog(r *http.Request) *refcache.Catalog {
	return a.Catalog.WithSource(a.client(r))
}
