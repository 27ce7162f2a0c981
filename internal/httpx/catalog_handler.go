package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func csvParam(r *http.Request, k string) []string {
	var out []string
	for _, p := range strings.Split(r.URL.Query().Get(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func boolParam(r *http.Request, k string) (*bool, error) {
	v := r.URL.Query().Get(k)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errBadQuery, k)
	}
	return &b, nil
}

func moneyParam(r *http.Request, k string) (*pricing.Money, error) {
	v := r.URL.Query().Get(k)
	if v == "" {
		return nil, nil
	}
	m, err := pricing.ParseMoney(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errBadQuery, k)
	}
	return &m, nil
}

func trimFilter(r *http.Request) (storefront.TrimFilter, error) {
	f := storefront.TrimFilter{
		BrandIDs:        csvParam(r, "brand_ids"),
		EngineTypeIDs:   csvParam(r, "engine_type_ids"),
		TransmissionIDs: csvParam(r, "transmission_ids"),
		DriveTypeIDs:    csvParam(r, "drive_type_ids"),
	}
	var err error
	if f.MinPrice, err = moneyParam(r, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = moneyParam(r, "max_price"); err != nil {
		return f, err
	}
	if f.AvailableOnly, err = boolParam(r, "available"); err != nil {
		return f, err
	}
	return f, nil
}

// listTrims applies upstream filters, then the local search and sort.
func (a *API) listTrims(w http.ResponseWriter, r *http.Request) {
	f, err := trimFilter(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	trims, err := a.Catalog.ListTrims(r.Context(), f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	// SearchTrims copies, so sorting never touches a shared cached slice
	out := storefront.SearchTrims(trims, r.URL.Query().Get("q"))
	storefront.SortTrims(out, storefront.SortKey(r.URL.Query().Get("sort")))
	writeOK(w, http.StatusOK, out)
}

func (a *API) getTrim(w http.ResponseWriter, r *http.Request) {
	t, err := a.Catalog.GetTrim(r.Context(), chi.URLParam(r, "id"))
	respond(a, w, r, t, err)
}

func (a *API) listBrands(w http.ResponseWriter, r *http.Request) {
	v, err := a.Catalog.ListBrands(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) listModels(w http.ResponseWriter, r *http.Request) {
	v, err := a.Catalog.ListModels(r.Context(), r.URL.Query().Get("brand_id"))
	respond(a, w, r, v, err)
}

func (a *API) listGenerations(w http.ResponseWriter, r *http.Request) {
	v, err := a.Catalog.ListGenerations(r.Context(), r.URL.Query().Get("model_id"))
	respond(a, w, r, v, err)
}

func (a *API) listEngineTypes(w http.ResponseWriter, r *http.Request) {
	v, err := a.Catalog.ListEngineTypes(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) listTransmissions(w http.ResponseWriter, r *http.Request) {
	v, err := a.Catalog.ListTransmissions(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) listDriveTypes(w http.ResponseWriter, r *http.Request) {
	v, err := a.Catalog.ListDriveTypes(r.Context())
	respond(a, w, r, v, err)
}

func (a *API) listBranches(w http.ResponseWriter, r *http.Request) {
	listWithFlag(a, w, r, "active", a.Catalog.ListBranches)
}

func (a *API) listServiceTypes(w http.ResponseWriter, r *http.Request) {
	listWithFlag(a, w, r, "available", a.Catalog.ListServiceTypes)
}

func listWithFlag[T any](a *API, w http.ResponseWriter, r *http.Request, k string, fetch func(context.Context, *bool) ([]T, error)) {
	flag, err := boolParam(r, k)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	v, err := fetch(r.Context(), flag)
	respond(a, w, r, v, err)
}

func respond[T any](a *API, w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, v)
}
