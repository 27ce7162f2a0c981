package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *Session) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	sess := NewSession("tok-123", storefront.User{ID: "u-1"})
	return New(srv.URL+"/api", WithTimeout(2*time.Second)).WithSession(sess), sess
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "data": data, "error": errMsg})
}

func TestListColorsNormalizesAlternateKeys(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/configurator/colors", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"color_id":"c1","name":"White","hex_code":"#fff","price_delta":0,"is_available":true},
			{"id":"c2","name":"Red","hex":"#f00","price_delta":50000.5},
			{"id":"c3","name":"Gold","price_delta":"100","is_available":false}
		]}`)
	})

	colors, err := c.ListColors(context.Background())
	require.NoError(t, err)
	require.Len(t, colors, 3)
	assert.Equal(t, storefront.Color{ID: "c1", Name: "White", Hex: "#fff", Available: true}, colors[0])
	assert.Equal(t, "c2", colors[1].ID)
	assert.Equal(t, "#f00", colors[1].Hex)
	assert.Equal(t, pricing.Money(5_000_050), colors[1].PriceDelta)
	assert.True(t, colors[1].Available, "missing flag reads as available")
	assert.False(t, colors[2].Available)
}

func TestNonSuccessEnvelopeBecomesBackendError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, nil, "trim not found")
	})

	_, err := c.GetTrim(context.Background(), "t-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackend))
	ge, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, ge.Status)
	assert.Equal(t, "trim not found", ge.Message)
}

func TestNon2xxUsesMessageFallbacks(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"message":"can only update draft configurations"}`)
	})

	_, err := c.UpdateConfiguration(context.Background(), "cfg-1", storefront.ConfigurationUpdate{})
	ge, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindBackend, ge.Kind)
	assert.Equal(t, http.StatusBadRequest, ge.Status)
	assert.Equal(t, "can only update draft configurations", ge.Message)
}

func TestNon2xxWithoutBodyGetsGenericMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListBrands(context.Background())
	ge, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Request failed with status 502", ge.Message)
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	calls := 0
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "token expired")
	})

	_, err := c.ListOrders(context.Background())
	assert.True(t, errors.Is(err, ErrAuth))
	assert.False(t, sess.Active())

	// Subsequent authenticated calls fail locally.
	_, err = c.ListOrders(context.Background())
	assert.True(t, errors.Is(err, ErrAuth))
	assert.Equal(t, 1, calls)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithTimeout(time.Second))
	_, err := c.ListBranches(context.Background(), nil)
	ge, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, ge.Kind)
	assert.Equal(t, 0, ge.Status)
	assert.Equal(t, networkMessage, ge.Message)
}

func TestCreateConfigurationBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"trim_id":"t1","color_id":"c1","option_ids":[],"status":"draft","total_price":2095000.00}`, string(raw))
		writeEnvelope(w, http.StatusOK, true, map[string]any{
			"configuration_id": "cfg-9",
			"trim_id":          "t1",
			"color_id":         "c1",
			"status":           "draft",
			"total_price":      2095000,
			"options":          []map[string]any{{"option_id": "o1"}, {"id": "o2"}},
		}, "")
	})

	cfg, err := c.CreateConfiguration(context.Background(), storefront.ConfigurationCreate{
		TrimID: "t1", ColorID: "c1", Status: storefront.ConfigDraft, TotalPrice: pricing.FromUnits(2_095_000),
	})
	require.NoError(t, err)
	assert.Equal(t, "cfg-9", cfg.ID)
	assert.Equal(t, []string{"o1", "o2"}, cfg.OptionIDs)
	assert.Equal(t, pricing.FromUnits(2_095_000), cfg.TotalPrice)
}

func TestListTrimsQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "b1,b2", q.Get("brand_id"))
		assert.Equal(t, "1000.00", q.Get("min_price"))
		assert.Equal(t, "true", q.Get("is_available"))
		assert.Empty(t, q.Get("max_price"))
		assert.Empty(t, r.Header.Get("Authorization"), "catalog reads are public")
		writeEnvelope(w, http.StatusOK, true, []map[string]any{{"trim_id": "t1", "trim_name": "Comfort", "base_price": 100}}, "")
	})

	minPrice := pricing.FromUnits(1000)
	avail := true
	trims, err := c.WithSession(nil).ListTrims(context.Background(), storefront.TrimFilter{
		BrandIDs: []string{"b1", " ", "b2"}, MinPrice: &minPrice, AvailableOnly: &avail,
	})
	require.NoError(t, err)
	require.Len(t, trims, 1)
	assert.Equal(t, "Comfort", trims[0].Name)
	assert.True(t, trims[0].Available)
}

func TestCreateAppointmentSendsISODate(t *testing.T) {
	at := time.Date(2026, 11, 2, 10, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-11-02T07:30:00Z", body["appointment_date"])
		assert.Equal(t, "scheduled", body["status"])
		_, hasDesc := body["description"]
		assert.False(t, hasDesc)
		writeEnvelope(w, http.StatusOK, true, map[string]any{
			"service_appointment_id": "a-1",
			"appointment_date":       "2026-11-02T07:30:00Z",
			"status":                 "scheduled",
			"service_types":          []map[string]any{{"service_type_id": "s1"}},
		}, "")
	})

	appt, err := c.CreateAppointment(context.Background(), storefront.AppointmentCreate{
		UserCarID: "car-1", BranchID: "br-1", At: at, ServiceTypeIDs: []string{"s1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a-1", appt.ID)
	assert.Equal(t, []string{"s1"}, appt.ServiceTypeIDs)
	assert.True(t, appt.At.Equal(at))
}

func TestLoginCreatesSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, true, map[string]any{
			"token": "new-token",
			"user":  map[string]any{"user_id": "u-7", "first_name": "Ivan", "last_name": "Petrov"},
		}, "")
	})

	sess, err := c.WithSession(nil).Login(context.Background(), storefront.Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	tok, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, "new-token", tok)
	assert.Equal(t, "Ivan Petrov", sess.User().FullName())

	sess.Destroy()
	assert.False(t, sess.Active())
}

func TestAuthenticatedCallWithoutSession(t *testing.T) {
	c := New("http://127.0.0.1:1")
	err := c.CancelAppointment(context.Background(), "a-1")
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestWithTimeoutLeavesCallerClientUntouched(t *testing.T) {
	h := &http.Client{Timeout: time.Minute}
	c := New("http://upstream", WithHTTPClient(h), WithTimeout(3*time.Second))

	assert.Equal(t, time.Minute, h.Timeout)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.NotSame(t, h, c.http)
}
