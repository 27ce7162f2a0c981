package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type memRepo struct {
	rows map[string]Entry
	err  error
}

func (r *memRepo) Record(_ context.Context, e Entry) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.rows[e.EventID]; ok {
		return false, nil
	}
	r.rows[e.EventID] = e
	return true, nil
}

type memDedup struct{ seen map[string]bool }

func (d *memDedup) Seen(_ context.Context, id string) (bool, error) { return d.seen[id], nil }

func (d *memDedup) Mark(_ context.Context, id string) error {
	d.seen[id] = true
	return nil
}

func message(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	env := storefront.Envelope{
		EventID:       "7b7f3c1e-0d6a-4c55-9a43-1f1d7e0c9a10",
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		Producer:      "storefront-bff",
		CorrelationID: "sess-1",
		Payload:       kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestRecordsOrderPlaced(t *testing.T) {
	repo := &memRepo{rows: map[string]Entry{}}
	svc := &Service{Repo: repo}

	m := message(t, storefront.EventOrderPlaced, storefront.OrderPlacedPayload{
		SessionID: "sess-1", OrderID: "ord-1", ConfigurationID: "cfg-1", FinalPrice: pricing.FromUnits(2_095_000),
	})
	require.NoError(t, svc.HandleSubmission(context.Background(), m))

	require.Len(t, repo.rows, 1)
	for _, e := range repo.rows {
		assert.Equal(t, storefront.WizardVehicle, e.Wizard)
		assert.Equal(t, "cfg-1", e.EntityID)
		assert.Equal(t, "ord-1", e.OrderID)
		assert.Equal(t, pricing.FromUnits(2_095_000), e.Amount)
		assert.Equal(t, "completed", e.Outcome)
		assert.Equal(t, "sess-1", e.SessionID)
	}
}

func TestRecordsFailure(t *testing.T) {
	repo := &memRepo{rows: map[string]Entry{}}
	svc := &Service{Repo: repo}

	m := message(t, storefront.EventSubmissionFailed, storefront.SubmissionFailedPayload{
		SessionID: "sess-1", Wizard: storefront.WizardBooking, Kind: "network", Message: "Network error. Please check your connection.",
	})
	require.NoError(t, svc.HandleSubmission(context.Background(), m))
	for _, e := range repo.rows {
		assert.Equal(t, "failed", e.Outcome)
		assert.Equal(t, storefront.WizardBooking, e.Wizard)
		assert.Equal(t, "network: Network error. Please check your connection.", e.Message)
	}
}

func TestReplayIsDeduplicated(t *testing.T) {
	repo := &memRepo{rows: map[string]Entry{}}
	dedup := &memDedup{seen: map[string]bool{}}
	svc := &Service{Repo: repo, Dedup: dedup}

	m := message(t, storefront.EventAppointmentBooked, storefront.AppointmentBookedPayload{SessionID: "sess-1", AppointmentID: "a-1"})
	require.NoError(t, svc.HandleSubmission(context.Background(), m))
	assert.True(t, dedup.seen["7b7f3c1e-0d6a-4c55-9a43-1f1d7e0c9a10"])

	repo.err = errors.New("must not be called")
	require.NoError(t, svc.HandleSubmission(context.Background(), m))
	assert.Len(t, repo.rows, 1)
}

func TestRepoErrorLeavesMessageUncommitted(t *testing.T) {
	repo := &memRepo{rows: map[string]Entry{}, err: errors.New("db down")}
	dedup := &memDedup{seen: map[string]bool{}}
	svc := &Service{Repo: repo, Dedup: dedup}

	m := message(t, storefront.EventConfigurationSaved, storefront.ConfigurationSavedPayload{SessionID: "sess-1", ConfigurationID: "cfg-1"})
	err := svc.HandleSubmission(context.Background(), m)
	assert.Error(t, err)
	assert.Empty(t, dedup.seen, "failed records are not marked")
}

func TestIgnoresUnknownAndUndecodable(t *testing.T) {
	repo := &memRepo{rows: map[string]Entry{}}
	svc := &Service{Repo: repo}

	require.NoError(t, svc.HandleSubmission(context.Background(), message(t, "SomethingElse", map[string]string{})))
	require.NoError(t, svc.HandleSubmission(context.Background(), kafkago.Message{Value: []byte("{not json")}))
	assert.Empty(t, repo.rows)
}

func TestDropsEventWithoutValidID(t *testing.T) {
	repo := &memRepo{rows: map[string]Entry{}}
	svc := &Service{Repo: repo}

	for _, id := range []string{"", "evt-1"} {
		env := storefront.Envelope{
			EventID:       id,
			EventType:     storefront.EventOrderPlaced,
			EventVersion:  1,
			CorrelationID: "sess-1",
			Payload:       kafkax.MustMarshal(storefront.OrderPlacedPayload{SessionID: "sess-1", OrderID: "ord-1"}),
		}
		err := svc.HandleSubmission(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)})
		require.NoError(t, err, "event id %q", id)
	}
	assert.Empty(t, repo.rows)
}
