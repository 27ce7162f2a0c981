package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

// Entry is one recorded wizard submission outcome.
type Entry struct {
	EventID    string
	EventType  string
	SessionID  string
	Wizard     storefront.WizardKind
	EntityID   string
	OrderID    string
	Amount     pricing.Money
	Outcome    string // completed | failed
	Message    string
	TraceID    string
	OccurredAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS wizard_submissions (
	event_id     UUID PRIMARY KEY,
	event_type   TEXT        NOT NULL,
	session_id   TEXT        NOT NULL,
	wizard       TEXT        NOT NULL,
	entity_id    TEXT,
	order_id     TEXT,
	amount_minor BIGINT      NOT NULL DEFAULT 0,
	outcome      TEXT        NOT NULL,
	message      TEXT,
	trace_id     TEXT,
	occurred_at  TIMESTAMPTZ NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS wizard_submissions_session_idx ON wizard_submissions (session_id);`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, schema)
	return err
}

// Record inserts the entry once; a replayed event id is a no-op and reports false.
func (r *Repo) Record(ctx context.Context, e Entry) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		INSERT INTO wizard_submissions
			(event_id, event_type, session_id, wizard, entity_id, order_id, amount_minor, outcome, message, trace_id, occurred_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.EventType, e.SessionID, string(e.Wizard), e.EntityID, e.OrderID,
		int64(e.Amount), e.Outcome, e.Message, e.TraceID, e.OccurredAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
