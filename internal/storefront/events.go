package storefront

import (
	"encoding/json"
	"time"

	"github.com/ariefcatur/go-storefront/internal/pricing"
)

const (
	EventConfigurationSaved = "ConfigurationSaved"
	EventOrderPlaced        = "OrderPlaced"
	EventAppointmentBooked  = "AppointmentBooked"
	EventSubmissionFailed   = "SubmissionFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // wizard session id
	Payload       json.RawMessage `json:"payload"`
}

// WizardKind tells the two wizards apart in events and the ledger.
type WizardKind string

const (
	WizardVehicle WizardKind = "vehicle"
	WizardBooking WizardKind = "booking"
)

type ConfigurationSavedPayload struct {
	SessionID       string              `json:"session_id"`
	ConfigurationID string              `json:"configuration_id"`
	TrimID          string              `json:"trim_id"`
	ColorID         string              `json:"color_id"`
	OptionIDs       []string            `json:"option_ids"`
	Status          ConfigurationStatus `json:"status"`
	TotalPrice      pricing.Money       `json:"total_price"`
}

type OrderPlacedPayload struct {
	SessionID       string        `json:"session_id"`
	OrderID         string        `json:"order_id"`
	ConfigurationID string        `json:"configuration_id"`
	FinalPrice      pricing.Money `json:"final_price"`
}

type AppointmentBookedPayload struct {
	SessionID      string        `json:"session_id"`
	AppointmentID  string        `json:"appointment_id"`
	UserCarID      string        `json:"user_car_id"`
	BranchID       string        `json:"branch_id"`
	ServiceTypeIDs []string      `json:"service_type_ids"`
	At             time.Time     `json:"appointment_date"`
	TotalCost      pricing.Money `json:"total_cost"`
}

type SubmissionFailedPayload struct {
	SessionID string     `json:"session_id"`
	Wizard    WizardKind `json:"wizard"`
	Kind      string     `json:"kind"` // network | auth | backend | other
	Status    int        `json:"status,omitempty"`
	Message   string     `json:"message"`
}
