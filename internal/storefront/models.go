package storefront

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/pricing"
)

// Canonical shapes. The gateway normalizes every upstream payload into these
// before anything else sees it.

type Brand struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type Model struct {
	ID      string `json:"id"`
	BrandID string `json:"brand_id"`
	Name    string `json:"name"`
	Segment string `json:"segment,omitempty"`
}

type Generation struct {
	ID       string `json:"id"`
	ModelID  string `json:"model_id"`
	Name     string `json:"name"`
	YearFrom int    `json:"year_from"`
	YearTo   *int   `json:"year_to,omitempty"`
}

// Dictionary is one of engine types, transmissions or drive types.
type Dictionary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Trim struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	BrandName      string        `json:"brand_name"`
	ModelName      string        `json:"model_name"`
	GenerationID   string        `json:"generation_id"`
	GenerationName string        `json:"generation_name"`
	BasePrice      pricing.Money `json:"base_price"`
	Available      bool          `json:"is_available"`
	EngineTypeID   string        `json:"engine_type_id,omitempty"`
	EngineType     string        `json:"engine_type,omitempty"`
	TransmissionID string        `json:"transmission_id,omitempty"`
	Transmission   string        `json:"transmission,omitempty"`
	DriveTypeID    string        `json:"drive_type_id,omitempty"`
	DriveType      string        `json:"drive_type,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type Color struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Hex        string        `json:"hex,omitempty"`
	PriceDelta pricing.Money `json:"price_delta"`
	Available  bool          `json:"is_available"`
}

type AddOnCategory string

const (
	CategorySafety      AddOnCategory = "safety"
	CategoryComfort     AddOnCategory = "comfort"
	CategoryExterior    AddOnCategory = "exterior"
	CategoryInterior    AddOnCategory = "interior"
	CategoryTechnology  AddOnCategory = "technology"
	CategoryPerformance AddOnCategory = "performance"
	CategoryOther       AddOnCategory = "other"
)

// ParseCategory maps unknown tags to CategoryOther.
func ParseCategory(s string) AddOnCategory {
	switch c := AddOnCategory(s); c {
	case CategorySafety, CategoryComfort, CategoryExterior, CategoryInterior, CategoryTechnology, CategoryPerformance:
		return c
	}
	return CategoryOther
}

type AddOn struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       pricing.Money `json:"price"`
	Category    AddOnCategory `json:"category"`
	Available   bool          `json:"is_available"`
	Description string        `json:"description,omitempty"`
}

type Configuration struct {
	ID         string              `json:"id"`
	TrimID     string              `json:"trim_id"`
	TrimName   string              `json:"trim_name,omitempty"`
	ColorID    string              `json:"color_id"`
	ColorName  string              `json:"color_name,omitempty"`
	OptionIDs  []string            `json:"option_ids"`
	Status     ConfigurationStatus `json:"status"`
	TotalPrice pricing.Money       `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
}

type ConfigurationCreate struct {
	TrimID     string              `json:"trim_id"`
	ColorID    string              `json:"color_id"`
	OptionIDs  []string            `json:"option_ids"`
	Status     ConfigurationStatus `json:"status"`
	TotalPrice pricing.Money       `json:"total_price"`
}

// ConfigurationUpdate is a partial update; nil fields are left untouched.
type ConfigurationUpdate struct {
	Status    *ConfigurationStatus `json:"status,omitempty"`
	TrimID    *string              `json:"trim_id,omitempty"`
	ColorID   *string              `json:"color_id,omitempty"`
	OptionIDs []string             `json:"option_ids,omitempty"`
}

type Order struct {
	ID              string        `json:"id"`
	ConfigurationID string        `json:"configuration_id"`
	FinalPrice      pricing.Money `json:"final_price"`
	Status          OrderStatus   `json:"status"`
	ManagerID       string        `json:"manager_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

type OrderCreate struct {
	ConfigurationID string        `json:"configuration_id"`
	FinalPrice      pricing.Money `json:"final_price"`
	Status          OrderStatus   `json:"status"`
}

type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Active  bool   `json:"is_active"`
}

type ServiceType struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Price           pricing.Money `json:"price"`
	DurationMinutes int           `json:"duration_minutes,omitempty"`
	Available       bool          `json:"is_available"`
}

type UserCar struct {
	ID        string `json:"id"`
	VIN       string `json:"vin"`
	Year      int    `json:"year"`
	BrandName string `json:"brand_name,omitempty"`
	ModelName string `json:"model_name,omitempty"`
	TrimName  string `json:"trim_name,omitempty"`
	ColorName string `json:"color_name,omitempty"`
	Mileage   int    `json:"current_mileage"`
}

type Appointment struct {
	ID              string            `json:"id"`
	UserCarID       string            `json:"user_car_id"`
	BranchID        string            `json:"branch_id"`
	BranchName      string            `json:"branch_name,omitempty"`
	ServiceTypeIDs  []string          `json:"service_type_ids"`
	At              time.Time         `json:"appointment_date"`
	Status          AppointmentStatus `json:"status"`
	Description     string            `json:"description,omitempty"`
	CompletionNotes string            `json:"completion_notes,omitempty"`
}

type AppointmentCreate struct {
	UserCarID      string            `json:"user_car_id"`
	BranchID       string            `json:"branch_id"`
	At             time.Time         `json:"appointment_date"`
	ServiceTypeIDs []string          `json:"service_type_ids"`
	Status         AppointmentStatus `json:"status"`
	Description    string            `json:"description,omitempty"`
}

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}
