package gateway

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

// Upstream payloads name identifiers inconsistently (color_id vs id, trim_name
// vs name, ...). The wire* types accept every spelling seen in the wild and
// collapse them here; nothing past this file branches on alternate keys.

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type wireBrand struct {
	BrandID string `json:"brand_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (w wireBrand) canonical() storefront.Brand {
	return storefront.Brand{ID: firstOf(w.BrandID, w.ID), Name: w.Name, Country: w.Country}
}

type wireModel struct {
	ModelID string  `json:"model_id"`
	ID      string  `json:"id"`
	BrandID string  `json:"brand_id"`
	Name    string  `json:"name"`
	Segment *string `json:"segment"`
}

func (w wireModel) canonical() storefront.Model {
	return storefront.Model{ID: firstOf(w.ModelID, w.ID), BrandID: w.BrandID, Name: w.Name, Segment: deref(w.Segment)}
}

type wireGeneration struct {
	GenerationID string `json:"generation_id"`
	ID           string `json:"id"`
	ModelID      string `json:"model_id"`
	Name         string `json:"name"`
	YearFrom     int    `json:"year_from"`
	YearTo       *int   `json:"year_to"`
}

func (w wireGeneration) canonical() storefront.Generation {
	return storefront.Generation{ID: firstOf(w.GenerationID, w.ID), ModelID: w.ModelID, Name: w.Name, YearFrom: w.YearFrom, YearTo: w.YearTo}
}

type wireDictionary struct {
	EngineTypeID   string `json:"engine_type_id"`
	TransmissionID string `json:"transmission_id"`
	DriveTypeID    string `json:"drive_type_id"`
	ID             string `json:"id"`
	Name           string `json:"name"`
}

func (w wireDictionary) canonical() storefront.Dictionary {
	return storefront.Dictionary{ID: firstOf(w.EngineTypeID, w.TransmissionID, w.DriveTypeID, w.ID), Name: w.Name}
}

type wireTrim struct {
	TrimID         string        `json:"trim_id"`
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	TrimName       string        `json:"trim_name"`
	BrandName      string        `json:"brand_name"`
	ModelName      string        `json:"model_name"`
	GenerationID   string        `json:"generation_id"`
	GenerationName string        `json:"generation_name"`
	BasePrice      pricing.Money `json:"base_price"`
	IsAvailable    *bool         `json:"is_available"`
	EngineTypeID   string        `json:"engine_type_id"`
	EngineType     string        `json:"engine_type"`
	TransmissionID string        `json:"transmission_id"`
	Transmission   string        `json:"transmission"`
	DriveTypeID    string        `json:"drive_type_id"`
	DriveType      string        `json:"drive_type"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (w wireTrim) canonical() storefront.Trim {
	return storefront.Trim{
		ID:             firstOf(w.TrimID, w.ID),
		Name:           firstOf(w.Name, w.TrimName),
		BrandName:      w.BrandName,
		ModelName:      w.ModelName,
		GenerationID:   w.GenerationID,
		GenerationName: w.GenerationName,
		BasePrice:      w.BasePrice,
		Available:      availability(w.IsAvailable),
		EngineTypeID:   w.EngineTypeID,
		EngineType:     w.EngineType,
		TransmissionID: w.TransmissionID,
		Transmission:   w.Transmission,
		DriveTypeID:    w.DriveTypeID,
		DriveType:      w.DriveType,
		CreatedAt:      w.CreatedAt,
	}
}

// A missing availability flag means available; the API omits it on some joins.
func availability(b *bool) bool {
	return b == nil || *b
}

type wireColor struct {
	ColorID     string        `json:"color_id"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	HexCode     *string       `json:"hex_code"`
	Hex         string        `json:"hex"`
	PriceDelta  pricing.Money `json:"price_delta"`
	IsAvailable *bool         `json:"is_available"`
}

func (w wireColor) canonical() storefront.Color {
	return storefront.Color{
		ID:         firstOf(w.ColorID, w.ID),
		Name:       w.Name,
		Hex:        firstOf(deref(w.HexCode), w.Hex),
		PriceDelta: w.PriceDelta,
		Available:  availability(w.IsAvailable),
	}
}

type wireOption struct {
	OptionID    string        `json:"option_id"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Price       pricing.Money `json:"price"`
	Category    string        `json:"category"`
	IsAvailable *bool         `json:"is_available"`
}

func (w wireOption) canonical() storefront.AddOn {
	return storefront.AddOn{
		ID:          firstOf(w.OptionID, w.ID),
		Name:        w.Name,
		Price:       w.Price,
		Category:    storefront.ParseCategory(w.Category),
		Available:   availability(w.IsAvailable),
		Description: deref(w.Description),
	}
}

type wireConfiguration struct {
	ConfigurationID string        `json:"configuration_id"`
	ID              string        `json:"id"`
	TrimID          string        `json:"trim_id"`
	TrimName        string        `json:"trim_name"`
	ColorID         string        `json:"color_id"`
	ColorName       string        `json:"color_name"`
	OptionIDs       []string      `json:"option_ids"`
	Options         []wireOption  `json:"options"`
	Status          string        `json:"status"`
	TotalPrice      pricing.Money `json:"total_price"`
	CreatedAt       time.Time     `json:"created_at"`
}

func (w wireConfiguration) canonical() storefront.Configuration {
	ids := make([]string, 0, len(w.OptionIDs)+len(w.Options))
	seen := make(map[string]bool)
	for _, id := range w.OptionIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, o := range w.Options {
		if id := firstOf(o.OptionID, o.ID); id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return storefront.Configuration{
		ID:         firstOf(w.ConfigurationID, w.ID),
		TrimID:     w.TrimID,
		TrimName:   w.TrimName,
		ColorID:    w.ColorID,
		ColorName:  w.ColorName,
		OptionIDs:  ids,
		Status:     storefront.ConfigurationStatus(w.Status),
		TotalPrice: w.TotalPrice,
		CreatedAt:  w.CreatedAt,
	}
}

type wireOrder struct {
	OrderID         string            `json:"order_id"`
	ID              string            `json:"id"`
	ConfigurationID string            `json:"configuration_id"`
	Configuration   wireConfiguration `json:"configuration"`
	FinalPrice      pricing.Money     `json:"final_price"`
	Status          string            `json:"status"`
	ManagerID       *string           `json:"manager_id"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (w wireOrder) canonical() storefront.Order {
	nested := w.Configuration.canonical()
	return storefront.Order{
		ID:              firstOf(w.OrderID, w.ID),
		ConfigurationID: firstOf(w.ConfigurationID, nested.ID),
		FinalPrice:      w.FinalPrice,
		Status:          storefront.OrderStatus(w.Status),
		ManagerID:       deref(w.ManagerID),
		CreatedAt:       w.CreatedAt,
	}
}

type wireBranch struct {
	BranchID string  `json:"branch_id"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

func (w wireBranch) canonical() storefront.Branch {
	return storefront.Branch{
		ID:      firstOf(w.BranchID, w.ID),
		Name:    w.Name,
		Address: w.Address,
		Phone:   deref(w.Phone),
		Email:   deref(w.Email),
		Active:  availability(w.IsActive),
	}
}

type wireServiceType struct {
	ServiceTypeID   string        `json:"service_type_id"`
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Price           pricing.Money `json:"price"`
	DurationMinutes *int          `json:"duration_minutes"`
	Duration        *int          `json:"duration"`
	IsAvailable     *bool         `json:"is_available"`
}

func (w wireServiceType) canonical() storefront.ServiceType {
	d := w.DurationMinutes
	if d == nil {
		d = w.Duration
	}
	out := storefront.ServiceType{
		ID:        firstOf(w.ServiceTypeID, w.ID),
		Name:      w.Name,
		Category:  w.Category,
		Price:     w.Price,
		Available: availability(w.IsAvailable),
	}
	if d != nil {
		out.DurationMinutes = *d
	}
	return out
}

type wireUserCar struct {
	UserCarID      string `json:"user_car_id"`
	ID             string `json:"id"`
	VIN            string `json:"vin"`
	Year           int    `json:"year"`
	BrandName      string `json:"brand_name"`
	ModelName      string `json:"model_name"`
	TrimName       string `json:"trim_name"`
	ColorName      string `json:"color_name"`
	CurrentMileage int    `json:"current_mileage"`
}

func (w wireUserCar) canonical() storefront.UserCar {
	return storefront.UserCar{
		ID:        firstOf(w.UserCarID, w.ID),
		VIN:       w.VIN,
		Year:      w.Year,
		BrandName: w.BrandName,
		ModelName: w.ModelName,
		TrimName:  w.TrimName,
		ColorName: w.ColorName,
		Mileage:   w.CurrentMileage,
	}
}

type wireAppointment struct {
	ServiceAppointmentID string            `json:"service_appointment_id"`
	AppointmentID        string            `json:"appointment_id"`
	ID                   string            `json:"id"`
	UserCarID            string            `json:"user_car_id"`
	BranchID             string            `json:"branch_id"`
	BranchName           string            `json:"branch_name"`
	ServiceTypeIDs       []string          `json:"service_type_ids"`
	ServiceTypes         []wireServiceType `json:"service_types"`
	AppointmentDate      time.Time         `json:"appointment_date"`
	Status               string            `json:"status"`
	Description          *string           `json:"description"`
	CompletionNotes      *string           `json:"completion_notes"`
}

func (w wireAppointment) canonical() storefront.Appointment {
	ids := append([]string(nil), w.ServiceTypeIDs...)
	if len(ids) == 0 {
		for _, st := range w.ServiceTypes {
			if id := firstOf(st.ServiceTypeID, st.ID); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return storefront.Appointment{
		ID:              firstOf(w.ServiceAppointmentID, w.AppointmentID, w.ID),
		UserCarID:       w.UserCarID,
		BranchID:        w.BranchID,
		BranchName:      w.BranchName,
		ServiceTypeIDs:  ids,
		At:              w.AppointmentDate,
		Status:          storefront.AppointmentStatus(w.Status),
		Description:     deref(w.Description),
		CompletionNotes: deref(w.CompletionNotes),
	}
}

type wireUser struct {
	UserID    string  `json:"user_id"`
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"`
}

func (w wireUser) canonical() storefront.User {
	return storefront.User{
		ID:        firstOf(w.UserID, w.ID),
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     deref(w.Phone),
		Role:      w.Role,
	}
}

// mapList normalizes a decoded wire list, e.g. mapList(ws, wireColor.canonical).
func mapList[W, T any](in []W, f func(W) T) []T {
	out := make([]T, 0, len(in))
	for _, w := range in {
		out = append(out, f(w))
	}
	return out
}
