package wizard

import (
	"maps"
	"slices"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type idSet map[string]struct{}

func (s idSet) toggle(id string) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) sorted() []string {
	out := slices.Collect(maps.Keys(s))
	slices.Sort(out)
	if out == nil {
		out = []string{}
	}
	return out
}

// VehicleSelection holds the configurator choices. Unavailable items are ignored
// by every mutator; the bool result reports whether the state changed.
type VehicleSelection struct {
	TrimID  string
	ColorID string
	AddOns  idSet
}

func NewVehicleSelection() VehicleSelection {
	return VehicleSelection{AddOns: idSet{}}
}

// BindTrim binds the trim. Switching trims drops add-ons, which are per trim.
func (s *VehicleSelection) BindTrim(t storefront.Trim) bool {
	if !t.Available || t.ID == "" {
		return false
	}
	if s.TrimID != t.ID {
		s.AddOns = idSet{}
	}
	s.TrimID = t.ID
	return true
}

func (s *VehicleSelection) SelectColor(c storefront.Color) bool {
	if !c.Available {
		return false
	}
	s.ColorID = c.ID
	return true
}

func (s *VehicleSelection) ToggleAddOn(a storefront.AddOn) bool {
	if !a.Available {
		return false
	}
	s.AddOns.toggle(a.ID)
	return true
}

func (s *VehicleSelection) Reset() {
	*s = NewVehicleSelection()
}

func (s VehicleSelection) AddOnIDs() []string { return s.AddOns.sorted() }

func (s VehicleSelection) Clone() VehicleSelection {
	c := s
	c.AddOns = maps.Clone(s.AddOns)
	if c.AddOns == nil {
		c.AddOns = idSet{}
	}
	return c
}

func (s VehicleSelection) Equal(o VehicleSelection) bool {
	return s.TrimID == o.TrimID && s.ColorID == o.ColorID && maps.Equal(s.AddOns, o.AddOns)
}

// missing returns the first unbound required field.
func (s VehicleSelection) missing() string {
	switch {
	case s.TrimID == "":
		return "trim"
	case s.ColorID == "":
		return "color"
	}
	return ""
}

// BookingSelection holds the service-booking choices. Date is YYYY-MM-DD and
// Slot is HH:MM in the booking location.
type BookingSelection struct {
	CarID       string
	BranchID    string
	Services    idSet
	Date        string
	Slot        string
	Description string
}

func NewBookingSelection() BookingSelection {
	return BookingSelection{Services: idSet{}}
}

func (s *BookingSelection) SelectCar(c storefront.UserCar) bool {
	if c.ID == "" {
		return false
	}
	s.CarID = c.ID
	return true
}

func (s *BookingSelection) SelectBranch(b storefront.Branch) bool {
	if !b.Active {
		return false
	}
	s.BranchID = b.ID
	return true
}

func (s *BookingSelection) ToggleService(t storefront.ServiceType) bool {
	if !t.Available {
		return false
	}
	s.Services.toggle(t.ID)
	return true
}

func (s *BookingSelection) SetDescription(d string) {
	s.Description = strings.TrimSpace(d)
}

func (s *BookingSelection) Reset() {
	*s = NewBookingSelection()
}

func (s BookingSelection) ServiceIDs() []string { return s.Services.sorted() }

func (s BookingSelection) Clone() BookingSelection {
	c := s
	c.Services = maps.Clone(s.Services)
	if c.Services == nil {
		c.Services = idSet{}
	}
	return c
}

func (s BookingSelection) Equal(o BookingSelection) bool {
	return s.CarID == o.CarID &&
		s.BranchID == o.BranchID &&
		s.Date == o.Date &&
		s.Slot == o.Slot &&
		s.Description == o.Description &&
		maps.Equal(s.Services, o.Services)
}

func (s BookingSelection) missing() string {
	switch {
	case s.CarID == "":
		return "car"
	case s.BranchID == "":
		return "branch"
	case len(s.Services) == 0:
		return "services"
	case s.Date == "":
		return "date"
	case s.Slot == "":
		return "time"
	}
	return ""
}
