package wizard

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

func TestToggleTwiceOnEmptySetIsEmpty(t *testing.T) {
	s := NewVehicleSelection()
	x := storefront.AddOn{ID: "x", Available: true}
	s.ToggleAddOn(x)
	assert.Equal(t, []string{"x"}, s.AddOnIDs())
	s.ToggleAddOn(x)
	assert.Empty(t, s.AddOnIDs())
}

func TestUnavailableItemsAreIgnored(t *testing.T) {
	s := NewVehicleSelection()
	assert.False(t, s.BindTrim(storefront.Trim{ID: "t1"}))
	assert.Empty(t, s.TrimID)

	assert.True(t, s.BindTrim(storefront.Trim{ID: "t1", Available: true}))
	assert.False(t, s.SelectColor(storefront.Color{ID: "gold"}))
	assert.Empty(t, s.ColorID)
	assert.False(t, s.ToggleAddOn(storefront.AddOn{ID: "o1"}))
	assert.Empty(t, s.AddOnIDs())

	b := NewBookingSelection()
	assert.False(t, b.SelectBranch(storefront.Branch{ID: "br1"}))
	assert.False(t, b.ToggleService(storefront.ServiceType{ID: "s1"}))
	assert.Empty(t, b.BranchID)
	assert.Empty(t, b.ServiceIDs())
}

func TestSwitchingTrimDropsAddOns(t *testing.T) {
	s := NewVehicleSelection()
	s.BindTrim(storefront.Trim{ID: "t1", Available: true})
	s.ToggleAddOn(storefront.AddOn{ID: "o1", Available: true})
	s.BindTrim(storefront.Trim{ID: "t1", Available: true})
	assert.Equal(t, []string{"o1"}, s.AddOnIDs())

	s.BindTrim(storefront.Trim{ID: "t2", Available: true})
	assert.Empty(t, s.AddOnIDs())
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewVehicleSelection()
	s.ToggleAddOn(storefront.AddOn{ID: "o1", Available: true})
	c := s.Clone()
	s.ToggleAddOn(storefront.AddOn{ID: "o2", Available: true})
	assert.False(t, c.Equal(s))
	assert.Equal(t, []string{"o1"}, c.AddOnIDs())
}

func TestMissingFieldOrder(t *testing.T) {
	v := NewVehicleSelection()
	assert.Equal(t, "trim", v.missing())
	v.TrimID = "t"
	assert.Equal(t, "color", v.missing())
	v.ColorID = "c"
	assert.Empty(t, v.missing())

	b := NewBookingSelection()
	for _, want := range []string{"car", "branch", "services", "date", "time"} {
		assert.Equal(t, want, b.missing())
		switch want {
		case "car":
			b.CarID = "car"
		case "branch":
			b.BranchID = "br"
		case "services":
			b.Services["s1"] = struct{}{}
		case "date":
			b.Date = "2026-11-02"
		case "time":
			b.Slot = "10:00"
		}
	}
	assert.Empty(t, b.missing())
}

func TestToggleRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	ids := gen.SliceOf(gen.AlphaString())

	properties.Property("toggling the same add-on twice restores the set", prop.ForAll(
		func(initial []string, id string) bool {
			s := NewVehicleSelection()
			for _, i := range initial {
				if !s.AddOns.has(i) {
					s.ToggleAddOn(storefront.AddOn{ID: i, Available: true})
				}
			}
			before := s.Clone()
			a := storefront.AddOn{ID: id, Available: true}
			s.ToggleAddOn(a)
			s.ToggleAddOn(a)
			return s.Equal(before)
		},
		ids, gen.AlphaString(),
	))

	properties.Property("toggling the same service twice restores the set", prop.ForAll(
		func(initial []string, id string) bool {
			s := NewBookingSelection()
			for _, i := range initial {
				s.Services[i] = struct{}{}
			}
			before := s.Clone()
			st := storefront.ServiceType{ID: id, Available: true}
			s.ToggleService(st)
			s.ToggleService(st)
			return s.Equal(before)
		},
		ids, gen.AlphaString(),
	))

	properties.TestingRun(t)
}
