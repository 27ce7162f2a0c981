package wizard

import (
	"fmt"
	"slices"
	"time"
)

const (
	firstSlotMinute = 9 * 60
	lastSlotMinute  = 17*60 + 30
	slotMinutes     = 30

	dateLayout = "2006-01-02"
	slotLayout = "15:04"
)

// TimeSlots lists the bookable half-hour starts, 09:00 through 17:30.
func TimeSlots() []string {
	out := make([]string, 0, (lastSlotMinute-firstSlotMinute)/slotMinutes+1)
	for m := firstSlotMinute; m <= lastSlotMinute; m += slotMinutes {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

// slotTime resolves a date and slot in loc.
func slotTime(date, slot string, loc *time.Location) (time.Time, error) {
	if !slices.Contains(TimeSlots(), slot) {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidSchedule, slot)
	}
	at, err := time.ParseInLocation(dateLayout+" "+slotLayout, date+" "+slot, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidSchedule, date)
	}
	return at, nil
}
