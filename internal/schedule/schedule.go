// Package schedule expands a prescription's dosing schedules into concrete
// reminder instants. Expansion is pure: the reminder set for a medicine entry
// is fully determined by its duration, schedule times and the prescription's
// start date, so reminders are always regenerated rather than patched.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/medremind/medremind-api/internal/model"
)

// DefaultTime is used when a medicine entry carries no schedule times.
const DefaultTime = "08:00"

// timePattern matches a strict 24-hour, zero-padded HH:mm clock time.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// InvalidTimeError reports a malformed schedule time and the medicine entry
// that supplied it.
type InvalidTimeError struct {
	MedicineID int64
	Value      string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid schedule time %q for medicine %d: must be HH:mm (24-hour)", e.Value, e.MedicineID)
}

// ValidTime reports whether s is a well-formed HH:mm schedule time.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// Entry is the schedule-relevant slice of a prescription medicine.
type Entry struct {
	PrescriptionMedicineID int64
	MedicineID             int64
	DurationDays           int
	Times                  []string
}

// EntryFromMedicine adapts a persisted prescription medicine for expansion.
func EntryFromMedicine(pm *model.PrescriptionMedicine) Entry {
	return Entry{
		PrescriptionMedicineID: pm.ID,
		MedicineID:             pm.MedicineID,
		DurationDays:           pm.DurationDays,
		Times:                  pm.ScheduleTimes,
	}
}

// Expand maps a start date and a set of medicine entries to the full reminder
// set, one reminder per (day offset, schedule time) pair. Output order is
// entry order, then day ascending, then schedule-time list order. Entries with
// no schedule times default to a single reminder at DefaultTime each day, and
// a non-positive duration is treated as one day. The first malformed time
// aborts the whole expansion.
func Expand(start time.Time, entries []Entry) ([]*model.MedicineReminder, error) {
	var reminders []*model.MedicineReminder

	for _, entry := range entries {
		times := entry.Times
		if len(times) == 0 {
			times = []string{DefaultTime}
		}

		for _, t := range times {
			if !ValidTime(t) {
				return nil, &InvalidTimeError{MedicineID: entry.MedicineID, Value: t}
			}
		}

		days := entry.DurationDays
		if days < 1 {
			days = 1
		}

		day0 := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		for day := 0; day < days; day++ {
			date := day0.AddDate(0, 0, day)
			for _, t := range times {
				hour, minute := mustParseTime(t)
				reminders = append(reminders, &model.MedicineReminder{
					PrescriptionMedicineID: entry.PrescriptionMedicineID,
					ReminderTime: time.Date(
						date.Year(), date.Month(), date.Day(),
						hour, minute, 0, 0, date.Location(),
					),
				})
			}
		}
	}

	return reminders, nil
}

// mustParseTime splits a pre-validated HH:mm string.
func mustParseTime(s string) (hour, minute int) {
	hour, _ = strconv.Atoi(s[:2])
	minute, _ = strconv.Atoi(s[3:])
	return hour, minute
}
