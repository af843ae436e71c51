package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTime(t *testing.T) {
	cases := []struct {
		value string
		valid bool
	}{
		{"00:00", true},
		{"08:00", true},
		{"23:59", true},
		{"19:05", true},
		{"24:00", false},
		{"8:00", false},
		{"08:60", false},
		{"8:0", false},
		{"", false},
		{"08:00 ", false},
		{"0800", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.valid, ValidTime(c.value), "value %q", c.value)
	}
}

func TestExpandCount(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{PrescriptionMedicineID: 1, MedicineID: 10, DurationDays: 7, Times: []string{"08:00", "13:30", "21:00"}},
		{PrescriptionMedicineID: 2, MedicineID: 11, DurationDays: 3, Times: []string{"10:00"}},
	}

	reminders, err := Expand(start, entries)
	require.NoError(t, err)
	assert.Len(t, reminders, 7*3+3*1)
}

func TestExpandDeterministic(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{PrescriptionMedicineID: 5, MedicineID: 2, DurationDays: 4, Times: []string{"09:15", "18:45"}},
	}

	first, err := Expand(start, entries)
	require.NoError(t, err)
	second, err := Expand(start, entries)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].ReminderTime.Equal(second[i].ReminderTime))
		assert.Equal(t, first[i].PrescriptionMedicineID, second[i].PrescriptionMedicineID)
	}
}

func TestExpandOrdering(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{PrescriptionMedicineID: 1, MedicineID: 1, DurationDays: 2, Times: []string{"08:00", "20:00"}},
	}

	reminders, err := Expand(start, entries)
	require.NoError(t, err)
	require.Len(t, reminders, 4)

	expected := []time.Time{
		time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 20, 0, 0, 0, time.UTC),
	}
	for i, want := range expected {
		assert.True(t, reminders[i].ReminderTime.Equal(want), "index %d: got %v", i, reminders[i].ReminderTime)
		assert.False(t, reminders[i].Sent)
		assert.False(t, reminders[i].Acknowledged)
	}
}

func TestExpandDefaultScheduleTime(t *testing.T) {
	start := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{PrescriptionMedicineID: 9, MedicineID: 3, DurationDays: 3, Times: nil},
	}

	reminders, err := Expand(start, entries)
	require.NoError(t, err)
	require.Len(t, reminders, 3)

	for i, r := range reminders {
		want := time.Date(2025, 2, 5+i, 8, 0, 0, 0, time.UTC)
		assert.True(t, r.ReminderTime.Equal(want))
	}
}

func TestExpandNonPositiveDurationTreatedAsOneDay(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	for _, days := range []int{0, -3} {
		reminders, err := Expand(start, []Entry{
			{PrescriptionMedicineID: 1, MedicineID: 1, DurationDays: days, Times: []string{"12:00"}},
		})
		require.NoError(t, err)
		require.Len(t, reminders, 1, "durationDays=%d", days)
		assert.True(t, reminders[0].ReminderTime.Equal(time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)))
	}
}

func TestExpandStartTimeOfDayIgnored(t *testing.T) {
	// Start dates carry date-only semantics: any clock time on the start
	// date must not leak into the generated reminders.
	start := time.Date(2025, 4, 1, 17, 42, 19, 0, time.UTC)
	reminders, err := Expand(start, []Entry{
		{PrescriptionMedicineID: 1, MedicineID: 1, DurationDays: 1, Times: []string{"06:30"}},
	})
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.True(t, reminders[0].ReminderTime.Equal(time.Date(2025, 4, 1, 6, 30, 0, 0, time.UTC)))
}

func TestExpandInvalidTimeAborts(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{PrescriptionMedicineID: 1, MedicineID: 7, DurationDays: 2, Times: []string{"08:00"}},
		{PrescriptionMedicineID: 2, MedicineID: 8, DurationDays: 2, Times: []string{"25:00"}},
	}

	reminders, err := Expand(start, entries)
	require.Error(t, err)
	assert.Nil(t, reminders)

	var invalid *InvalidTimeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(8), invalid.MedicineID)
	assert.Equal(t, "25:00", invalid.Value)
}

func TestExpandNoEntries(t *testing.T) {
	reminders, err := Expand(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}
