package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

func TestCalendar_DefaultWorkingDay(t *testing.T) {
	calendar := NewCalendar(9, 17, logger.New("error"))

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	slots, err := calendar.WorkingSlots("doctor-1", types.DateRange{
		From: day,
		To:   day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	require.Len(t, slots, 8)
	assert.Equal(t, day.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, day.Add(16*time.Hour), slots[len(slots)-1].Start)
	for _, slot := range slots {
		assert.Equal(t, "doctor-1", slot.DoctorID)
	}
}

func TestCalendar_DefaultSpansMultipleDays(t *testing.T) {
	calendar := NewCalendar(9, 12, logger.New("error"))

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	slots, err := calendar.WorkingSlots("doctor-1", types.DateRange{
		From: day,
		To:   day.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	assert.Len(t, slots, 9)
}

func TestCalendar_PublishedOverridesDefault(t *testing.T) {
	calendar := NewCalendar(9, 17, logger.New("error"))

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	calendar.PublishSlots("doctor-1", []time.Time{
		day.Add(10 * time.Hour),
		day.Add(14 * time.Hour),
	})

	slots, err := calendar.WorkingSlots("doctor-1", types.DateRange{
		From: day,
		To:   day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, day.Add(10*time.Hour), slots[0].Start)
	assert.Equal(t, day.Add(14*time.Hour), slots[1].Start)

	// Another doctor still gets the default working day
	others, err := calendar.WorkingSlots("doctor-2", types.DateRange{
		From: day,
		To:   day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Len(t, others, 8)
}

func TestCalendar_PublishedFilteredByRange(t *testing.T) {
	calendar := NewCalendar(9, 17, logger.New("error"))

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	calendar.PublishSlots("doctor-1", []time.Time{
		day.Add(10 * time.Hour),
		day.AddDate(0, 0, 5).Add(10 * time.Hour),
	})

	slots, err := calendar.WorkingSlots("doctor-1", types.DateRange{
		From: day,
		To:   day.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, day.Add(10*time.Hour), slots[0].Start)
}

func TestCalendar_PublishReplacesPrevious(t *testing.T) {
	calendar := NewCalendar(9, 17, logger.New("error"))

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	calendar.PublishSlots("doctor-1", []time.Time{day.Add(10 * time.Hour)})
	calendar.PublishSlots("doctor-1", []time.Time{day.Add(11 * time.Hour)})

	slots, err := calendar.WorkingSlots("doctor-1", types.DateRange{
		From: day,
		To:   day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, day.Add(11*time.Hour), slots[0].Start)
}
