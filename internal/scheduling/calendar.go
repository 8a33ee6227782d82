package scheduling

import (
	"sort"
	"sync"
	"time"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Calendar supplies doctors' working slots. Doctors may publish an explicit
// availability calendar; doctors without one fall back to the default
// working day generated in hourly buckets.
type Calendar struct {
	mu        sync.RWMutex
	logger    *logger.Logger
	published map[string]map[string]types.AppointmentSlot // doctor id -> slot key -> slot
	startHour int
	endHour   int
}

// NewCalendar creates a calendar with the given default working hours
func NewCalendar(startHour, endHour int, log *logger.Logger) *Calendar {
	return &Calendar{
		logger:    log,
		published: make(map[string]map[string]types.AppointmentSlot),
		startHour: startHour,
		endHour:   endHour,
	}
}

// PublishSlots replaces a doctor's published availability for the given starts
func (c *Calendar) PublishSlots(doctorID string, starts []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slots := make(map[string]types.AppointmentSlot, len(starts))
	for _, start := range starts {
		slot := types.NewSlot(doctorID, start)
		slots[slot.Key()] = slot
	}
	c.published[doctorID] = slots

	c.logger.WithComponent("calendar").Infof("Published %d working slots for doctor %s", len(slots), doctorID)
}

// WorkingSlots returns the doctor's working slots within the date range,
// ordered by start time
func (c *Calendar) WorkingSlots(doctorID string, dateRange types.DateRange) ([]types.AppointmentSlot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var slots []types.AppointmentSlot

	if published, ok := c.published[doctorID]; ok {
		for _, slot := range published {
			if dateRange.Contains(slot.Start) {
				slots = append(slots, slot)
			}
		}
	} else {
		slots = c.defaultSlots(doctorID, dateRange)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots, nil
}

// defaultSlots generates hourly buckets over the default working day for
// each day in the range
func (c *Calendar) defaultSlots(doctorID string, dateRange types.DateRange) []types.AppointmentSlot {
	var slots []types.AppointmentSlot

	day := time.Date(dateRange.From.Year(), dateRange.From.Month(), dateRange.From.Day(), 0, 0, 0, 0, time.UTC)
	for ; day.Before(dateRange.To); day = day.AddDate(0, 0, 1) {
		for hour := c.startHour; hour < c.endHour; hour++ {
			start := day.Add(time.Duration(hour) * time.Hour)
			if dateRange.Contains(start) {
				slots = append(slots, types.NewSlot(doctorID, start))
			}
		}
	}
	return slots
}
