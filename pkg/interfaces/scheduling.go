package interfaces

import (
	"context"
	"time"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// AppointmentRepository defines the interface for appointment persistence.
// The in-memory store is the system of record during operation; the
// repository loads it at process start and records committed mutations.
type AppointmentRepository interface {
	SaveAppointment(ctx context.Context, apt *types.Appointment) error
	LoadAppointments(ctx context.Context) ([]*types.Appointment, error)
	SaveCalendarSlots(ctx context.Context, doctorID string, starts []time.Time) error
	LoadCalendarSlots(ctx context.Context) (map[string][]time.Time, error)
}

// CalendarProvider supplies a doctor's working slots for a date range and
// accepts published availability
type CalendarProvider interface {
	WorkingSlots(doctorID string, dateRange types.DateRange) ([]types.AppointmentSlot, error)
	PublishSlots(doctorID string, starts []time.Time)
}
