package types

import (
	"fmt"
	"time"
)

// SlotDuration is the length of a single bookable time bucket.
const SlotDuration = time.Hour

// AppointmentSlot identifies a bookable unit: one doctor, one time bucket.
// Immutable once created; uniquely keyed by (doctor, start time).
type AppointmentSlot struct {
	DoctorID string    `json:"doctor_id" db:"doctor_id"`
	Start    time.Time `json:"start" db:"start_time"`
}

// NewSlot builds a slot with the start time truncated to the bucket boundary.
func NewSlot(doctorID string, start time.Time) AppointmentSlot {
	return AppointmentSlot{
		DoctorID: doctorID,
		Start:    start.UTC().Truncate(SlotDuration),
	}
}

// Key returns the canonical identity of the slot
func (s AppointmentSlot) Key() string {
	return fmt.Sprintf("%s|%s", s.DoctorID, s.Start.UTC().Format(time.RFC3339))
}

// End returns the exclusive end of the slot's time bucket
func (s AppointmentSlot) End() time.Time {
	return s.Start.Add(SlotDuration)
}

// IsZero reports whether the slot is unset
func (s AppointmentSlot) IsZero() bool {
	return s.DoctorID == "" && s.Start.IsZero()
}

// AppointmentStatus represents appointment status values
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted from s
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether the status counts toward slot occupancy
func (s AppointmentStatus) IsActive() bool {
	return s != StatusCancelled
}

// AppointmentType represents appointment type values
type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeXRay         AppointmentType = "x_ray"
	TypeBloodTest    AppointmentType = "blood_test"
	TypeFollowUp     AppointmentType = "follow_up"
)

// Appointment represents a scheduled encounter. Owned exclusively by the
// appointment store; cancelled appointments are retained for audit.
type Appointment struct {
	ID        string            `json:"id" db:"id"`
	PatientID string            `json:"patient_id" db:"patient_id"`
	DoctorID  string            `json:"doctor_id" db:"doctor_id"`
	Slot      AppointmentSlot   `json:"slot"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Type      AppointmentType   `json:"type" db:"appointment_type"`
	Seq       int64             `json:"seq" db:"seq"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// AppointmentFilters represents filters for appointment queries
type AppointmentFilters struct {
	PatientID string            `json:"patient_id,omitempty"`
	DoctorID  string            `json:"doctor_id,omitempty"`
	Status    AppointmentStatus `json:"status,omitempty"`
	Type      AppointmentType   `json:"type,omitempty"`
	FromDate  time.Time         `json:"from_date,omitempty"`
	ToDate    time.Time         `json:"to_date,omitempty"`
}

// DateRange represents a half-open [From, To) calendar window
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls within the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// AppointmentStatistics summarises appointment counts by status
type AppointmentStatistics struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
