package scheduling

import (
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// SlotRegistry tracks which (doctor, time-slot) pairs are occupied and by
// which appointment. It performs no I/O and is not safe for concurrent use
// on its own; the owning Store serialises access.
type SlotRegistry struct {
	occupancy map[string]string // slot key -> appointment id
}

// NewSlotRegistry creates an empty slot registry
func NewSlotRegistry() *SlotRegistry {
	return &SlotRegistry{
		occupancy: make(map[string]string),
	}
}

// IsFree reports whether no active appointment occupies the slot
func (r *SlotRegistry) IsFree(slot types.AppointmentSlot) bool {
	_, occupied := r.occupancy[slot.Key()]
	return !occupied
}

// Occupant returns the appointment id holding the slot, if any
func (r *SlotRegistry) Occupant(slot types.AppointmentSlot) (string, bool) {
	id, ok := r.occupancy[slot.Key()]
	return id, ok
}

// Reserve marks the slot occupied by the given appointment. Reserving a slot
// already held by the same appointment is a no-op, which lets a reschedule
// land on the appointment's current slot.
func (r *SlotRegistry) Reserve(slot types.AppointmentSlot, appointmentID string) error {
	key := slot.Key()
	if holder, occupied := r.occupancy[key]; occupied {
		if holder == appointmentID {
			return nil
		}
		return types.NewSlotConflictError("slot is already reserved", map[string]interface{}{
			"doctor_id":  slot.DoctorID,
			"slot_start": slot.Start,
			"held_by":    holder,
		})
	}

	r.occupancy[key] = appointmentID
	return nil
}

// Release marks the slot free; releasing a free slot is a no-op
func (r *SlotRegistry) Release(slot types.AppointmentSlot) {
	delete(r.occupancy, slot.Key())
}

// Len returns the number of occupied slots
func (r *SlotRegistry) Len() int {
	return len(r.occupancy)
}
