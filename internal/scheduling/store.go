package scheduling

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Store owns the canonical set of appointments and the slot registry. The two
// structures must always agree, so both live behind a single mutex and are
// only mutated through the atomic operations below. Cancelled appointments
// are retained for audit.
type Store struct {
	mu           sync.RWMutex
	slots        *SlotRegistry
	appointments map[string]*types.Appointment
	nextSeq      int64
	now          func() time.Time
}

// NewStore creates an empty appointment store
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates a store using the given clock for slot validation
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		slots:        NewSlotRegistry(),
		appointments: make(map[string]*types.Appointment),
		nextSeq:      1,
		now:          now,
	}
}

// Create validates and reserves the slot, then records a new appointment with
// status scheduled
func (s *Store) Create(patientID, doctorID string, slot types.AppointmentSlot, aptType types.AppointmentType) (*types.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateSlot(slot, doctorID); err != nil {
		return nil, err
	}
	if patientID == "" {
		return nil, types.NewValidationError("patient ID is required", nil)
	}
	if aptType == "" {
		return nil, types.NewValidationError("appointment type is required", nil)
	}

	id := uuid.New().String()
	if err := s.slots.Reserve(slot, id); err != nil {
		return nil, err
	}

	now := s.now()
	apt := &types.Appointment{
		ID:        id,
		PatientID: patientID,
		DoctorID:  doctorID,
		Slot:      slot,
		Status:    types.StatusScheduled,
		Type:      aptType,
		Seq:       s.nextSeq,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextSeq++
	s.appointments[id] = apt

	return copyAppointment(apt), nil
}

// Transition moves an appointment to a new status if the state machine
// permits it. Cancellation releases the appointment's slot.
func (s *Store) Transition(appointmentID string, newStatus types.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.appointments[appointmentID]
	if !ok {
		return types.NewNotFoundError("appointment not found: " + appointmentID)
	}

	if !CanTransition(apt.Status, newStatus) {
		return types.NewInvalidTransitionError("status transition not permitted", map[string]interface{}{
			"appointment_id": appointmentID,
			"from":           apt.Status,
			"to":             newStatus,
		})
	}

	apt.Status = newStatus
	apt.UpdatedAt = s.now()

	if newStatus == types.StatusCancelled {
		s.slots.Release(apt.Slot)
	}

	return nil
}

// Reschedule atomically moves an appointment to a new slot. If the new slot
// cannot be reserved the appointment keeps its original slot.
func (s *Store) Reschedule(appointmentID string, newSlot types.AppointmentSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.appointments[appointmentID]
	if !ok {
		return types.NewNotFoundError("appointment not found: " + appointmentID)
	}

	if apt.Status != types.StatusScheduled && apt.Status != types.StatusConfirmed {
		return types.NewInvalidTransitionError("appointment is not reschedulable", map[string]interface{}{
			"appointment_id": appointmentID,
			"status":         apt.Status,
		})
	}

	if err := s.validateSlot(newSlot, apt.DoctorID); err != nil {
		return err
	}

	// Reserve before release: a failed reservation must leave the original
	// reservation intact. Same-slot reschedules succeed via the registry's
	// idempotent reserve.
	oldSlot := apt.Slot
	if err := s.slots.Reserve(newSlot, appointmentID); err != nil {
		return err
	}
	if oldSlot.Key() != newSlot.Key() {
		s.slots.Release(oldSlot)
	}

	apt.Slot = newSlot
	apt.UpdatedAt = s.now()
	return nil
}

// Find returns a copy of the appointment with the given id
func (s *Store) Find(appointmentID string) (*types.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apt, ok := s.appointments[appointmentID]
	if !ok {
		return nil, types.NewNotFoundError("appointment not found: " + appointmentID)
	}
	return copyAppointment(apt), nil
}

// IsSlotFree reports whether no active appointment occupies the slot
func (s *Store) IsSlotFree(slot types.AppointmentSlot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots.IsFree(slot)
}

// ListByPatient returns the patient's appointments ordered by slot time
func (s *Store) ListByPatient(patientID string) []*types.Appointment {
	return s.list(func(a *types.Appointment) bool { return a.PatientID == patientID })
}

// ListByDoctor returns the doctor's appointments ordered by slot time
func (s *Store) ListByDoctor(doctorID string) []*types.Appointment {
	return s.list(func(a *types.Appointment) bool { return a.DoctorID == doctorID })
}

// ListByStatus returns appointments in the given status ordered by slot time
func (s *Store) ListByStatus(status types.AppointmentStatus) []*types.Appointment {
	return s.list(func(a *types.Appointment) bool { return a.Status == status })
}

// List returns appointments matching the given filters ordered by slot time
func (s *Store) List(filters *types.AppointmentFilters) []*types.Appointment {
	return s.list(func(a *types.Appointment) bool {
		if filters == nil {
			return true
		}
		if filters.PatientID != "" && a.PatientID != filters.PatientID {
			return false
		}
		if filters.DoctorID != "" && a.DoctorID != filters.DoctorID {
			return false
		}
		if filters.Status != "" && a.Status != filters.Status {
			return false
		}
		if filters.Type != "" && a.Type != filters.Type {
			return false
		}
		if !filters.FromDate.IsZero() && a.Slot.Start.Before(filters.FromDate) {
			return false
		}
		if !filters.ToDate.IsZero() && !a.Slot.Start.Before(filters.ToDate) {
			return false
		}
		return true
	})
}

// Statistics returns appointment counts by status
func (s *Store) Statistics() types.AppointmentStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats types.AppointmentStatistics
	for _, apt := range s.appointments {
		stats.Total++
		switch apt.Status {
		case types.StatusScheduled:
			stats.Scheduled++
		case types.StatusConfirmed:
			stats.Confirmed++
		case types.StatusCompleted:
			stats.Completed++
		case types.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// Snapshot returns a copy of every appointment, for persistence
func (s *Store) Snapshot() []*types.Appointment {
	return s.list(func(*types.Appointment) bool { return true })
}

// Load replaces the store's contents from persisted appointments, rebuilding
// slot occupancy. Two active appointments on the same slot indicate corrupted
// persisted state and are rejected rather than silently repaired.
func (s *Store) Load(appointments []*types.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := NewSlotRegistry()
	byID := make(map[string]*types.Appointment, len(appointments))
	var maxSeq int64

	for _, apt := range appointments {
		if _, dup := byID[apt.ID]; dup {
			return types.NewInvariantViolationError("duplicate appointment id in persisted state", map[string]interface{}{
				"appointment_id": apt.ID,
			})
		}
		if apt.Status.IsActive() {
			if holder, occupied := slots.Occupant(apt.Slot); occupied {
				return types.NewInvariantViolationError("two active appointments occupy the same slot", map[string]interface{}{
					"slot":         apt.Slot.Key(),
					"appointments": []string{holder, apt.ID},
				})
			}
			if err := slots.Reserve(apt.Slot, apt.ID); err != nil {
				return err
			}
		}
		byID[apt.ID] = copyAppointment(apt)
		if apt.Seq > maxSeq {
			maxSeq = apt.Seq
		}
	}

	s.slots = slots
	s.appointments = byID
	s.nextSeq = maxSeq + 1
	return nil
}

// validateSlot rejects malformed or past slots and doctor mismatches
func (s *Store) validateSlot(slot types.AppointmentSlot, doctorID string) error {
	if slot.DoctorID == "" || slot.Start.IsZero() {
		return types.NewInvalidSlotError("slot is malformed")
	}
	if doctorID != "" && slot.DoctorID != doctorID {
		return types.NewInvalidSlotError("slot does not belong to the appointment's doctor")
	}
	if slot.Start.Before(s.now()) {
		return types.NewInvalidSlotError("slot is in the past")
	}
	return nil
}

// list collects matching appointments ordered by slot time, then creation order
func (s *Store) list(match func(*types.Appointment) bool) []*types.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*types.Appointment
	for _, apt := range s.appointments {
		if match(apt) {
			result = append(result, copyAppointment(apt))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Slot.Start.Equal(result[j].Slot.Start) {
			return result[i].Slot.Start.Before(result[j].Slot.Start)
		}
		return result[i].Seq < result[j].Seq
	})
	return result
}

func copyAppointment(apt *types.Appointment) *types.Appointment {
	cp := *apt
	return &cp
}
