package scheduling

import (
	"context"
	"time"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/config"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/interfaces"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/monitoring"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Service orchestrates schedule, reschedule and cancel operations over the
// appointment store, applying authorization before any mutation.
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	store      *Store
	calendar   interfaces.CalendarProvider
	repository interfaces.AppointmentRepository
	metrics    *monitoring.MetricsCollector
}

// New creates a new scheduling service
func New(cfg *config.Config, log *logger.Logger, store *Store, calendar interfaces.CalendarProvider, repo interfaces.AppointmentRepository, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		store:      store,
		calendar:   calendar,
		repository: repo,
		metrics:    metrics,
	}
}

// ScheduleAppointment books a new appointment for a patient. Patients may
// only book for themselves; administrators may book for anyone.
func (s *Service) ScheduleAppointment(actor *types.UserClaims, patientID, doctorID string, slot types.AppointmentSlot, aptType types.AppointmentType) (*types.Appointment, error) {
	if actor.Role != types.RoleAdministrator && actor.UserID != patientID {
		s.audit(actor, "schedule_appointment", false)
		return nil, types.NewUnauthorizedError("only the patient or an administrator may schedule this appointment")
	}

	// A patient cannot hold two active appointments with the same doctor in
	// the same time bucket, independent of slot exclusivity.
	for _, existing := range s.store.ListByPatient(patientID) {
		if existing.Status.IsActive() && existing.DoctorID == doctorID && existing.Slot.Key() == slot.Key() {
			s.recordOperation("schedule", "conflict")
			return nil, types.NewSlotConflictError("patient already has an appointment with this doctor at this time", map[string]interface{}{
				"appointment_id": existing.ID,
			})
		}
	}

	apt, err := s.store.Create(patientID, doctorID, slot, aptType)
	if err != nil {
		s.recordFailure("schedule", err)
		return nil, err
	}

	s.persist(apt.ID)
	s.audit(actor, "schedule_appointment", true)
	s.recordOperation("schedule", "success")
	s.logger.Infof("Scheduled appointment %s for patient %s with doctor %s", apt.ID, patientID, doctorID)
	return apt, nil
}

// RescheduleAppointment moves an appointment to a new slot. Only the owning
// patient or an administrator may reschedule.
func (s *Service) RescheduleAppointment(actor *types.UserClaims, appointmentID string, newSlot types.AppointmentSlot) error {
	apt, err := s.store.Find(appointmentID)
	if err != nil {
		return err
	}

	if actor.Role != types.RoleAdministrator && actor.UserID != apt.PatientID {
		s.audit(actor, "reschedule_appointment", false)
		return types.NewUnauthorizedError("only the owning patient or an administrator may reschedule")
	}

	if err := s.store.Reschedule(appointmentID, newSlot); err != nil {
		s.recordFailure("reschedule", err)
		return err
	}

	s.persist(appointmentID)
	s.audit(actor, "reschedule_appointment", true)
	s.recordOperation("reschedule", "success")
	s.logger.Infof("Rescheduled appointment %s to %s", appointmentID, newSlot.Start)
	return nil
}

// CancelAppointment cancels an appointment, releasing its slot. Only the
// owning patient or an administrator may cancel.
func (s *Service) CancelAppointment(actor *types.UserClaims, appointmentID string) error {
	apt, err := s.store.Find(appointmentID)
	if err != nil {
		return err
	}

	if actor.Role != types.RoleAdministrator && actor.UserID != apt.PatientID {
		s.audit(actor, "cancel_appointment", false)
		return types.NewUnauthorizedError("only the owning patient or an administrator may cancel")
	}

	if err := s.store.Transition(appointmentID, types.StatusCancelled); err != nil {
		s.recordFailure("cancel", err)
		return err
	}

	s.persist(appointmentID)
	s.audit(actor, "cancel_appointment", true)
	s.recordOperation("cancel", "success")
	s.logger.Infof("Cancelled appointment %s", appointmentID)
	return nil
}

// ConfirmAppointment marks a scheduled appointment as confirmed. Doctor or
// administrator only; a doctor may only confirm their own appointments.
func (s *Service) ConfirmAppointment(actor *types.UserClaims, appointmentID string) error {
	return s.staffTransition(actor, appointmentID, types.StatusConfirmed, "confirm")
}

// CompleteAppointment marks a confirmed appointment as completed. Doctor or
// administrator only; a doctor may only complete their own appointments.
func (s *Service) CompleteAppointment(actor *types.UserClaims, appointmentID string) error {
	return s.staffTransition(actor, appointmentID, types.StatusCompleted, "complete")
}

// staffTransition applies a doctor/admin-only status transition
func (s *Service) staffTransition(actor *types.UserClaims, appointmentID string, status types.AppointmentStatus, operation string) error {
	apt, err := s.store.Find(appointmentID)
	if err != nil {
		return err
	}

	switch actor.Role {
	case types.RoleAdministrator:
	case types.RoleDoctor:
		if actor.UserID != apt.DoctorID {
			s.audit(actor, operation+"_appointment", false)
			return types.NewUnauthorizedError("doctors may only manage their own appointments")
		}
	default:
		s.audit(actor, operation+"_appointment", false)
		return types.NewUnauthorizedError("operation requires doctor or administrator role")
	}

	if err := s.store.Transition(appointmentID, status); err != nil {
		s.recordFailure(operation, err)
		return err
	}

	s.persist(appointmentID)
	s.audit(actor, operation+"_appointment", true)
	s.recordOperation(operation, "success")
	s.logger.Infof("Appointment %s moved to %s", appointmentID, status)
	return nil
}

// GetAppointment returns a single appointment by id
func (s *Service) GetAppointment(appointmentID string) (*types.Appointment, error) {
	return s.store.Find(appointmentID)
}

// ListPatientAppointments returns a patient's appointments ordered by slot time
func (s *Service) ListPatientAppointments(patientID string) []*types.Appointment {
	return s.store.ListByPatient(patientID)
}

// ListDoctorAppointments returns a doctor's appointments ordered by slot time
func (s *Service) ListDoctorAppointments(doctorID string) []*types.Appointment {
	return s.store.ListByDoctor(doctorID)
}

// ListAppointments returns appointments matching the given filters
func (s *Service) ListAppointments(filters *types.AppointmentFilters) []*types.Appointment {
	return s.store.List(filters)
}

// ListAvailableSlots returns the doctor's working slots in the range that no
// active appointment occupies
func (s *Service) ListAvailableSlots(doctorID string, dateRange types.DateRange) ([]types.AppointmentSlot, error) {
	working, err := s.calendar.WorkingSlots(doctorID, dateRange)
	if err != nil {
		return nil, types.NewInternalError("failed to get working slots", err)
	}

	var available []types.AppointmentSlot
	for _, slot := range working {
		if s.store.IsSlotFree(slot) {
			available = append(available, slot)
		}
	}
	return available, nil
}

// PublishCalendar records a doctor's working slots. Doctors publish only
// their own calendar; administrators may publish for anyone.
func (s *Service) PublishCalendar(actor *types.UserClaims, doctorID string, starts []time.Time) error {
	if actor.Role != types.RoleAdministrator && actor.UserID != doctorID {
		s.audit(actor, "publish_calendar", false)
		return types.NewUnauthorizedError("only the doctor or an administrator may publish this calendar")
	}

	s.calendar.PublishSlots(doctorID, starts)
	if s.repository != nil {
		if err := s.repository.SaveCalendarSlots(context.Background(), doctorID, starts); err != nil {
			s.logger.WithError(err).Errorf("Failed to persist calendar for doctor %s", doctorID)
		}
	}
	s.audit(actor, "publish_calendar", true)
	s.logger.Infof("Published %d working slots for doctor %s", len(starts), doctorID)
	return nil
}

// Statistics returns appointment counts by status
func (s *Service) Statistics() types.AppointmentStatistics {
	return s.store.Statistics()
}

// LoadFromRepository replaces the store's contents from persisted state.
// Corrupted state surfaces as an invariant violation rather than being
// silently repaired.
func (s *Service) LoadFromRepository(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}

	appointments, err := s.repository.LoadAppointments(ctx)
	if err != nil {
		return types.NewInternalError("failed to load appointments", err)
	}

	if err := s.store.Load(appointments); err != nil {
		return err
	}

	calendars, err := s.repository.LoadCalendarSlots(ctx)
	if err != nil {
		return types.NewInternalError("failed to load doctor calendars", err)
	}
	for doctorID, starts := range calendars {
		s.calendar.PublishSlots(doctorID, starts)
	}

	s.logger.Infof("Loaded %d appointments and %d doctor calendars from repository", len(appointments), len(calendars))
	return nil
}

// persist records a committed mutation in the repository, outside the
// store's lock. Persistence failures are logged, not propagated: the
// in-memory store is the system of record while the process runs.
func (s *Service) persist(appointmentID string) {
	if s.repository == nil {
		return
	}

	apt, err := s.store.Find(appointmentID)
	if err != nil {
		return
	}

	if err := s.repository.SaveAppointment(context.Background(), apt); err != nil {
		s.logger.WithError(err).Errorf("Failed to persist appointment %s", appointmentID)
	}
}

func (s *Service) audit(actor *types.UserClaims, action string, success bool) {
	s.logger.Audit(actor.UserID, action, "appointment", success, nil)
	if s.metrics != nil {
		s.metrics.RecordAuditEvent(action, success)
	}
}

func (s *Service) recordOperation(operation, result string) {
	if s.metrics != nil {
		s.metrics.RecordSchedulingOperation(operation, result)
	}
}

func (s *Service) recordFailure(operation string, err error) {
	if s.metrics == nil {
		return
	}
	if types.IsKind(err, types.ErrKindSlotConflict) {
		s.metrics.RecordSlotConflict()
		s.metrics.RecordSchedulingOperation(operation, "conflict")
		return
	}
	s.metrics.RecordSchedulingOperation(operation, "error")
}
