package outcome

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/interfaces"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// AppointmentDirectory is the read capability the recorder needs from the
// appointment store
type AppointmentDirectory interface {
	Find(appointmentID string) (*types.Appointment, error)
}

// Recorder creates outcome records for completed appointments and manages
// the pharmacist-facing prescription lifecycle.
type Recorder struct {
	mu           sync.RWMutex
	logger       *logger.Logger
	appointments AppointmentDirectory
	inventory    interfaces.Inventory
	repository   interfaces.OutcomeRepository
	records      map[string]*types.AppointmentOutcomeRecord // keyed by appointment id
	now          func() time.Time
}

// NewRecorder creates a new outcome recorder
func NewRecorder(appointments AppointmentDirectory, inventory interfaces.Inventory, repo interfaces.OutcomeRepository, log *logger.Logger) *Recorder {
	return &Recorder{
		logger:       log,
		appointments: appointments,
		inventory:    inventory,
		repository:   repo,
		records:      make(map[string]*types.AppointmentOutcomeRecord),
		now:          time.Now,
	}
}

// RecordOutcome creates the outcome record for a completed appointment.
// Exactly one record may exist per appointment, and every prescribed
// medication must exist in inventory. Stock is not reserved here; dispensing
// is the pharmacist workflow.
func (r *Recorder) RecordOutcome(appointmentID, notes string, diagnoses []types.Diagnosis, treatments []types.Treatment, prescriptions []types.Prescription) (*types.AppointmentOutcomeRecord, error) {
	apt, err := r.appointments.Find(appointmentID)
	if err != nil {
		return nil, err
	}

	if apt.Status != types.StatusCompleted {
		return nil, types.NewInvalidTransitionError("outcome can only be recorded for a completed appointment", map[string]interface{}{
			"appointment_id": appointmentID,
			"status":         apt.Status,
		})
	}

	for _, p := range prescriptions {
		exists, err := r.inventory.MedicationExists(p.MedicationID)
		if err != nil {
			return nil, types.NewInternalError("failed to validate medication", err)
		}
		if !exists {
			return nil, types.NewNotFoundError("medication not found: " + p.MedicationID)
		}
		if p.Quantity <= 0 {
			return nil, types.NewValidationError("prescription quantity must be positive", map[string]interface{}{
				"medication_id": p.MedicationID,
			})
		}
	}

	r.mu.Lock()
	if _, exists := r.records[appointmentID]; exists {
		r.mu.Unlock()
		return nil, types.NewDuplicateOutcomeError("outcome record already exists for appointment " + appointmentID)
	}

	record := &types.AppointmentOutcomeRecord{
		AppointmentID:     appointmentID,
		PatientID:         apt.PatientID,
		DoctorID:          apt.DoctorID,
		AppointmentType:   apt.Type,
		AppointmentDate:   apt.Slot.Start,
		ConsultationNotes: notes,
		Diagnoses:         append([]types.Diagnosis(nil), diagnoses...),
		Treatments:        append([]types.Treatment(nil), treatments...),
		CreatedAt:         r.now(),
	}
	for _, p := range prescriptions {
		record.Prescriptions = append(record.Prescriptions, types.Prescription{
			ID:           uuid.New().String(),
			MedicationID: p.MedicationID,
			Quantity:     p.Quantity,
			Status:       types.PrescriptionPending,
		})
	}
	r.records[appointmentID] = record
	result := copyRecord(record)
	r.mu.Unlock()

	r.persist(result)
	r.logger.Infof("Recorded outcome for appointment %s with %d prescriptions", appointmentID, len(result.Prescriptions))
	return result, nil
}

// GetOutcome returns the outcome record for an appointment
func (r *Recorder) GetOutcome(appointmentID string) (*types.AppointmentOutcomeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[appointmentID]
	if !ok {
		return nil, types.NewNotFoundError("no outcome record for appointment " + appointmentID)
	}
	return copyRecord(record), nil
}

// ListByPatient returns a patient's outcome records ordered by appointment date
func (r *Recorder) ListByPatient(patientID string) []*types.AppointmentOutcomeRecord {
	return r.list(func(rec *types.AppointmentOutcomeRecord) bool { return rec.PatientID == patientID })
}

// ListByDoctor returns a doctor's outcome records ordered by appointment date
func (r *Recorder) ListByDoctor(doctorID string) []*types.AppointmentOutcomeRecord {
	return r.list(func(rec *types.AppointmentOutcomeRecord) bool { return rec.DoctorID == doctorID })
}

// ListAll returns every outcome record ordered by appointment date
func (r *Recorder) ListAll() []*types.AppointmentOutcomeRecord {
	return r.list(func(*types.AppointmentOutcomeRecord) bool { return true })
}

// PendingPrescriptions returns the pharmacist work queue of pending
// prescriptions across all outcome records
func (r *Recorder) PendingPrescriptions() []types.PendingPrescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []types.PendingPrescription
	for _, record := range r.records {
		for _, p := range record.Prescriptions {
			if p.Status == types.PrescriptionPending {
				pending = append(pending, types.PendingPrescription{
					AppointmentID: record.AppointmentID,
					PatientID:     record.PatientID,
					Prescription:  p,
				})
			}
		}
	}
	return pending
}

// UpdatePrescriptionStatus resolves a pending prescription. Dispensing
// decrements inventory stock and fails if stock is insufficient.
func (r *Recorder) UpdatePrescriptionStatus(appointmentID, prescriptionID string, status types.PrescriptionStatus) error {
	if status != types.PrescriptionDispensed && status != types.PrescriptionRejected {
		return types.NewValidationError("prescription can only be dispensed or rejected", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[appointmentID]
	if !ok {
		return types.NewNotFoundError("no outcome record for appointment " + appointmentID)
	}

	for i := range record.Prescriptions {
		p := &record.Prescriptions[i]
		if p.ID != prescriptionID {
			continue
		}

		if p.Status != types.PrescriptionPending {
			return types.NewInvalidTransitionError("prescription is already resolved", map[string]interface{}{
				"prescription_id": prescriptionID,
				"status":          p.Status,
			})
		}

		if status == types.PrescriptionDispensed {
			if err := r.inventory.Dispense(p.MedicationID, p.Quantity); err != nil {
				return err
			}
		}

		p.Status = status
		r.persistPrescription(p.ID, status)
		r.logger.Infof("Prescription %s marked %s", prescriptionID, status)
		return nil
	}

	return types.NewNotFoundError("prescription not found: " + prescriptionID)
}

// Load replaces the recorder's contents from persisted records. A record
// whose appointment is not completed indicates corrupted persisted state.
func (r *Recorder) Load(records []*types.AppointmentOutcomeRecord) error {
	byID := make(map[string]*types.AppointmentOutcomeRecord, len(records))

	for _, record := range records {
		apt, err := r.appointments.Find(record.AppointmentID)
		if err != nil {
			return types.NewInvariantViolationError("outcome record references unknown appointment", map[string]interface{}{
				"appointment_id": record.AppointmentID,
			})
		}
		if apt.Status != types.StatusCompleted {
			return types.NewInvariantViolationError("outcome record exists for a non-completed appointment", map[string]interface{}{
				"appointment_id": record.AppointmentID,
				"status":         apt.Status,
			})
		}
		if _, dup := byID[record.AppointmentID]; dup {
			return types.NewInvariantViolationError("duplicate outcome record in persisted state", map[string]interface{}{
				"appointment_id": record.AppointmentID,
			})
		}
		byID[record.AppointmentID] = copyRecord(record)
	}

	r.mu.Lock()
	r.records = byID
	r.mu.Unlock()
	return nil
}

// LoadFromRepository loads persisted outcome records at process start
func (r *Recorder) LoadFromRepository(ctx context.Context) error {
	if r.repository == nil {
		return nil
	}

	records, err := r.repository.LoadOutcomes(ctx)
	if err != nil {
		return types.NewInternalError("failed to load outcome records", err)
	}
	return r.Load(records)
}

func (r *Recorder) list(match func(*types.AppointmentOutcomeRecord) bool) []*types.AppointmentOutcomeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*types.AppointmentOutcomeRecord
	for _, record := range r.records {
		if match(record) {
			result = append(result, copyRecord(record))
		}
	}

	sortRecords(result)
	return result
}

func (r *Recorder) persist(record *types.AppointmentOutcomeRecord) {
	if r.repository == nil {
		return
	}
	if err := r.repository.SaveOutcome(context.Background(), record); err != nil {
		r.logger.WithError(err).Errorf("Failed to persist outcome record for appointment %s", record.AppointmentID)
	}
}

func (r *Recorder) persistPrescription(prescriptionID string, status types.PrescriptionStatus) {
	if r.repository == nil {
		return
	}
	if err := r.repository.UpdatePrescriptionStatus(context.Background(), prescriptionID, status); err != nil {
		r.logger.WithError(err).Errorf("Failed to persist prescription %s status", prescriptionID)
	}
}

func copyRecord(record *types.AppointmentOutcomeRecord) *types.AppointmentOutcomeRecord {
	cp := *record
	cp.Diagnoses = append([]types.Diagnosis(nil), record.Diagnoses...)
	cp.Treatments = append([]types.Treatment(nil), record.Treatments...)
	cp.Prescriptions = append([]types.Prescription(nil), record.Prescriptions...)
	return &cp
}

func sortRecords(records []*types.AppointmentOutcomeRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].AppointmentDate.Before(records[j].AppointmentDate)
	})
}
