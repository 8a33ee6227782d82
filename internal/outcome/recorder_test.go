package outcome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// MockAppointmentDirectory is a mock implementation of AppointmentDirectory
type MockAppointmentDirectory struct {
	mock.Mock
}

func (m *MockAppointmentDirectory) Find(appointmentID string) (*types.Appointment, error) {
	args := m.Called(appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

// MockInventory is a mock implementation of the Inventory interface
type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) MedicationExists(medicationID string) (bool, error) {
	args := m.Called(medicationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventory) Dispense(medicationID string, quantity int) error {
	args := m.Called(medicationID, quantity)
	return args.Error(0)
}

func completedAppointment(id string) *types.Appointment {
	return &types.Appointment{
		ID:        id,
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		Slot:      types.NewSlot("doctor-1", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)),
		Status:    types.StatusCompleted,
		Type:      types.TypeConsultation,
	}
}

func setupTestRecorder() (*Recorder, *MockAppointmentDirectory, *MockInventory) {
	directory := &MockAppointmentDirectory{}
	inventory := &MockInventory{}
	recorder := NewRecorder(directory, inventory, nil, logger.New("error"))
	return recorder, directory, inventory
}

func TestRecordOutcome_Success(t *testing.T) {
	recorder, directory, inventory := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	inventory.On("MedicationExists", "med-1").Return(true, nil)

	record, err := recorder.RecordOutcome("apt-1", "stable, follow up in two weeks",
		[]types.Diagnosis{{Code: "J06.9", Description: "Upper respiratory infection"}},
		[]types.Treatment{{Name: "Rest", Description: "Bed rest for three days"}},
		[]types.Prescription{{MedicationID: "med-1", Quantity: 10}})
	require.NoError(t, err)

	assert.Equal(t, "apt-1", record.AppointmentID)
	assert.Equal(t, "patient-1", record.PatientID)
	assert.Equal(t, "doctor-1", record.DoctorID)
	require.Len(t, record.Prescriptions, 1)
	assert.NotEmpty(t, record.Prescriptions[0].ID)
	assert.Equal(t, types.PrescriptionPending, record.Prescriptions[0].Status)
}

func TestRecordOutcome_RequiresCompletedAppointment(t *testing.T) {
	recorder, directory, _ := setupTestRecorder()

	apt := completedAppointment("apt-1")
	apt.Status = types.StatusConfirmed
	directory.On("Find", "apt-1").Return(apt, nil)

	_, err := recorder.RecordOutcome("apt-1", "notes", nil, nil, nil)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidTransition))
}

func TestRecordOutcome_UnknownAppointment(t *testing.T) {
	recorder, directory, _ := setupTestRecorder()

	directory.On("Find", "missing").Return(nil, types.NewNotFoundError("appointment not found: missing"))

	_, err := recorder.RecordOutcome("missing", "notes", nil, nil, nil)
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestRecordOutcome_UnknownMedication(t *testing.T) {
	recorder, directory, inventory := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	inventory.On("MedicationExists", "bogus").Return(false, nil)

	_, err := recorder.RecordOutcome("apt-1", "notes", nil, nil,
		[]types.Prescription{{MedicationID: "bogus", Quantity: 5}})
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestRecordOutcome_InvalidQuantity(t *testing.T) {
	recorder, directory, inventory := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	inventory.On("MedicationExists", "med-1").Return(true, nil)

	_, err := recorder.RecordOutcome("apt-1", "notes", nil, nil,
		[]types.Prescription{{MedicationID: "med-1", Quantity: 0}})
	assert.True(t, types.IsKind(err, types.ErrKindValidation))
}

func TestRecordOutcome_Duplicate(t *testing.T) {
	recorder, directory, _ := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)

	_, err := recorder.RecordOutcome("apt-1", "first", nil, nil, nil)
	require.NoError(t, err)

	_, err = recorder.RecordOutcome("apt-1", "second", nil, nil, nil)
	assert.True(t, types.IsKind(err, types.ErrKindDuplicateOutcome))
}

func TestGetOutcome_NotFound(t *testing.T) {
	recorder, _, _ := setupTestRecorder()

	_, err := recorder.GetOutcome("missing")
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestPendingPrescriptions_DispenseFlow(t *testing.T) {
	recorder, directory, inventory := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	inventory.On("MedicationExists", "med-1").Return(true, nil)
	inventory.On("Dispense", "med-1", 10).Return(nil)

	_, err := recorder.RecordOutcome("apt-1", "notes", nil, nil,
		[]types.Prescription{{MedicationID: "med-1", Quantity: 10}})
	require.NoError(t, err)

	pending := recorder.PendingPrescriptions()
	require.Len(t, pending, 1)
	assert.Equal(t, "apt-1", pending[0].AppointmentID)

	err = recorder.UpdatePrescriptionStatus("apt-1", pending[0].Prescription.ID, types.PrescriptionDispensed)
	require.NoError(t, err)
	inventory.AssertCalled(t, "Dispense", "med-1", 10)

	// The queue drains and the prescription cannot be resolved twice
	assert.Empty(t, recorder.PendingPrescriptions())
	err = recorder.UpdatePrescriptionStatus("apt-1", pending[0].Prescription.ID, types.PrescriptionRejected)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidTransition))
}

func TestUpdatePrescriptionStatus_RejectSkipsInventory(t *testing.T) {
	recorder, directory, inventory := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	inventory.On("MedicationExists", "med-1").Return(true, nil)

	record, err := recorder.RecordOutcome("apt-1", "notes", nil, nil,
		[]types.Prescription{{MedicationID: "med-1", Quantity: 10}})
	require.NoError(t, err)

	err = recorder.UpdatePrescriptionStatus("apt-1", record.Prescriptions[0].ID, types.PrescriptionRejected)
	require.NoError(t, err)
	inventory.AssertNotCalled(t, "Dispense", mock.Anything, mock.Anything)
}

func TestUpdatePrescriptionStatus_InsufficientStock(t *testing.T) {
	recorder, directory, inventory := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	inventory.On("MedicationExists", "med-1").Return(true, nil)
	inventory.On("Dispense", "med-1", 10).Return(types.NewValidationError("insufficient stock", nil))

	record, err := recorder.RecordOutcome("apt-1", "notes", nil, nil,
		[]types.Prescription{{MedicationID: "med-1", Quantity: 10}})
	require.NoError(t, err)

	err = recorder.UpdatePrescriptionStatus("apt-1", record.Prescriptions[0].ID, types.PrescriptionDispensed)
	assert.Error(t, err)

	// Still pending after the failed dispense
	assert.Len(t, recorder.PendingPrescriptions(), 1)
}

func TestUpdatePrescriptionStatus_InvalidTarget(t *testing.T) {
	recorder, directory, _ := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	_, err := recorder.RecordOutcome("apt-1", "notes", nil, nil, nil)
	require.NoError(t, err)

	err = recorder.UpdatePrescriptionStatus("apt-1", "rx-1", types.PrescriptionPending)
	assert.True(t, types.IsKind(err, types.ErrKindValidation))

	err = recorder.UpdatePrescriptionStatus("apt-1", "rx-1", types.PrescriptionDispensed)
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))

	err = recorder.UpdatePrescriptionStatus("missing", "rx-1", types.PrescriptionDispensed)
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestLoad_RejectsCorruptedState(t *testing.T) {
	recorder, directory, _ := setupTestRecorder()

	directory.On("Find", "apt-1").Return(completedAppointment("apt-1"), nil)
	confirmed := completedAppointment("apt-2")
	confirmed.Status = types.StatusConfirmed
	directory.On("Find", "apt-2").Return(confirmed, nil)
	directory.On("Find", "missing").Return(nil, types.NewNotFoundError("appointment not found: missing"))

	err := recorder.Load([]*types.AppointmentOutcomeRecord{{AppointmentID: "missing"}})
	assert.True(t, types.IsKind(err, types.ErrKindInvariantViolation))

	err = recorder.Load([]*types.AppointmentOutcomeRecord{{AppointmentID: "apt-2"}})
	assert.True(t, types.IsKind(err, types.ErrKindInvariantViolation))

	err = recorder.Load([]*types.AppointmentOutcomeRecord{
		{AppointmentID: "apt-1"},
		{AppointmentID: "apt-1"},
	})
	assert.True(t, types.IsKind(err, types.ErrKindInvariantViolation))

	err = recorder.Load([]*types.AppointmentOutcomeRecord{{AppointmentID: "apt-1", PatientID: "patient-1"}})
	require.NoError(t, err)

	record, err := recorder.GetOutcome("apt-1")
	require.NoError(t, err)
	assert.Equal(t, "patient-1", record.PatientID)
}
