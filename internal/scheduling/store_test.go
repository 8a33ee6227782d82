package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

var testNow = time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)

func setupTestStore() *Store {
	return NewStoreWithClock(func() time.Time { return testNow })
}

func TestStore_Create(t *testing.T) {
	store := setupTestStore()
	slot := testSlot("doctor-1", 0)

	apt, err := store.Create("patient-1", "doctor-1", slot, types.TypeConsultation)
	require.NoError(t, err)

	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, types.StatusScheduled, apt.Status)
	assert.Equal(t, slot, apt.Slot)
	assert.Equal(t, int64(1), apt.Seq)
	assert.False(t, store.IsSlotFree(slot))
}

func TestStore_Create_ValidationErrors(t *testing.T) {
	store := setupTestStore()

	_, err := store.Create("", "doctor-1", testSlot("doctor-1", 0), types.TypeConsultation)
	assert.True(t, types.IsKind(err, types.ErrKindValidation))

	_, err = store.Create("patient-1", "doctor-1", testSlot("doctor-1", 0), "")
	assert.True(t, types.IsKind(err, types.ErrKindValidation))

	_, err = store.Create("patient-1", "doctor-1", types.AppointmentSlot{}, types.TypeConsultation)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidSlot))

	pastSlot := types.NewSlot("doctor-1", testNow.Add(-2*time.Hour))
	_, err = store.Create("patient-1", "doctor-1", pastSlot, types.TypeConsultation)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidSlot))

	otherDoctorSlot := testSlot("doctor-2", 0)
	_, err = store.Create("patient-1", "doctor-1", otherDoctorSlot, types.TypeConsultation)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidSlot))
}

func TestStore_Create_SlotExclusivity(t *testing.T) {
	store := setupTestStore()
	slot := testSlot("doctor-1", 0)

	_, err := store.Create("patient-1", "doctor-1", slot, types.TypeConsultation)
	require.NoError(t, err)

	_, err = store.Create("patient-2", "doctor-1", slot, types.TypeConsultation)
	assert.True(t, types.IsKind(err, types.ErrKindSlotConflict))
}

func TestStore_Transition_FullLifecycle(t *testing.T) {
	store := setupTestStore()
	apt, err := store.Create("patient-1", "doctor-1", testSlot("doctor-1", 0), types.TypeConsultation)
	require.NoError(t, err)

	require.NoError(t, store.Transition(apt.ID, types.StatusConfirmed))
	require.NoError(t, store.Transition(apt.ID, types.StatusCompleted))

	found, err := store.Find(apt.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, found.Status)

	// Completed is terminal
	err = store.Transition(apt.ID, types.StatusCancelled)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidTransition))
}

func TestStore_Transition_SkippingConfirmationFails(t *testing.T) {
	store := setupTestStore()
	apt, err := store.Create("patient-1", "doctor-1", testSlot("doctor-1", 0), types.TypeConsultation)
	require.NoError(t, err)

	err = store.Transition(apt.ID, types.StatusCompleted)
	assert.True(t, types.IsKind(err, types.ErrKindInvalidTransition))
}

func TestStore_Transition_NotFound(t *testing.T) {
	store := setupTestStore()

	err := store.Transition("missing", types.StatusConfirmed)
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestStore_CancelFreesSlotForRebooking(t *testing.T) {
	store := setupTestStore()
	slot := testSlot("doctor-1", 0)

	first, err := store.Create("patient-1", "doctor-1", slot, types.TypeConsultation)
	require.NoError(t, err)

	require.NoError(t, store.Transition(first.ID, types.StatusCancelled))
	assert.True(t, store.IsSlotFree(slot))

	second, err := store.Create("patient-2", "doctor-1", slot, types.TypeConsultation)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// The cancelled appointment is retained
	found, err := store.Find(first.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCancelled, found.Status)
}

func TestStore_Reschedule(t *testing.T) {
	store := setupTestStore()
	oldSlot := testSlot("doctor-1", 0)
	newSlot := testSlot("doctor-1", 1)

	apt, err := store.Create("patient-1", "doctor-1", oldSlot, types.TypeConsultation)
	require.NoError(t, err)

	require.NoError(t, store.Reschedule(apt.ID, newSlot))

	found, err := store.Find(apt.ID)
	require.NoError(t, err)
	assert.Equal(t, newSlot, found.Slot)
	assert.True(t, store.IsSlotFree(oldSlot))
	assert.False(t, store.IsSlotFree(newSlot))
}

func TestStore_Reschedule_ConflictKeepsOriginalSlot(t *testing.T) {
	store := setupTestStore()
	slotA := testSlot("doctor-1", 0)
	slotB := testSlot("doctor-1", 1)

	apt, err := store.Create("patient-1", "doctor-1", slotA, types.TypeConsultation)
	require.NoError(t, err)
	_, err = store.Create("patient-2", "doctor-1", slotB, types.TypeConsultation)
	require.NoError(t, err)

	err = store.Reschedule(apt.ID, slotB)
	assert.True(t, types.IsKind(err, types.ErrKindSlotConflict))

	// The appointment still holds its original slot
	found, err := store.Find(apt.ID)
	require.NoError(t, err)
	assert.Equal(t, slotA, found.Slot)
	assert.False(t, store.IsSlotFree(slotA))
}

func TestStore_Reschedule_SameSlot(t *testing.T) {
	store := setupTestStore()
	slot := testSlot("doctor-1", 0)

	apt, err := store.Create("patient-1", "doctor-1", slot, types.TypeConsultation)
	require.NoError(t, err)

	assert.NoError(t, store.Reschedule(apt.ID, slot))
	assert.False(t, store.IsSlotFree(slot))
}

func TestStore_Reschedule_TerminalStates(t *testing.T) {
	store := setupTestStore()
	apt, err := store.Create("patient-1", "doctor-1", testSlot("doctor-1", 0), types.TypeConsultation)
	require.NoError(t, err)
	require.NoError(t, store.Transition(apt.ID, types.StatusCancelled))

	err = store.Reschedule(apt.ID, testSlot("doctor-1", 1))
	assert.True(t, types.IsKind(err, types.ErrKindInvalidTransition))
}

func TestStore_ListOrderingAndFilters(t *testing.T) {
	store := setupTestStore()

	late, err := store.Create("patient-1", "doctor-1", testSlot("doctor-1", 3), types.TypeConsultation)
	require.NoError(t, err)
	early, err := store.Create("patient-1", "doctor-2", testSlot("doctor-2", 1), types.TypeXRay)
	require.NoError(t, err)

	byPatient := store.ListByPatient("patient-1")
	require.Len(t, byPatient, 2)
	assert.Equal(t, early.ID, byPatient[0].ID)
	assert.Equal(t, late.ID, byPatient[1].ID)

	byDoctor := store.ListByDoctor("doctor-2")
	require.Len(t, byDoctor, 1)
	assert.Equal(t, early.ID, byDoctor[0].ID)

	filtered := store.List(&types.AppointmentFilters{Type: types.TypeXRay})
	require.Len(t, filtered, 1)
	assert.Equal(t, early.ID, filtered[0].ID)

	windowed := store.List(&types.AppointmentFilters{
		FromDate: early.Slot.Start,
		ToDate:   late.Slot.Start,
	})
	require.Len(t, windowed, 1)
	assert.Equal(t, early.ID, windowed[0].ID)
}

func TestStore_Statistics(t *testing.T) {
	store := setupTestStore()

	a, _ := store.Create("patient-1", "doctor-1", testSlot("doctor-1", 0), types.TypeConsultation)
	b, _ := store.Create("patient-2", "doctor-1", testSlot("doctor-1", 1), types.TypeConsultation)
	require.NoError(t, store.Transition(a.ID, types.StatusConfirmed))
	require.NoError(t, store.Transition(b.ID, types.StatusCancelled))

	stats := store.Statistics()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 0, stats.Scheduled)
}

func TestStore_Load_RebuildsOccupancy(t *testing.T) {
	store := setupTestStore()
	a, _ := store.Create("patient-1", "doctor-1", testSlot("doctor-1", 0), types.TypeConsultation)
	b, _ := store.Create("patient-2", "doctor-1", testSlot("doctor-1", 1), types.TypeConsultation)
	require.NoError(t, store.Transition(b.ID, types.StatusCancelled))

	restored := setupTestStore()
	require.NoError(t, restored.Load(store.Snapshot()))

	assert.False(t, restored.IsSlotFree(testSlot("doctor-1", 0)))
	assert.True(t, restored.IsSlotFree(testSlot("doctor-1", 1)))

	found, err := restored.Find(a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusScheduled, found.Status)

	// New appointments continue the sequence
	c, err := restored.Create("patient-3", "doctor-1", testSlot("doctor-1", 2), types.TypeConsultation)
	require.NoError(t, err)
	assert.Greater(t, c.Seq, b.Seq)
}

func TestStore_Load_RejectsCorruptedState(t *testing.T) {
	slot := testSlot("doctor-1", 0)
	base := &types.Appointment{
		ID:        "apt-1",
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		Slot:      slot,
		Status:    types.StatusScheduled,
		Type:      types.TypeConsultation,
		Seq:       1,
	}

	dupSlot := *base
	dupSlot.ID = "apt-2"
	dupSlot.Seq = 2

	err := setupTestStore().Load([]*types.Appointment{base, &dupSlot})
	assert.True(t, types.IsKind(err, types.ErrKindInvariantViolation))

	dupID := *base
	dupID.Slot = testSlot("doctor-1", 1)

	err = setupTestStore().Load([]*types.Appointment{base, &dupID})
	assert.True(t, types.IsKind(err, types.ErrKindInvariantViolation))
}
