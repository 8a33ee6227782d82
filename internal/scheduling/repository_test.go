package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/database"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

func setupTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &Repository{
		db:     &database.DB{DB: sqlDB},
		logger: logger.New("error"),
	}

	return repo, mock, func() { sqlDB.Close() }
}

func TestRepository_SaveAppointment(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	apt := &types.Appointment{
		ID:        "apt-1",
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		Slot:      testSlot("doctor-1", 0),
		Status:    types.StatusScheduled,
		Type:      types.TypeConsultation,
		Seq:       1,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(apt.ID, apt.PatientID, apt.DoctorID, apt.Slot.Start,
			apt.Type, apt.Status, apt.Seq, apt.CreatedAt, apt.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveAppointment(context.Background(), apt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadAppointments(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	slot := testSlot("doctor-1", 0)
	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "doctor_id", "slot_start",
		"appointment_type", "status", "seq", "created_at", "updated_at",
	}).AddRow("apt-1", "patient-1", "doctor-1", slot.Start,
		string(types.TypeConsultation), string(types.StatusScheduled), int64(1), testNow, testNow)

	mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnRows(rows)

	appointments, err := repo.LoadAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appointments, 1)

	apt := appointments[0]
	assert.Equal(t, "apt-1", apt.ID)
	assert.Equal(t, slot, apt.Slot)
	assert.Equal(t, types.StatusScheduled, apt.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveCalendarSlots(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	starts := []time.Time{
		time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	for _, start := range starts {
		mock.ExpectExec("INSERT INTO doctor_calendars").
			WithArgs("doctor-1", start).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	err := repo.SaveCalendarSlots(context.Background(), "doctor-1", starts)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadCalendarSlots(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"doctor_id", "slot_start"}).
		AddRow("doctor-1", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)).
		AddRow("doctor-1", time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)).
		AddRow("doctor-2", time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT (.+) FROM doctor_calendars").WillReturnRows(rows)

	calendars, err := repo.LoadCalendarSlots(context.Background())
	require.NoError(t, err)

	assert.Len(t, calendars, 2)
	assert.Len(t, calendars["doctor-1"], 2)
	assert.Len(t, calendars["doctor-2"], 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
