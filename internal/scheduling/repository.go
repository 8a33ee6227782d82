package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/database"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/interfaces"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Repository implements the AppointmentRepository interface over PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new scheduling repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.AppointmentRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// SaveAppointment inserts or updates a persisted appointment
func (r *Repository) SaveAppointment(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, slot_start, appointment_type, status, seq, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			slot_start = EXCLUDED.slot_start,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.Slot.Start,
		apt.Type,
		apt.Status,
		apt.Seq,
		apt.CreatedAt,
		apt.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Errorf("Failed to save appointment %s", apt.ID)
		return fmt.Errorf("failed to save appointment: %w", err)
	}

	return nil
}

// LoadAppointments retrieves every persisted appointment
func (r *Repository) LoadAppointments(ctx context.Context) ([]*types.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, slot_start, appointment_type, status, seq, created_at, updated_at
		FROM appointments
		ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithError(err).Error("Failed to load appointments")
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt := &types.Appointment{}
		err := rows.Scan(
			&apt.ID,
			&apt.PatientID,
			&apt.DoctorID,
			&apt.Slot.Start,
			&apt.Type,
			&apt.Status,
			&apt.Seq,
			&apt.CreatedAt,
			&apt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		apt.Slot = types.NewSlot(apt.DoctorID, apt.Slot.Start)
		appointments = append(appointments, apt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

// SaveCalendarSlots records a doctor's published working slots
func (r *Repository) SaveCalendarSlots(ctx context.Context, doctorID string, starts []time.Time) error {
	for _, start := range starts {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO doctor_calendars (doctor_id, slot_start)
			VALUES ($1, $2)
			ON CONFLICT (doctor_id, slot_start) DO NOTHING`,
			doctorID, start)
		if err != nil {
			r.logger.WithError(err).Errorf("Failed to save calendar slot for doctor %s", doctorID)
			return fmt.Errorf("failed to save calendar slot: %w", err)
		}
	}
	return nil
}

// LoadCalendarSlots retrieves every doctor's published working slots
func (r *Repository) LoadCalendarSlots(ctx context.Context) (map[string][]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT doctor_id, slot_start
		FROM doctor_calendars
		ORDER BY doctor_id, slot_start`)
	if err != nil {
		r.logger.WithError(err).Error("Failed to load doctor calendars")
		return nil, fmt.Errorf("failed to load doctor calendars: %w", err)
	}
	defer rows.Close()

	calendars := make(map[string][]time.Time)
	for rows.Next() {
		var doctorID string
		var start time.Time
		if err := rows.Scan(&doctorID, &start); err != nil {
			return nil, fmt.Errorf("failed to scan calendar slot: %w", err)
		}
		calendars[doctorID] = append(calendars[doctorID], start)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor calendars: %w", err)
	}

	return calendars, nil
}
