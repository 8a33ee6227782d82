package outcome

import (
	"context"
	"fmt"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/database"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/interfaces"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Repository implements the OutcomeRepository interface over PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new outcome repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.OutcomeRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// SaveOutcome persists an outcome record with its diagnoses, treatments and
// prescriptions in a single transaction
func (r *Repository) SaveOutcome(ctx context.Context, record *types.AppointmentOutcomeRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outcome_records (
			appointment_id, patient_id, doctor_id, appointment_type, appointment_date, consultation_notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.AppointmentID,
		record.PatientID,
		record.DoctorID,
		record.AppointmentType,
		record.AppointmentDate,
		record.ConsultationNotes,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save outcome record: %w", err)
	}

	for _, d := range record.Diagnoses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO diagnoses (appointment_id, code, description) VALUES ($1, $2, $3)`,
			record.AppointmentID, d.Code, d.Description,
		); err != nil {
			return fmt.Errorf("failed to save diagnosis: %w", err)
		}
	}

	for _, t := range record.Treatments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO treatments (appointment_id, name, description) VALUES ($1, $2, $3)`,
			record.AppointmentID, t.Name, t.Description,
		); err != nil {
			return fmt.Errorf("failed to save treatment: %w", err)
		}
	}

	for _, p := range record.Prescriptions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prescriptions (id, appointment_id, medication_id, quantity, status) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, record.AppointmentID, p.MedicationID, p.Quantity, p.Status,
		); err != nil {
			return fmt.Errorf("failed to save prescription: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outcome record: %w", err)
	}

	return nil
}

// UpdatePrescriptionStatus persists a prescription status change
func (r *Repository) UpdatePrescriptionStatus(ctx context.Context, prescriptionID string, status types.PrescriptionStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE prescriptions SET status = $1 WHERE id = $2`,
		status, prescriptionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("prescription not found: %s", prescriptionID)
	}

	return nil
}

// LoadOutcomes retrieves every persisted outcome record with its entries
func (r *Repository) LoadOutcomes(ctx context.Context) ([]*types.AppointmentOutcomeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT appointment_id, patient_id, doctor_id, appointment_type, appointment_date, consultation_notes, created_at
		FROM outcome_records
		ORDER BY appointment_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load outcome records: %w", err)
	}
	defer rows.Close()

	var records []*types.AppointmentOutcomeRecord
	byID := make(map[string]*types.AppointmentOutcomeRecord)

	for rows.Next() {
		record := &types.AppointmentOutcomeRecord{}
		err := rows.Scan(
			&record.AppointmentID,
			&record.PatientID,
			&record.DoctorID,
			&record.AppointmentType,
			&record.AppointmentDate,
			&record.ConsultationNotes,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome record: %w", err)
		}
		records = append(records, record)
		byID[record.AppointmentID] = record
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome records: %w", err)
	}

	if err := r.loadDiagnoses(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadTreatments(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadPrescriptions(ctx, byID); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) loadDiagnoses(ctx context.Context, byID map[string]*types.AppointmentOutcomeRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT appointment_id, code, description FROM diagnoses`)
	if err != nil {
		return fmt.Errorf("failed to load diagnoses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID string
		var d types.Diagnosis
		if err := rows.Scan(&appointmentID, &d.Code, &d.Description); err != nil {
			return fmt.Errorf("failed to scan diagnosis: %w", err)
		}
		if record, ok := byID[appointmentID]; ok {
			record.Diagnoses = append(record.Diagnoses, d)
		}
	}
	return rows.Err()
}

func (r *Repository) loadTreatments(ctx context.Context, byID map[string]*types.AppointmentOutcomeRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT appointment_id, name, description FROM treatments`)
	if err != nil {
		return fmt.Errorf("failed to load treatments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID string
		var t types.Treatment
		if err := rows.Scan(&appointmentID, &t.Name, &t.Description); err != nil {
			return fmt.Errorf("failed to scan treatment: %w", err)
		}
		if record, ok := byID[appointmentID]; ok {
			record.Treatments = append(record.Treatments, t)
		}
	}
	return rows.Err()
}

func (r *Repository) loadPrescriptions(ctx context.Context, byID map[string]*types.AppointmentOutcomeRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id, appointment_id, medication_id, quantity, status FROM prescriptions`)
	if err != nil {
		return fmt.Errorf("failed to load prescriptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID string
		var p types.Prescription
		if err := rows.Scan(&p.ID, &appointmentID, &p.MedicationID, &p.Quantity, &p.Status); err != nil {
			return fmt.Errorf("failed to scan prescription: %w", err)
		}
		if record, ok := byID[appointmentID]; ok {
			record.Prescriptions = append(record.Prescriptions, p)
		}
	}
	return rows.Err()
}
