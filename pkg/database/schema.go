package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the hospital management system
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createUsersTable,
		createAppointmentsTable,
		createDoctorCalendarsTable,
		createOutcomeRecordsTable,
		createDiagnosesTable,
		createTreatmentsTable,
		createPrescriptionsTable,
		createMedicationsTable,
		createReplenishmentRequestsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createAppointmentsIndexes,
		createPrescriptionsIndexes,
		createDoctorCalendarsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			role VARCHAR(20) NOT NULL,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			patient_id UUID NOT NULL,
			doctor_id UUID NOT NULL,
			slot_start TIMESTAMP WITH TIME ZONE NOT NULL,
			appointment_type VARCHAR(30) NOT NULL,
			status VARCHAR(20) NOT NULL,
			seq BIGSERIAL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createDoctorCalendarsTable = `
		CREATE TABLE IF NOT EXISTS doctor_calendars (
			doctor_id UUID NOT NULL,
			slot_start TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (doctor_id, slot_start)
		);`

	createOutcomeRecordsTable = `
		CREATE TABLE IF NOT EXISTS outcome_records (
			appointment_id UUID PRIMARY KEY REFERENCES appointments(id),
			patient_id UUID NOT NULL,
			doctor_id UUID NOT NULL,
			appointment_type VARCHAR(30) NOT NULL,
			appointment_date TIMESTAMP WITH TIME ZONE NOT NULL,
			consultation_notes TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createDiagnosesTable = `
		CREATE TABLE IF NOT EXISTS diagnoses (
			appointment_id UUID NOT NULL REFERENCES outcome_records(appointment_id),
			code VARCHAR(20) NOT NULL,
			description TEXT,
			PRIMARY KEY (appointment_id, code)
		);`

	createTreatmentsTable = `
		CREATE TABLE IF NOT EXISTS treatments (
			appointment_id UUID NOT NULL REFERENCES outcome_records(appointment_id),
			name VARCHAR(100) NOT NULL,
			description TEXT,
			PRIMARY KEY (appointment_id, name)
		);`

	createPrescriptionsTable = `
		CREATE TABLE IF NOT EXISTS prescriptions (
			id UUID PRIMARY KEY,
			appointment_id UUID NOT NULL REFERENCES outcome_records(appointment_id),
			medication_id UUID NOT NULL,
			quantity INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL
		);`

	createMedicationsTable = `
		CREATE TABLE IF NOT EXISTS medications (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(100) UNIQUE NOT NULL,
			current_stock INTEGER NOT NULL DEFAULT 0,
			low_stock_alert INTEGER NOT NULL DEFAULT 10,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createReplenishmentRequestsTable = `
		CREATE TABLE IF NOT EXISTS replenishment_requests (
			id UUID PRIMARY KEY,
			medication_id UUID NOT NULL REFERENCES medications(id),
			quantity INTEGER NOT NULL,
			requested_by UUID NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			resolved_at TIMESTAMP WITH TIME ZONE,
			resolved_by UUID
		);`
)

// SQL DDL statements for index creation
const (
	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor ON appointments(doctor_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
			ON appointments(doctor_id, slot_start) WHERE status != 'cancelled';`

	createPrescriptionsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_prescriptions_status ON prescriptions(status);
		CREATE INDEX IF NOT EXISTS idx_prescriptions_appointment ON prescriptions(appointment_id);`

	createDoctorCalendarsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_doctor_calendars_start ON doctor_calendars(slot_start);`
)
