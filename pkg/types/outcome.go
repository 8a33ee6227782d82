package types

import "time"

// PrescriptionStatus represents the lifecycle of a prescription
type PrescriptionStatus string

const (
	PrescriptionPending   PrescriptionStatus = "pending"
	PrescriptionDispensed PrescriptionStatus = "dispensed"
	PrescriptionRejected  PrescriptionStatus = "rejected"
)

// Prescription is a medication order issued as part of an outcome record.
// Its status is updated later by pharmacist action, not by the scheduling core.
type Prescription struct {
	ID           string             `json:"id" db:"id"`
	MedicationID string             `json:"medication_id" db:"medication_id"`
	Quantity     int                `json:"quantity" db:"quantity"`
	Status       PrescriptionStatus `json:"status" db:"status"`
}

// Diagnosis is a single diagnosis entry on an outcome record
type Diagnosis struct {
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`
}

// Treatment is a single treatment entry on an outcome record
type Treatment struct {
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// AppointmentOutcomeRecord is the clinical summary attached to a completed
// appointment. Created exactly once per appointment.
type AppointmentOutcomeRecord struct {
	AppointmentID     string         `json:"appointment_id" db:"appointment_id"`
	PatientID         string         `json:"patient_id" db:"patient_id"`
	DoctorID          string         `json:"doctor_id" db:"doctor_id"`
	AppointmentType   AppointmentType `json:"appointment_type" db:"appointment_type"`
	AppointmentDate   time.Time      `json:"appointment_date" db:"appointment_date"`
	ConsultationNotes string         `json:"consultation_notes" db:"consultation_notes"`
	Diagnoses         []Diagnosis    `json:"diagnoses"`
	Treatments        []Treatment    `json:"treatments"`
	Prescriptions     []Prescription `json:"prescriptions"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}

// PendingPrescription pairs a pending prescription with its owning record,
// for the pharmacist work queue.
type PendingPrescription struct {
	AppointmentID string       `json:"appointment_id"`
	PatientID     string       `json:"patient_id"`
	Prescription  Prescription `json:"prescription"`
}
