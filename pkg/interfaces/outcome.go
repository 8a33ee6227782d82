package interfaces

import (
	"context"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// OutcomeRepository defines the interface for outcome record persistence
type OutcomeRepository interface {
	SaveOutcome(ctx context.Context, record *types.AppointmentOutcomeRecord) error
	UpdatePrescriptionStatus(ctx context.Context, prescriptionID string, status types.PrescriptionStatus) error
	LoadOutcomes(ctx context.Context) ([]*types.AppointmentOutcomeRecord, error)
}

// Inventory is the medication stock capability consumed by the outcome
// recorder and the pharmacist workflow
type Inventory interface {
	MedicationExists(medicationID string) (bool, error)
	Dispense(medicationID string, quantity int) error
}
