package types

import "time"

// Medication represents a medication item in the hospital inventory
type Medication struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CurrentStock  int       `json:"current_stock" db:"current_stock"`
	LowStockAlert int       `json:"low_stock_alert" db:"low_stock_alert"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the stock has fallen to the alert threshold
func (m *Medication) IsLowStock() bool {
	return m.CurrentStock <= m.LowStockAlert
}

// ReplenishmentStatus represents the lifecycle of a replenishment request
type ReplenishmentStatus string

const (
	ReplenishmentPending  ReplenishmentStatus = "pending"
	ReplenishmentApproved ReplenishmentStatus = "approved"
	ReplenishmentRejected ReplenishmentStatus = "rejected"
)

// ReplenishmentRequest is a pharmacist's request to restock a medication,
// approved or rejected by an administrator.
type ReplenishmentRequest struct {
	ID           string              `json:"id" db:"id"`
	MedicationID string              `json:"medication_id" db:"medication_id"`
	Quantity     int                 `json:"quantity" db:"quantity"`
	RequestedBy  string              `json:"requested_by" db:"requested_by"`
	Status       ReplenishmentStatus `json:"status" db:"status"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	ResolvedAt   time.Time           `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy   string              `json:"resolved_by,omitempty" db:"resolved_by"`
}
