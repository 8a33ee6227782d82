package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Repository defines the persistence capability the inventory service uses
type Repository interface {
	SaveMedication(ctx context.Context, med *types.Medication) error
	SaveReplenishmentRequest(ctx context.Context, req *types.ReplenishmentRequest) error
	LoadMedications(ctx context.Context) ([]*types.Medication, error)
	LoadReplenishmentRequests(ctx context.Context) ([]*types.ReplenishmentRequest, error)
}

// Service manages the medication catalog, stock levels and the replenishment
// workflow. It is the Inventory collaborator of the outcome recorder.
type Service struct {
	mu          sync.RWMutex
	logger      *logger.Logger
	repository  Repository
	medications map[string]*types.Medication
	requests    map[string]*types.ReplenishmentRequest
	now         func() time.Time
}

// NewService creates a new inventory service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		logger:      log,
		repository:  repo,
		medications: make(map[string]*types.Medication),
		requests:    make(map[string]*types.ReplenishmentRequest),
		now:         time.Now,
	}
}

// MedicationExists reports whether the medication id is in the catalog
func (s *Service) MedicationExists(medicationID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.medications[medicationID]
	return ok, nil
}

// GetMedication returns a medication by id
func (s *Service) GetMedication(medicationID string) (*types.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	med, ok := s.medications[medicationID]
	if !ok {
		return nil, types.NewNotFoundError("medication not found: " + medicationID)
	}
	return copyMedication(med), nil
}

// ListMedications returns the full catalog ordered by name
func (s *Service) ListMedications() []*types.Medication {
	return s.listMedications(func(*types.Medication) bool { return true })
}

// ListLowStock returns medications at or below their alert threshold
func (s *Service) ListLowStock() []*types.Medication {
	return s.listMedications(func(m *types.Medication) bool { return m.IsLowStock() })
}

// AddMedication adds a medication to the catalog
func (s *Service) AddMedication(name string, currentStock, lowStockAlert int) (*types.Medication, error) {
	if name == "" {
		return nil, types.NewValidationError("medication name is required", nil)
	}
	if currentStock < 0 || lowStockAlert < 0 {
		return nil, types.NewValidationError("stock levels cannot be negative", nil)
	}

	s.mu.Lock()
	med := &types.Medication{
		ID:            uuid.New().String(),
		Name:          name,
		CurrentStock:  currentStock,
		LowStockAlert: lowStockAlert,
		UpdatedAt:     s.now(),
	}
	s.medications[med.ID] = med
	result := copyMedication(med)
	s.mu.Unlock()

	s.persistMedication(result)
	s.logger.Infof("Added medication %s (%s)", med.Name, med.ID)
	return result, nil
}

// Dispense decrements a medication's stock for a dispensed prescription
func (s *Service) Dispense(medicationID string, quantity int) error {
	if quantity <= 0 {
		return types.NewValidationError("dispense quantity must be positive", nil)
	}

	s.mu.Lock()
	med, ok := s.medications[medicationID]
	if !ok {
		s.mu.Unlock()
		return types.NewNotFoundError("medication not found: " + medicationID)
	}
	if med.CurrentStock < quantity {
		s.mu.Unlock()
		return types.NewValidationError("insufficient stock", map[string]interface{}{
			"medication_id": medicationID,
			"current_stock": med.CurrentStock,
			"requested":     quantity,
		})
	}

	med.CurrentStock -= quantity
	med.UpdatedAt = s.now()
	result := copyMedication(med)
	lowStock := med.IsLowStock()
	s.mu.Unlock()

	s.persistMedication(result)
	if lowStock {
		s.logger.Warnf("Medication %s is at or below its low stock alert (%d remaining)", result.Name, result.CurrentStock)
	}
	return nil
}

// SubmitReplenishmentRequest records a pharmacist's restock request
func (s *Service) SubmitReplenishmentRequest(requestedBy, medicationID string, quantity int) (*types.ReplenishmentRequest, error) {
	if quantity <= 0 {
		return nil, types.NewValidationError("replenishment quantity must be positive", nil)
	}

	s.mu.Lock()
	if _, ok := s.medications[medicationID]; !ok {
		s.mu.Unlock()
		return nil, types.NewNotFoundError("medication not found: " + medicationID)
	}

	req := &types.ReplenishmentRequest{
		ID:           uuid.New().String(),
		MedicationID: medicationID,
		Quantity:     quantity,
		RequestedBy:  requestedBy,
		Status:       types.ReplenishmentPending,
		CreatedAt:    s.now(),
	}
	s.requests[req.ID] = req
	result := copyRequest(req)
	s.mu.Unlock()

	s.persistRequest(result)
	s.logger.Infof("Replenishment request %s submitted for medication %s", req.ID, medicationID)
	return result, nil
}

// ResolveReplenishmentRequest approves or rejects a pending request.
// Approval increases the medication's stock.
func (s *Service) ResolveReplenishmentRequest(resolvedBy, requestID string, approve bool) error {
	s.mu.Lock()
	req, ok := s.requests[requestID]
	if !ok {
		s.mu.Unlock()
		return types.NewNotFoundError("replenishment request not found: " + requestID)
	}
	if req.Status != types.ReplenishmentPending {
		s.mu.Unlock()
		return types.NewInvalidTransitionError("replenishment request is already resolved", map[string]interface{}{
			"request_id": requestID,
			"status":     req.Status,
		})
	}

	var med *types.Medication
	if approve {
		med, ok = s.medications[req.MedicationID]
		if !ok {
			s.mu.Unlock()
			return types.NewNotFoundError("medication not found: " + req.MedicationID)
		}
		med.CurrentStock += req.Quantity
		med.UpdatedAt = s.now()
		req.Status = types.ReplenishmentApproved
	} else {
		req.Status = types.ReplenishmentRejected
	}
	req.ResolvedAt = s.now()
	req.ResolvedBy = resolvedBy

	reqCopy := copyRequest(req)
	var medCopy *types.Medication
	if med != nil {
		medCopy = copyMedication(med)
	}
	s.mu.Unlock()

	s.persistRequest(reqCopy)
	if medCopy != nil {
		s.persistMedication(medCopy)
	}
	s.logger.Infof("Replenishment request %s resolved as %s", requestID, reqCopy.Status)
	return nil
}

// ListReplenishmentRequests returns requests in the given status, or all
// requests when status is empty, ordered by creation time
func (s *Service) ListReplenishmentRequests(status types.ReplenishmentStatus) []*types.ReplenishmentRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*types.ReplenishmentRequest
	for _, req := range s.requests {
		if status == "" || req.Status == status {
			result = append(result, copyRequest(req))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// LoadFromRepository loads the catalog and requests at process start
func (s *Service) LoadFromRepository(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}

	medications, err := s.repository.LoadMedications(ctx)
	if err != nil {
		return types.NewInternalError("failed to load medications", err)
	}
	requests, err := s.repository.LoadReplenishmentRequests(ctx)
	if err != nil {
		return types.NewInternalError("failed to load replenishment requests", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.medications = make(map[string]*types.Medication, len(medications))
	for _, med := range medications {
		s.medications[med.ID] = copyMedication(med)
	}
	s.requests = make(map[string]*types.ReplenishmentRequest, len(requests))
	for _, req := range requests {
		s.requests[req.ID] = copyRequest(req)
	}

	s.logger.Infof("Loaded %d medications and %d replenishment requests", len(medications), len(requests))
	return nil
}

func (s *Service) listMedications(match func(*types.Medication) bool) []*types.Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*types.Medication
	for _, med := range s.medications {
		if match(med) {
			result = append(result, copyMedication(med))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (s *Service) persistMedication(med *types.Medication) {
	if s.repository == nil {
		return
	}
	if err := s.repository.SaveMedication(context.Background(), med); err != nil {
		s.logger.WithError(err).Errorf("Failed to persist medication %s", med.ID)
	}
}

func (s *Service) persistRequest(req *types.ReplenishmentRequest) {
	if s.repository == nil {
		return
	}
	if err := s.repository.SaveReplenishmentRequest(context.Background(), req); err != nil {
		s.logger.WithError(err).Errorf("Failed to persist replenishment request %s", req.ID)
	}
}

func copyMedication(med *types.Medication) *types.Medication {
	cp := *med
	return &cp
}

func copyRequest(req *types.ReplenishmentRequest) *types.ReplenishmentRequest {
	cp := *req
	return &cp
}
