package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AarneshKhaitan/SC2002-OODP/internal/dispatch"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/auth"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// RegisterRoutes configures HTTP routes for the medication inventory
func (s *Service) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/medications", s.listMedicationsHandler).Methods("GET")
	api.HandleFunc("/medications", s.addMedicationHandler).Methods("POST")
	api.HandleFunc("/medications/low-stock", s.lowStockHandler).Methods("GET")
	api.HandleFunc("/medications/{id}", s.getMedicationHandler).Methods("GET")

	api.HandleFunc("/replenishment-requests", s.listReplenishmentHandler).Methods("GET")
	api.HandleFunc("/replenishment-requests", s.submitReplenishmentHandler).Methods("POST")
	api.HandleFunc("/replenishment-requests/{id}", s.resolveReplenishmentHandler).Methods("PUT")

	s.logger.Info("Inventory routes configured")
}

// listMedicationsHandler returns the medication catalog
func (s *Service) listMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	actor := auth.ClaimsFromContext(r.Context())
	var medications []*types.Medication
	err := dispatch.Dispatch(dispatch.OpViewInventory, actor, func(actor *types.UserClaims) error {
		medications = s.ListMedications()
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list medications", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, medications)
}

// getMedicationHandler returns a single medication
func (s *Service) getMedicationHandler(w http.ResponseWriter, r *http.Request) {
	medID := mux.Vars(r)["id"]

	actor := auth.ClaimsFromContext(r.Context())
	var med *types.Medication
	err := dispatch.Dispatch(dispatch.OpViewInventory, actor, func(actor *types.UserClaims) error {
		var err error
		med, err = s.GetMedication(medID)
		return err
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Medication not found", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, med)
}

// lowStockHandler returns medications at or below their alert threshold
func (s *Service) lowStockHandler(w http.ResponseWriter, r *http.Request) {
	actor := auth.ClaimsFromContext(r.Context())
	var medications []*types.Medication
	err := dispatch.Dispatch(dispatch.OpViewInventory, actor, func(actor *types.UserClaims) error {
		medications = s.ListLowStock()
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list low stock medications", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, medications)
}

// addMedicationHandler adds a medication to the catalog
func (s *Service) addMedicationHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name          string `json:"name"`
		CurrentStock  int    `json:"current_stock"`
		LowStockAlert int    `json:"low_stock_alert"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor := auth.ClaimsFromContext(r.Context())
	var med *types.Medication
	err := dispatch.Dispatch(dispatch.OpAddMedication, actor, func(actor *types.UserClaims) error {
		var err error
		med, err = s.AddMedication(request.Name, request.CurrentStock, request.LowStockAlert)
		return err
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to add medication", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, med)
}

// submitReplenishmentHandler records a pharmacist's restock request
func (s *Service) submitReplenishmentHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MedicationID string `json:"medication_id"`
		Quantity     int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor := auth.ClaimsFromContext(r.Context())
	var req *types.ReplenishmentRequest
	err := dispatch.Dispatch(dispatch.OpRequestReplenishment, actor, func(actor *types.UserClaims) error {
		var err error
		req, err = s.SubmitReplenishmentRequest(actor.UserID, request.MedicationID, request.Quantity)
		return err
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to submit replenishment request", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, req)
}

// resolveReplenishmentHandler approves or rejects a pending request
func (s *Service) resolveReplenishmentHandler(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	var request struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor := auth.ClaimsFromContext(r.Context())
	err := dispatch.Dispatch(dispatch.OpResolveReplenishment, actor, func(actor *types.UserClaims) error {
		return s.ResolveReplenishmentRequest(actor.UserID, requestID, request.Approve)
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to resolve replenishment request", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Replenishment request resolved successfully"})
}

// listReplenishmentHandler lists replenishment requests, optionally
// filtered by status
func (s *Service) listReplenishmentHandler(w http.ResponseWriter, r *http.Request) {
	status := types.ReplenishmentStatus(r.URL.Query().Get("status"))

	actor := auth.ClaimsFromContext(r.Context())
	var requests []*types.ReplenishmentRequest
	err := dispatch.Dispatch(dispatch.OpViewInventory, actor, func(actor *types.UserClaims) error {
		requests = s.ListReplenishmentRequests(status)
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list replenishment requests", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, requests)
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	s.logger.WithError(err).Warn(message)

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	s.writeJSONResponse(w, statusCode, response)
}
