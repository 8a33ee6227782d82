package outcome

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AarneshKhaitan/SC2002-OODP/internal/dispatch"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/auth"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// RegisterRoutes configures HTTP routes for outcome records and the
// prescription workflow
func (r *Recorder) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/appointments/{id}/outcome", r.recordOutcomeHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/outcome", r.getOutcomeHandler).Methods("GET")
	api.HandleFunc("/outcomes", r.listOutcomesHandler).Methods("GET")
	api.HandleFunc("/prescriptions/pending", r.pendingPrescriptionsHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}/prescriptions/{prescriptionId}", r.updatePrescriptionHandler).Methods("PUT")

	r.logger.Info("Outcome routes configured")
}

// recordOutcomeHandler creates the outcome record for a completed appointment
func (r *Recorder) recordOutcomeHandler(w http.ResponseWriter, req *http.Request) {
	aptID := mux.Vars(req)["id"]

	var request struct {
		ConsultationNotes string               `json:"consultation_notes"`
		Diagnoses         []types.Diagnosis    `json:"diagnoses"`
		Treatments        []types.Treatment    `json:"treatments"`
		Prescriptions     []types.Prescription `json:"prescriptions"`
	}
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		r.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor := auth.ClaimsFromContext(req.Context())
	var record *types.AppointmentOutcomeRecord
	err := dispatch.Dispatch(dispatch.OpRecordOutcome, actor, func(actor *types.UserClaims) error {
		apt, err := r.appointments.Find(aptID)
		if err != nil {
			return err
		}
		if apt.DoctorID != actor.UserID {
			return types.NewUnauthorizedError("only the appointment's doctor may record its outcome")
		}
		record, err = r.RecordOutcome(aptID, request.ConsultationNotes,
			request.Diagnoses, request.Treatments, request.Prescriptions)
		return err
	})
	if err != nil {
		r.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to record outcome", err)
		return
	}

	r.writeJSONResponse(w, http.StatusCreated, record)
}

// getOutcomeHandler returns the outcome record for an appointment
func (r *Recorder) getOutcomeHandler(w http.ResponseWriter, req *http.Request) {
	aptID := mux.Vars(req)["id"]

	actor := auth.ClaimsFromContext(req.Context())
	var record *types.AppointmentOutcomeRecord
	err := dispatch.Dispatch(dispatch.OpViewOutcome, actor, func(actor *types.UserClaims) error {
		var err error
		record, err = r.GetOutcome(aptID)
		if err != nil {
			return err
		}
		if actor.Role == types.RolePatient && record.PatientID != actor.UserID {
			return types.NewUnauthorizedError("patients may only view their own outcome records")
		}
		return nil
	})
	if err != nil {
		r.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to get outcome", err)
		return
	}

	r.writeJSONResponse(w, http.StatusOK, record)
}

// listOutcomesHandler lists outcome records visible to the caller. Patients
// and doctors see their own; pharmacists and administrators see all.
func (r *Recorder) listOutcomesHandler(w http.ResponseWriter, req *http.Request) {
	actor := auth.ClaimsFromContext(req.Context())
	var records []*types.AppointmentOutcomeRecord
	err := dispatch.Dispatch(dispatch.OpViewOutcome, actor, func(actor *types.UserClaims) error {
		switch actor.Role {
		case types.RolePatient:
			records = r.ListByPatient(actor.UserID)
		case types.RoleDoctor:
			records = r.ListByDoctor(actor.UserID)
		default:
			records = r.ListAll()
		}
		return nil
	})
	if err != nil {
		r.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list outcomes", err)
		return
	}

	r.writeJSONResponse(w, http.StatusOK, records)
}

// pendingPrescriptionsHandler lists prescriptions awaiting dispensing
func (r *Recorder) pendingPrescriptionsHandler(w http.ResponseWriter, req *http.Request) {
	actor := auth.ClaimsFromContext(req.Context())
	var pending []types.PendingPrescription
	err := dispatch.Dispatch(dispatch.OpListPendingPrescriptions, actor, func(actor *types.UserClaims) error {
		pending = r.PendingPrescriptions()
		return nil
	})
	if err != nil {
		r.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list pending prescriptions", err)
		return
	}

	r.writeJSONResponse(w, http.StatusOK, pending)
}

// updatePrescriptionHandler resolves a pending prescription as dispensed
// or rejected
func (r *Recorder) updatePrescriptionHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	aptID := vars["id"]
	prescriptionID := vars["prescriptionId"]

	var request struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		r.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor := auth.ClaimsFromContext(req.Context())
	err := dispatch.Dispatch(dispatch.OpUpdatePrescription, actor, func(actor *types.UserClaims) error {
		return r.UpdatePrescriptionStatus(aptID, prescriptionID, types.PrescriptionStatus(request.Status))
	})
	if err != nil {
		r.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to update prescription", err)
		return
	}

	r.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Prescription updated successfully"})
}

// writeJSONResponse writes a JSON response
func (r *Recorder) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		r.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (r *Recorder) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	r.logger.WithError(err).Warn(message)

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	r.writeJSONResponse(w, statusCode, response)
}
