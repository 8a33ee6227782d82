package scheduling

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AarneshKhaitan/SC2002-OODP/internal/dispatch"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/auth"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// RegisterRoutes configures HTTP routes for the scheduling service
func (s *Service) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/appointments", s.scheduleAppointmentHandler).Methods("POST")
	api.HandleFunc("/appointments", s.listAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}", s.getAppointmentHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}", s.cancelAppointmentHandler).Methods("DELETE")
	api.HandleFunc("/appointments/{id}/reschedule", s.rescheduleAppointmentHandler).Methods("PUT")
	api.HandleFunc("/appointments/{id}/confirm", s.confirmAppointmentHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/complete", s.completeAppointmentHandler).Methods("POST")

	api.HandleFunc("/patients/{patientId}/appointments", s.getPatientAppointmentsHandler).Methods("GET")
	api.HandleFunc("/doctors/{doctorId}/appointments", s.getDoctorAppointmentsHandler).Methods("GET")
	api.HandleFunc("/doctors/{doctorId}/available-slots", s.getAvailableSlotsHandler).Methods("GET")
	api.HandleFunc("/doctors/{doctorId}/calendar", s.publishCalendarHandler).Methods("POST")

	api.HandleFunc("/statistics/appointments", s.getStatisticsHandler).Methods("GET")

	s.logger.Info("Scheduling routes configured")
}

// scheduleAppointmentHandler handles appointment booking
func (s *Service) scheduleAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PatientID string `json:"patient_id"`
		DoctorID  string `json:"doctor_id"`
		SlotStart string `json:"slot_start"`
		Type      string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := time.Parse(time.RFC3339, request.SlotStart)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid slot_start, expected RFC3339 timestamp", err)
		return
	}

	actor := auth.ClaimsFromContext(r.Context())
	var apt *types.Appointment
	err = dispatch.Dispatch(dispatch.OpScheduleAppointment, actor, func(actor *types.UserClaims) error {
		var err error
		apt, err = s.ScheduleAppointment(actor, request.PatientID, request.DoctorID,
			types.NewSlot(request.DoctorID, start), types.AppointmentType(request.Type))
		return err
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to schedule appointment", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, apt)
}

// rescheduleAppointmentHandler moves an appointment to a new slot
func (s *Service) rescheduleAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	var request struct {
		SlotStart string `json:"slot_start"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := time.Parse(time.RFC3339, request.SlotStart)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid slot_start, expected RFC3339 timestamp", err)
		return
	}

	apt, err := s.GetAppointment(aptID)
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Appointment not found", err)
		return
	}

	actor := auth.ClaimsFromContext(r.Context())
	err = dispatch.Dispatch(dispatch.OpRescheduleAppointment, actor, func(actor *types.UserClaims) error {
		return s.RescheduleAppointment(actor, aptID, types.NewSlot(apt.DoctorID, start))
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to reschedule appointment", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment rescheduled successfully"})
}

// cancelAppointmentHandler handles appointment cancellation
func (s *Service) cancelAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	actor := auth.ClaimsFromContext(r.Context())
	err := dispatch.Dispatch(dispatch.OpCancelAppointment, actor, func(actor *types.UserClaims) error {
		return s.CancelAppointment(actor, aptID)
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to cancel appointment", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment cancelled successfully"})
}

// confirmAppointmentHandler marks a scheduled appointment as confirmed
func (s *Service) confirmAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	actor := auth.ClaimsFromContext(r.Context())
	err := dispatch.Dispatch(dispatch.OpConfirmAppointment, actor, func(actor *types.UserClaims) error {
		return s.ConfirmAppointment(actor, aptID)
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to confirm appointment", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment confirmed successfully"})
}

// completeAppointmentHandler marks a confirmed appointment as completed
func (s *Service) completeAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	actor := auth.ClaimsFromContext(r.Context())
	err := dispatch.Dispatch(dispatch.OpCompleteAppointment, actor, func(actor *types.UserClaims) error {
		return s.CompleteAppointment(actor, aptID)
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to complete appointment", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment completed successfully"})
}

// getAppointmentHandler handles appointment retrieval
func (s *Service) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	actor := auth.ClaimsFromContext(r.Context())
	var apt *types.Appointment
	err := dispatch.Dispatch(dispatch.OpViewAppointment, actor, func(actor *types.UserClaims) error {
		var err error
		apt, err = s.GetAppointment(aptID)
		return err
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Appointment not found", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, apt)
}

// listAppointmentsHandler handles appointment listing with filters
func (s *Service) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	filters := parseAppointmentFilters(r)

	actor := auth.ClaimsFromContext(r.Context())
	var appointments []*types.Appointment
	err := dispatch.Dispatch(dispatch.OpListAppointments, actor, func(actor *types.UserClaims) error {
		appointments = s.ListAppointments(filters)
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list appointments", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getPatientAppointmentsHandler lists a patient's appointments
func (s *Service) getPatientAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientId"]

	actor := auth.ClaimsFromContext(r.Context())
	var appointments []*types.Appointment
	err := dispatch.Dispatch(dispatch.OpListAppointments, actor, func(actor *types.UserClaims) error {
		appointments = s.ListPatientAppointments(patientID)
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list patient appointments", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getDoctorAppointmentsHandler lists a doctor's appointments
func (s *Service) getDoctorAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	actor := auth.ClaimsFromContext(r.Context())
	var appointments []*types.Appointment
	err := dispatch.Dispatch(dispatch.OpListAppointments, actor, func(actor *types.UserClaims) error {
		appointments = s.ListDoctorAppointments(doctorID)
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list doctor appointments", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getAvailableSlotsHandler lists a doctor's free working slots in a range
func (s *Service) getAvailableSlotsHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	dateRange, err := parseDateRange(r)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	actor := auth.ClaimsFromContext(r.Context())
	var slots []types.AppointmentSlot
	err = dispatch.Dispatch(dispatch.OpListAvailableSlots, actor, func(actor *types.UserClaims) error {
		var err error
		slots, err = s.ListAvailableSlots(doctorID, dateRange)
		return err
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to list available slots", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, slots)
}

// publishCalendarHandler records a doctor's working slots
func (s *Service) publishCalendarHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	var request struct {
		SlotStarts []string `json:"slot_starts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	starts := make([]time.Time, 0, len(request.SlotStarts))
	for _, raw := range request.SlotStarts {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, "Invalid slot start, expected RFC3339 timestamp", err)
			return
		}
		starts = append(starts, start)
	}

	actor := auth.ClaimsFromContext(r.Context())
	err := dispatch.Dispatch(dispatch.OpPublishCalendar, actor, func(actor *types.UserClaims) error {
		return s.PublishCalendar(actor, doctorID, starts)
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to publish calendar", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Calendar published successfully"})
}

// getStatisticsHandler returns appointment counts by status
func (s *Service) getStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	actor := auth.ClaimsFromContext(r.Context())
	var stats types.AppointmentStatistics
	err := dispatch.Dispatch(dispatch.OpViewStatistics, actor, func(actor *types.UserClaims) error {
		stats = s.Statistics()
		return nil
	})
	if err != nil {
		s.writeErrorResponse(w, types.HTTPStatusForError(err), "Failed to get statistics", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, stats)
}

// Helper methods

// parseAppointmentFilters parses query parameters into appointment filters
func parseAppointmentFilters(r *http.Request) *types.AppointmentFilters {
	filters := &types.AppointmentFilters{}

	if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
		filters.PatientID = patientID
	}
	if doctorID := r.URL.Query().Get("doctor_id"); doctorID != "" {
		filters.DoctorID = doctorID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filters.Status = types.AppointmentStatus(status)
	}
	if aptType := r.URL.Query().Get("type"); aptType != "" {
		filters.Type = types.AppointmentType(aptType)
	}
	if fromDate := r.URL.Query().Get("from_date"); fromDate != "" {
		if parsed, err := time.Parse("2006-01-02", fromDate); err == nil {
			filters.FromDate = parsed
		}
	}
	if toDate := r.URL.Query().Get("to_date"); toDate != "" {
		if parsed, err := time.Parse("2006-01-02", toDate); err == nil {
			filters.ToDate = parsed
		}
	}

	return filters
}

// parseDateRange parses from/to query parameters, defaulting to the next
// seven days
func parseDateRange(r *http.Request) (types.DateRange, error) {
	now := time.Now().UTC()
	dateRange := types.DateRange{
		From: now,
		To:   now.AddDate(0, 0, 7),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return types.DateRange{}, err
		}
		dateRange.From = parsed
	}
	if to := r.URL.Query().Get("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return types.DateRange{}, err
		}
		dateRange.To = parsed
	}

	return dateRange, nil
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
