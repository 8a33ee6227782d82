package dispatch

import (
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// Operation identifies a role-gated operation exposed by the system
type Operation string

const (
	OpScheduleAppointment   Operation = "schedule_appointment"
	OpRescheduleAppointment Operation = "reschedule_appointment"
	OpCancelAppointment     Operation = "cancel_appointment"
	OpConfirmAppointment    Operation = "confirm_appointment"
	OpCompleteAppointment   Operation = "complete_appointment"
	OpViewAppointment       Operation = "view_appointment"
	OpListAppointments      Operation = "list_appointments"
	OpListAvailableSlots    Operation = "list_available_slots"
	OpPublishCalendar       Operation = "publish_calendar"
	OpViewStatistics        Operation = "view_statistics"

	OpRecordOutcome            Operation = "record_outcome"
	OpViewOutcome              Operation = "view_outcome"
	OpListPendingPrescriptions Operation = "list_pending_prescriptions"
	OpUpdatePrescription       Operation = "update_prescription"

	OpViewInventory        Operation = "view_inventory"
	OpAddMedication        Operation = "add_medication"
	OpRequestReplenishment Operation = "request_replenishment"
	OpResolveReplenishment Operation = "resolve_replenishment"
)

// capabilities maps each operation to the roles allowed to invoke it.
// Ownership checks (a patient acting on their own appointment, a doctor
// on their own schedule) are enforced by the services themselves; this
// table gates by role only.
var capabilities = map[Operation][]types.UserRole{
	OpScheduleAppointment:   {types.RolePatient, types.RoleAdministrator},
	OpRescheduleAppointment: {types.RolePatient, types.RoleAdministrator},
	OpCancelAppointment:     {types.RolePatient, types.RoleAdministrator},
	OpConfirmAppointment:    {types.RoleDoctor, types.RoleAdministrator},
	OpCompleteAppointment:   {types.RoleDoctor, types.RoleAdministrator},
	OpViewAppointment:       {types.RolePatient, types.RoleDoctor, types.RoleAdministrator},
	OpListAppointments:      {types.RolePatient, types.RoleDoctor, types.RoleAdministrator},
	OpListAvailableSlots:    {types.RolePatient, types.RoleDoctor, types.RoleAdministrator},
	OpPublishCalendar:       {types.RoleDoctor, types.RoleAdministrator},
	OpViewStatistics:        {types.RoleAdministrator},

	OpRecordOutcome:            {types.RoleDoctor},
	OpViewOutcome:              {types.RolePatient, types.RoleDoctor, types.RolePharmacist, types.RoleAdministrator},
	OpListPendingPrescriptions: {types.RolePharmacist, types.RoleAdministrator},
	OpUpdatePrescription:       {types.RolePharmacist},

	OpViewInventory:        {types.RolePharmacist, types.RoleAdministrator},
	OpAddMedication:        {types.RoleAdministrator},
	OpRequestReplenishment: {types.RolePharmacist},
	OpResolveReplenishment: {types.RoleAdministrator},
}

// Allowed reports whether the role may invoke the operation
func Allowed(op Operation, role types.UserRole) bool {
	for _, allowed := range capabilities[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Handler is the function an operation delegates to once the role gate passes
type Handler func(actor *types.UserClaims) error

// Dispatch runs the handler for the operation if the actor's role permits
// it, returning Unauthorized otherwise without invoking the handler.
func Dispatch(op Operation, actor *types.UserClaims, handler Handler) error {
	if actor == nil {
		return types.NewUnauthorizedError("authentication required")
	}
	if !Allowed(op, actor.Role) {
		return types.NewUnauthorizedError("operation " + string(op) + " not permitted for role " + string(actor.Role))
	}
	return handler(actor)
}

// Operations returns the operations a role may invoke, for capability
// discovery in the HTTP layer
func Operations(role types.UserRole) []Operation {
	var ops []Operation
	for op, roles := range capabilities {
		for _, allowed := range roles {
			if allowed == role {
				ops = append(ops, op)
				break
			}
		}
	}
	return ops
}
