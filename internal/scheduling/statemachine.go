package scheduling

import (
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

// transitionTable encodes the permitted status transitions. An appointment
// must be confirmed before completion; terminal states admit no transitions.
var transitionTable = map[types.AppointmentStatus]map[types.AppointmentStatus]bool{
	types.StatusScheduled: {
		types.StatusConfirmed: true,
		types.StatusCancelled: true,
	},
	types.StatusConfirmed: {
		types.StatusCompleted: true,
		types.StatusCancelled: true,
	},
	types.StatusCompleted: {},
	types.StatusCancelled: {},
}

// CanTransition reports whether an appointment may move from one status to
// another. Self-transitions are not permitted.
func CanTransition(from, to types.AppointmentStatus) bool {
	allowed, known := transitionTable[from]
	if !known {
		return false
	}
	return allowed[to]
}
