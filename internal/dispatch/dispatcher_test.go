package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		role    types.UserRole
		allowed bool
	}{
		{"patient schedules", OpScheduleAppointment, types.RolePatient, true},
		{"doctor cannot schedule", OpScheduleAppointment, types.RoleDoctor, false},
		{"doctor confirms", OpConfirmAppointment, types.RoleDoctor, true},
		{"patient cannot confirm", OpConfirmAppointment, types.RolePatient, false},
		{"doctor records outcome", OpRecordOutcome, types.RoleDoctor, true},
		{"admin cannot record outcome", OpRecordOutcome, types.RoleAdministrator, false},
		{"pharmacist updates prescription", OpUpdatePrescription, types.RolePharmacist, true},
		{"pharmacist views inventory", OpViewInventory, types.RolePharmacist, true},
		{"patient cannot view inventory", OpViewInventory, types.RolePatient, false},
		{"admin resolves replenishment", OpResolveReplenishment, types.RoleAdministrator, true},
		{"pharmacist cannot resolve replenishment", OpResolveReplenishment, types.RolePharmacist, false},
		{"admin views statistics", OpViewStatistics, types.RoleAdministrator, true},
		{"unknown operation", Operation("bogus"), types.RoleAdministrator, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, Allowed(tt.op, tt.role))
		})
	}
}

func TestDispatch(t *testing.T) {
	patient := &types.UserClaims{UserID: "patient-1", Role: types.RolePatient}

	called := false
	err := Dispatch(OpScheduleAppointment, patient, func(actor *types.UserClaims) error {
		called = true
		assert.Equal(t, patient, actor)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestDispatch_RoleMismatch(t *testing.T) {
	patient := &types.UserClaims{UserID: "patient-1", Role: types.RolePatient}

	called := false
	err := Dispatch(OpRecordOutcome, patient, func(actor *types.UserClaims) error {
		called = true
		return nil
	})
	assert.True(t, types.IsKind(err, types.ErrKindUnauthorized))
	assert.False(t, called)
}

func TestDispatch_NilActor(t *testing.T) {
	err := Dispatch(OpScheduleAppointment, nil, func(actor *types.UserClaims) error {
		t.Fatal("handler should not run without an actor")
		return nil
	})
	assert.True(t, types.IsKind(err, types.ErrKindUnauthorized))
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	admin := &types.UserClaims{UserID: "admin-1", Role: types.RoleAdministrator}
	want := errors.New("boom")

	err := Dispatch(OpViewStatistics, admin, func(actor *types.UserClaims) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestOperations(t *testing.T) {
	ops := Operations(types.RolePharmacist)

	assert.Contains(t, ops, OpUpdatePrescription)
	assert.Contains(t, ops, OpViewInventory)
	assert.NotContains(t, ops, OpScheduleAppointment)
	assert.NotContains(t, ops, OpResolveReplenishment)
}
