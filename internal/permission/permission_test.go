package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sahanw/restopos/internal/model"
)

func TestResolve_RoleTables(t *testing.T) {
	admin := Resolve(model.RoleAdmin)
	assert.True(t, admin.AccessAdminPanel)
	assert.True(t, admin.DeleteOrders)
	assert.True(t, admin.AccessUserManagement)

	manager := Resolve(model.RoleManager)
	assert.True(t, manager.AccessAdminPanel)
	assert.True(t, manager.AddMenuItems)
	assert.False(t, manager.DeleteOrders)
	assert.False(t, manager.DeleteMenuItems)
	assert.False(t, manager.AccessUserManagement)
	assert.False(t, manager.EditSystemSettings)

	staff := Resolve(model.RoleStaff)
	assert.False(t, staff.AccessAdminPanel)
	assert.False(t, staff.ViewOrders)
	assert.True(t, staff.ViewMenu)
	assert.True(t, staff.ProcessPayments)
	assert.False(t, staff.VoidTransactions)
}

func TestResolve_UnknownRoleDefaultsToStaff(t *testing.T) {
	got := Resolve(model.Role("intern"))
	assert.Equal(t, Resolve(model.RoleStaff), got)

	got = Resolve(model.Role(""))
	assert.False(t, got.AccessAdminPanel)
	assert.True(t, got.ViewMenu)
}

func TestRefundCeiling(t *testing.T) {
	tests := []struct {
		role    model.Role
		amount  float64
		allowed bool
	}{
		{model.RoleAdmin, 1_000_000, true},
		{model.RoleManager, 100, true},
		{model.RoleManager, 100.01, false},
		{model.RoleStaff, 20, true},
		{model.RoleStaff, 20.01, false},
		{model.Role("unknown"), 21, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanRefund(tt.role, tt.amount),
			"role=%s amount=%v", tt.role, tt.amount)
	}
}
