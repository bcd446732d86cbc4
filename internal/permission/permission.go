// Package permission maps roles to their capability set. Pure lookup, no
// I/O; unrecognized roles resolve to the least-privileged table so callers
// in a not-yet-authenticated state never escalate.
package permission

import "github.com/sahanw/restopos/internal/model"

type Capabilities struct {
	// Admin panel access
	AccessAdminPanel bool
	AccessDashboard  bool
	AccessReports    bool
	AccessSettings   bool

	// Order management
	ViewOrders         bool
	UpdateOrderStatus  bool
	DeleteOrders       bool
	AccessOrderHistory bool

	// Menu management
	ViewMenu        bool
	AddMenuItems    bool
	EditMenuItems   bool
	DeleteMenuItems bool

	// User management
	AccessUserManagement bool

	// Settings
	EditSystemSettings     bool
	EditReceiptSettings    bool
	EditRestaurantSettings bool

	// Financial data
	ViewFinancialReports bool
	ExportReports        bool

	// Staff operations
	ProcessPayments  bool
	PrintReceipts    bool
	VoidTransactions bool
	ApplyDiscounts   bool
}

var rolePermissions = map[model.Role]Capabilities{
	model.RoleAdmin: {
		AccessAdminPanel:       true,
		AccessDashboard:        true,
		AccessReports:          true,
		AccessSettings:         true,
		ViewOrders:             true,
		UpdateOrderStatus:      true,
		DeleteOrders:           true,
		AccessOrderHistory:     true,
		ViewMenu:               true,
		AddMenuItems:           true,
		EditMenuItems:          true,
		DeleteMenuItems:        true,
		AccessUserManagement:   true,
		EditSystemSettings:     true,
		EditReceiptSettings:    true,
		EditRestaurantSettings: true,
		ViewFinancialReports:   true,
		ExportReports:          true,
		ProcessPayments:        true,
		PrintReceipts:          true,
		VoidTransactions:       true,
		ApplyDiscounts:         true,
	},
	model.RoleManager: {
		AccessAdminPanel:       true,
		AccessDashboard:        true,
		AccessReports:          true,
		ViewOrders:             true,
		UpdateOrderStatus:      true,
		AccessOrderHistory:     true,
		ViewMenu:               true,
		AddMenuItems:           true,
		EditMenuItems:          true,
		EditReceiptSettings:    true,
		EditRestaurantSettings: true,
		ViewFinancialReports:   true,
		ExportReports:          true,
		ProcessPayments:        true,
		PrintReceipts:          true,
		VoidTransactions:       true,
		ApplyDiscounts:         true,
	},
	model.RoleStaff: {
		ViewMenu:        true,
		ProcessPayments: true,
		PrintReceipts:   true,
	},
}

// Resolve returns the capability set for role, defaulting to staff.
func Resolve(role model.Role) Capabilities {
	if caps, ok := rolePermissions[role]; ok {
		return caps
	}
	return rolePermissions[model.RoleStaff]
}

// Unlimited marks a role with no refund ceiling.
const Unlimited float64 = -1

// RefundCeiling returns the largest refund amount a role may authorize
// without escalation, in base currency units.
func RefundCeiling(role model.Role) float64 {
	switch role {
	case model.RoleAdmin:
		return Unlimited
	case model.RoleManager:
		return 100
	default:
		return 20
	}
}

// CanRefund reports whether role may authorize a refund of amount.
func CanRefund(role model.Role, amount float64) bool {
	ceiling := RefundCeiling(role)
	return ceiling == Unlimited || amount <= ceiling
}
