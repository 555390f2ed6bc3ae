package model

// Role is a named privilege template applied to users at provisioning time.
// A user's own privileges stay authoritative afterwards.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MANAGER, WAREHOUSE, STAFF
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleManager   = "MANAGER"
	RoleWarehouse = "WAREHOUSE"
	RoleStaff     = "STAFF"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Every capability except user management",
	},
	{
		Code:        RoleWarehouse,
		Name:        "Warehouse Clerk",
		Description: "Materials and stock movements",
	},
	{
		Code:        RoleStaff,
		Name:        "Staff",
		Description: "Read-only access",
	},
}

// DefaultRoleCapabilities lists the capabilities seeded for each default role.
var DefaultRoleCapabilities = map[string][]Capability{
	RoleManager: {
		CapManageSupplies, CapManageSuppliers, CapManageProducts, CapManagePurchases,
		CapManageQualityControls, CapManageWarehouses, CapManageFinances, CapManageReports, CapView,
	},
	RoleWarehouse: {CapView, CapManageSupplies, CapManageWarehouses},
	RoleStaff:     {CapView},
}
