package model

// Capability names a class of operations a user may perform.
type Capability string

const (
	CapManageUsers           Capability = "manage_users"
	CapManageSupplies        Capability = "manage_supplies"
	CapManageSuppliers       Capability = "manage_suppliers"
	CapManageProducts        Capability = "manage_products"
	CapManagePurchases       Capability = "manage_purchases"
	CapManageQualityControls Capability = "manage_quality_controls"
	CapManageWarehouses      Capability = "manage_warehouses"
	CapManageFinances        Capability = "manage_finances"
	CapManageReports         Capability = "manage_reports"
	CapView                  Capability = "view"
)

// AllCapabilities is the closed set of capabilities known to the system.
var AllCapabilities = []Capability{
	CapManageUsers,
	CapManageSupplies,
	CapManageSuppliers,
	CapManageProducts,
	CapManagePurchases,
	CapManageQualityControls,
	CapManageWarehouses,
	CapManageFinances,
	CapManageReports,
	CapView,
}

// Privilege is a capability granted to a user. Code holds the capability name.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "manage_products"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Manage Products"
}

// Default privileges for the system, one per capability
var DefaultPrivileges = []Privilege{
	{Code: string(CapManageUsers), Name: "Manage Users"},
	{Code: string(CapManageSupplies), Name: "Manage Materials"},
	{Code: string(CapManageSuppliers), Name: "Manage Suppliers"},
	{Code: string(CapManageProducts), Name: "Manage Products"},
	{Code: string(CapManagePurchases), Name: "Manage Purchases"},
	{Code: string(CapManageQualityControls), Name: "Manage Quality Controls"},
	{Code: string(CapManageWarehouses), Name: "Manage Warehouses"},
	{Code: string(CapManageFinances), Name: "Manage Finances"},
	{Code: string(CapManageReports), Name: "View Reports"},
	{Code: string(CapView), Name: "View Records"},
}
