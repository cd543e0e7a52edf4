package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "transfer:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Transfer"
}

// Privilege codes checked by the router
const (
	PrivUserView            = "user:view"
	PrivUserUpdatePrivilege = "user:update_privilege"
	PrivTailorCreate        = "tailor:create"
	PrivTailorUpdate        = "tailor:update"
	PrivTailorDelete        = "tailor:delete"
	PrivModelCreate         = "model:create"
	PrivModelUpdate         = "model:update"
	PrivModelDelete         = "model:delete"
	PrivProductCreate       = "product:create"
	PrivProductUpdate       = "product:update"
	PrivProductDelete       = "product:delete"
	PrivTransferView        = "transfer:view"
	PrivTransferCreate      = "transfer:create"
	PrivReportView          = "report:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserUpdatePrivilege, Name: "Update User Privileges"},
	// Catalog
	{Code: PrivTailorCreate, Name: "Create Tailor"},
	{Code: PrivTailorUpdate, Name: "Update Tailor"},
	{Code: PrivTailorDelete, Name: "Delete Tailor"},
	{Code: PrivModelCreate, Name: "Create Model"},
	{Code: PrivModelUpdate, Name: "Update Model"},
	{Code: PrivModelDelete, Name: "Delete Model"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	// Ledger
	{Code: PrivTransferView, Name: "View Transfer"},
	{Code: PrivTransferCreate, Name: "Create Transfer"},
	// Reports
	{Code: PrivReportView, Name: "View Report"},
}

// IsUserManagement reports whether the privilege is reserved for MASTER_ADMIN.
func IsUserManagement(code string) bool {
	return code == PrivUserView || code == PrivUserUpdatePrivilege
}
