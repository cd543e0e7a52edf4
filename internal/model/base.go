package model

import (
	"time"
)

// AuditFields tracks who created and last modified a catalog row.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
	UpdatedBy string    `gorm:"type:varchar(100)" json:"updated_by,omitempty"`
}
