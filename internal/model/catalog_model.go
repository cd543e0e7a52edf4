package model

// Model is a garment model (cut/style) that products are produced in.
type Model struct {
	ModelID   uint   `gorm:"primaryKey" json:"model_id"`
	ModelName string `gorm:"type:varchar(100);uniqueIndex;not null" json:"model_name"`
	AuditFields
}
