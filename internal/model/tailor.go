package model

type Tailor struct {
	TailorID    uint   `gorm:"primaryKey" json:"tailor_id"`
	TailorName  string `gorm:"type:varchar(100);uniqueIndex;not null" json:"tailor_name"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Address     string `gorm:"type:text" json:"address"`
	AuditFields
}
