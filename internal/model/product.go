package model

import "github.com/shopspring/decimal"

type Product struct {
	ProductID    uint            `gorm:"primaryKey" json:"product_id"`
	ProductCode  string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_code"`
	ProductName  string          `gorm:"type:varchar(100);not null" json:"product_name"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"selling_price"`
	TailorID     uint            `gorm:"not null;index" json:"tailor_id"`
	QRCode       string          `gorm:"column:qr_code;type:varchar(100)" json:"qr_code"`
	AuditFields

	// Relasi
	Tailor *Tailor        `gorm:"foreignKey:TailorID;references:TailorID;constraint:OnDelete:RESTRICT" json:"tailor,omitempty"`
	Models []ProductModel `gorm:"foreignKey:ProductID;references:ProductID" json:"models,omitempty"`
}

// ProductModel links a product to one of its models and carries the image for that combination.
type ProductModel struct {
	ProductID uint   `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	ModelID   uint   `gorm:"primaryKey;autoIncrement:false;index" json:"model_id"`
	Image     string `gorm:"type:varchar(100)" json:"image"`
	AuditFields

	Product *Product `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Model   *Model   `gorm:"foreignKey:ModelID;references:ModelID;constraint:OnDelete:RESTRICT" json:"model,omitempty"`
}
