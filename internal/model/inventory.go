package model

import "time"

// BalanceKey identifies one running balance.
type BalanceKey struct {
	ProductID uint
	ModelID   uint
	Category  Category
}

// Inventory is the derived balance for a key: Σ In − Σ Out over its transfers, never negative.
type Inventory struct {
	ProductID uint      `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	ModelID   uint      `gorm:"primaryKey;autoIncrement:false" json:"model_id"`
	Category  Category  `gorm:"primaryKey;type:varchar(10)" json:"category"`
	Quantity  int       `gorm:"not null;default:0;check:chk_inventory_quantity,quantity >= 0" json:"quantity"`
	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
	UpdatedBy string    `gorm:"type:varchar(100)" json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Inventory) TableName() string {
	return "inventory"
}
