package model

import "time"

type Category string

const (
	CategoryGood  Category = "Good"
	CategoryBad   Category = "Bad"
	CategoryRetur Category = "Retur"
)

// Categories lists every stock category in display order.
var Categories = []Category{CategoryGood, CategoryBad, CategoryRetur}

func (c Category) Valid() bool {
	switch c {
	case CategoryGood, CategoryBad, CategoryRetur:
		return true
	}
	return false
}

type TransferType string

const (
	TransferIn  TransferType = "In"
	TransferOut TransferType = "Out"
)

func (t TransferType) Valid() bool {
	return t == TransferIn || t == TransferOut
}

// Transfer is an immutable ledger event. Rows are only ever inserted.
type Transfer struct {
	TransferID   uint         `gorm:"primaryKey" json:"transfer_id"`
	TransferDate time.Time    `gorm:"not null;index" json:"transfer_date"`
	ProductID    uint         `gorm:"not null;index:idx_transfer_key,priority:1" json:"product_id"`
	ModelID      uint         `gorm:"not null;index:idx_transfer_key,priority:2" json:"model_id"`
	Category     Category     `gorm:"type:varchar(10);not null;index:idx_transfer_key,priority:3" json:"category"`
	Type         TransferType `gorm:"type:varchar(5);not null" json:"type"`
	Quantity     int          `gorm:"not null" json:"quantity"`
	Remark       string       `gorm:"type:varchar(255);not null" json:"remark"`
	CreatedBy    string       `gorm:"type:varchar(100);not null" json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Model   *Model   `gorm:"foreignKey:ModelID;references:ModelID;constraint:OnDelete:RESTRICT" json:"model,omitempty"`
}

// Delta is the signed effect of the transfer on its balance.
func (t *Transfer) Delta() int {
	if t.Type == TransferOut {
		return -t.Quantity
	}
	return t.Quantity
}

func (Transfer) TableName() string {
	return "transfer"
}
