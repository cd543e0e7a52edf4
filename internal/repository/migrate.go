package repository

import (
	"go-tailor-inventory/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the application owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Tailor{},
		&model.Model{},
		&model.Product{},
		&model.ProductModel{},
		&model.Transfer{},
		&model.Inventory{},
	)
}
