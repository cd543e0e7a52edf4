package repository

import (
	"context"

	"go-tailor-inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productCodeLockKey is the advisory lock key serialising product code allocation.
const productCodeLockKey int64 = 0x50524f44 // "PROD"

type ProductFilter struct {
	Code string
	Name string
	Page
}

type ProductRepository interface {
	Search(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	CountTransfers(ctx context.Context, id uint) (int64, error)
	// WithinTx runs fn in one transaction; fn's error rolls everything back.
	WithinTx(ctx context.Context, fn func(store ProductStore) error) error
}

// ProductStore is the transaction-bound view used to create and edit products.
type ProductStore interface {
	// LockCodeSequence blocks until no other transaction is allocating a product code.
	LockCodeSequence(ctx context.Context) error
	LastProductCode(ctx context.Context) (string, error)
	Create(ctx context.Context, product *model.Product) error
	FindForUpdate(ctx context.Context, id uint) (*model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	// ListModels row-locks the product's associations, so no posting runs against one being removed.
	ListModels(ctx context.Context, productID uint) ([]model.ProductModel, error)
	UpsertModel(ctx context.Context, pm *model.ProductModel) error
	DeleteModel(ctx context.Context, productID, modelID uint) error
	CountModelTransfers(ctx context.Context, productID, modelID uint) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Search(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Code != "" {
		q = q.Where("product_code ILIKE ?", likePattern(filter.Code))
	}
	if filter.Name != "" {
		q = q.Where("product_name ILIKE ?", likePattern(filter.Name))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := q.Preload("Tailor").
		Order("product_id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Tailor").
		Preload("Models", func(db *gorm.DB) *gorm.DB { return db.Order("model_id ASC") }).
		Preload("Models.Model").
		First(&product, "product_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Tailor").
		Preload("Models", func(db *gorm.DB) *gorm.DB { return db.Order("model_id ASC") }).
		Preload("Models.Model").
		First(&product, "product_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ProductModel{}, "product_id = ?", id).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&model.Product{}, "product_id = ?", id).Error)
	})
}

func (r *productRepo) CountTransfers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transfer{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}

func (r *productRepo) WithinTx(ctx context.Context, fn func(store ProductStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&productStore{tx: tx})
	})
}

type productStore struct {
	tx *gorm.DB
}

func (s *productStore) LockCodeSequence(ctx context.Context) error {
	return s.tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", productCodeLockKey).Error
}

func (s *productStore) LastProductCode(ctx context.Context) (string, error) {
	var codes []string
	err := s.tx.WithContext(ctx).Model(&model.Product{}).
		Order("length(product_code) DESC, product_code DESC").
		Limit(1).
		Pluck("product_code", &codes).Error
	if err != nil || len(codes) == 0 {
		return "", err
	}
	return codes[0], nil
}

func (s *productStore) Create(ctx context.Context, product *model.Product) error {
	return translate(s.tx.WithContext(ctx).Create(product).Error)
}

func (s *productStore) FindForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "product_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productStore) Save(ctx context.Context, product *model.Product) error {
	// Associations are managed explicitly through UpsertModel/DeleteModel
	return translate(s.tx.WithContext(ctx).Omit(clause.Associations).Save(product).Error)
}

func (s *productStore) ListModels(ctx context.Context, productID uint) ([]model.ProductModel, error) {
	var pms []model.ProductModel
	err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Order("model_id ASC").
		Find(&pms).Error
	return pms, err
}

func (s *productStore) UpsertModel(ctx context.Context, pm *model.ProductModel) error {
	return translate(s.tx.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "model_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"image", "updated_by", "updated_at"}),
		}).
		Create(pm).Error)
}

func (s *productStore) DeleteModel(ctx context.Context, productID, modelID uint) error {
	return translate(s.tx.WithContext(ctx).
		Delete(&model.ProductModel{}, "product_id = ? AND model_id = ?", productID, modelID).Error)
}

func (s *productStore) CountModelTransfers(ctx context.Context, productID, modelID uint) (int64, error) {
	var count int64
	err := s.tx.WithContext(ctx).Model(&model.Transfer{}).
		Where("product_id = ? AND model_id = ?", productID, modelID).
		Count(&count).Error
	return count, err
}
