package repository

import (
	"context"

	"go-tailor-inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransferFilter struct {
	ProductID uint
	Category  model.Category
	Type      model.TransferType
	Page
}

// LedgerStore is everything a transfer posting may touch, bound to one transaction.
type LedgerStore interface {
	// LockAssociation row-locks the (product, model) pair, serialising postings for all its categories.
	// Returns gorm.ErrRecordNotFound when the pair is not associated.
	LockAssociation(ctx context.Context, productID, modelID uint) (*model.ProductModel, error)
	// FindBalance returns nil and no error when the key has no balance row yet.
	FindBalance(ctx context.Context, key model.BalanceKey) (*model.Inventory, error)
	UpsertBalance(ctx context.Context, key model.BalanceKey, quantity int, actor string) error
	InsertTransfer(ctx context.Context, transfer *model.Transfer) error
}

type TransferRepository interface {
	WithinTx(ctx context.Context, fn func(store LedgerStore) error) error
	FindBalance(ctx context.Context, key model.BalanceKey) (*model.Inventory, error)
	ListBalances(ctx context.Context, productID uint) ([]model.Inventory, error)
	Search(ctx context.Context, filter TransferFilter) ([]model.Transfer, int64, error)
}

type transferRepo struct {
	db *gorm.DB
}

func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db}
}

func (r *transferRepo) WithinTx(ctx context.Context, fn func(store LedgerStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerStore{tx: tx})
	})
}

func (r *transferRepo) FindBalance(ctx context.Context, key model.BalanceKey) (*model.Inventory, error) {
	return findBalance(r.db.WithContext(ctx), key)
}

func (r *transferRepo) ListBalances(ctx context.Context, productID uint) ([]model.Inventory, error) {
	var balances []model.Inventory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("model_id ASC, category ASC").
		Find(&balances).Error
	return balances, err
}

func (r *transferRepo) Search(ctx context.Context, filter TransferFilter) ([]model.Transfer, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transfer{})
	if filter.ProductID != 0 {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transfers []model.Transfer
	err := q.Preload("Product").Preload("Model").
		Order("transfer_id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&transfers).Error
	return transfers, total, err
}

type ledgerStore struct {
	tx *gorm.DB
}

func (s *ledgerStore) LockAssociation(ctx context.Context, productID, modelID uint) (*model.ProductModel, error) {
	var pm model.ProductModel
	err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pm, "product_id = ? AND model_id = ?", productID, modelID).Error
	if err != nil {
		return nil, err
	}

	// Display fields for the response; the locked row already proves both exist
	var product model.Product
	if err := s.tx.WithContext(ctx).First(&product, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	var m model.Model
	if err := s.tx.WithContext(ctx).First(&m, "model_id = ?", modelID).Error; err != nil {
		return nil, err
	}
	pm.Product = &product
	pm.Model = &m
	return &pm, nil
}

func (s *ledgerStore) FindBalance(ctx context.Context, key model.BalanceKey) (*model.Inventory, error) {
	return findBalance(s.tx.WithContext(ctx), key)
}

func (s *ledgerStore) UpsertBalance(ctx context.Context, key model.BalanceKey, quantity int, actor string) error {
	balance := model.Inventory{
		ProductID: key.ProductID,
		ModelID:   key.ModelID,
		Category:  key.Category,
		Quantity:  quantity,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	return translate(s.tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "model_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_by", "updated_at"}),
		}).
		Create(&balance).Error)
}

func (s *ledgerStore) InsertTransfer(ctx context.Context, transfer *model.Transfer) error {
	return translate(s.tx.WithContext(ctx).Omit(clause.Associations).Create(transfer).Error)
}

func findBalance(db *gorm.DB, key model.BalanceKey) (*model.Inventory, error) {
	var balances []model.Inventory
	err := db.Where("product_id = ? AND model_id = ? AND category = ?", key.ProductID, key.ModelID, key.Category).
		Limit(1).
		Find(&balances).Error
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return nil, nil
	}
	return &balances[0], nil
}
