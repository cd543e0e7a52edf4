package repository

import (
	"context"

	"go-tailor-inventory/internal/model"

	"gorm.io/gorm"
)

type TailorFilter struct {
	Name string
	Page
}

type TailorRepository interface {
	Create(ctx context.Context, tailor *model.Tailor) error
	Search(ctx context.Context, filter TailorFilter) ([]model.Tailor, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Tailor, error)
	// ExistsByName ignores the row with excludeID so an update can keep its own name.
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, tailor *model.Tailor) error
	Delete(ctx context.Context, id uint) error
	CountProducts(ctx context.Context, id uint) (int64, error)
}

type tailorRepo struct {
	db *gorm.DB
}

func NewTailorRepo(db *gorm.DB) TailorRepository {
	return &tailorRepo{db}
}

func (r *tailorRepo) Create(ctx context.Context, tailor *model.Tailor) error {
	return translate(r.db.WithContext(ctx).Create(tailor).Error)
}

func (r *tailorRepo) Search(ctx context.Context, filter TailorFilter) ([]model.Tailor, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Tailor{})
	if filter.Name != "" {
		q = q.Where("tailor_name ILIKE ?", likePattern(filter.Name))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tailors []model.Tailor
	err := q.Order("tailor_id ASC").Offset(filter.Offset()).Limit(filter.Limit()).Find(&tailors).Error
	return tailors, total, err
}

func (r *tailorRepo) FindByID(ctx context.Context, id uint) (*model.Tailor, error) {
	var tailor model.Tailor
	if err := r.db.WithContext(ctx).First(&tailor, "tailor_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tailor, nil
}

func (r *tailorRepo) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tailor{}).
		Where("tailor_name = ? AND tailor_id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *tailorRepo) Update(ctx context.Context, tailor *model.Tailor) error {
	return translate(r.db.WithContext(ctx).Save(tailor).Error)
}

func (r *tailorRepo) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Tailor{}, "tailor_id = ?", id).Error)
}

func (r *tailorRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("tailor_id = ?", id).Count(&count).Error
	return count, err
}
