package repository

import (
	"context"
	"strings"

	"go-tailor-inventory/internal/model"

	"gorm.io/gorm"
)

type ModelFilter struct {
	Name string
	Page
}

type ModelRepository interface {
	Create(ctx context.Context, m *model.Model) error
	Search(ctx context.Context, filter ModelFilter) ([]model.Model, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Model, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Model, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, m *model.Model) error
	Delete(ctx context.Context, id uint) error
	// CountProducts counts product associations that use the model.
	CountProducts(ctx context.Context, id uint) (int64, error)
}

type modelRepo struct {
	db *gorm.DB
}

func NewModelRepo(db *gorm.DB) ModelRepository {
	return &modelRepo{db}
}

func (r *modelRepo) Create(ctx context.Context, m *model.Model) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *modelRepo) Search(ctx context.Context, filter ModelFilter) ([]model.Model, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Model{})
	if filter.Name != "" {
		q = q.Where("model_name ILIKE ?", likePattern(filter.Name))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []model.Model
	err := q.Order("model_id ASC").Offset(filter.Offset()).Limit(filter.Limit()).Find(&models).Error
	return models, total, err
}

func (r *modelRepo) FindByID(ctx context.Context, id uint) (*model.Model, error) {
	var m model.Model
	if err := r.db.WithContext(ctx).First(&m, "model_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *modelRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Model, error) {
	var models []model.Model
	if len(ids) == 0 {
		return models, nil
	}
	err := r.db.WithContext(ctx).Where("model_id IN ?", ids).Find(&models).Error
	return models, err
}

func (r *modelRepo) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Model{}).
		Where("model_name = ? AND model_id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *modelRepo) Update(ctx context.Context, m *model.Model) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

func (r *modelRepo) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Model{}, "model_id = ?", id).Error)
}

func (r *modelRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("model_id = ?", id).Count(&count).Error
	return count, err
}

// likePattern builds a contains pattern with LIKE wildcards in the input escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
