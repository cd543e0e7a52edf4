package service

import (
	"context"
	"strings"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"
)

type ModelService interface {
	Create(ctx context.Context, actor Actor, req *ModelRequest) (*model.Model, error)
	Search(ctx context.Context, req SearchRequest) (*PageResult[model.Model], error)
	Get(ctx context.Context, id uint) (*model.Model, error)
	Update(ctx context.Context, actor Actor, id uint, req *ModelRequest) (*model.Model, error)
	Delete(ctx context.Context, id uint) error
}

type ModelRequest struct {
	ModelName string `json:"model_name" validate:"trimmed_required,max=100"`
}

type modelService struct {
	repo repository.ModelRepository
}

func NewModelService(repo repository.ModelRepository) ModelService {
	return &modelService{repo: repo}
}

func (s *modelService) Create(ctx context.Context, actor Actor, req *ModelRequest) (*model.Model, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.ModelName)

	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Validation(apperror.MsgRecordExists)
	}

	m := &model.Model{ModelName: name}
	m.CreatedBy = actor.Username
	m.UpdatedBy = actor.Username

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, storeError(err, "")
	}
	return m, nil
}

func (s *modelService) Search(ctx context.Context, req SearchRequest) (*PageResult[model.Model], error) {
	page := req.page()
	models, total, err := s.repo.Search(ctx, repository.ModelFilter{Name: strings.TrimSpace(req.Name), Page: page})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPageResult(models, page, total), nil
}

func (s *modelService) Get(ctx context.Context, id uint) (*model.Model, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Model not found.")
	}
	return m, nil
}

func (s *modelService) Update(ctx context.Context, actor Actor, id uint, req *ModelRequest) (*model.Model, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Model not found.")
	}

	name := strings.TrimSpace(req.ModelName)
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Validation("Model name already exists.")
	}

	m.ModelName = name
	m.UpdatedBy = actor.Username
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, storeError(err, "Model not found.")
	}
	return m, nil
}

func (s *modelService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeError(err, "Model not found.")
	}

	used, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if used > 0 {
		return apperror.Validation("Model already used in products.")
	}

	return storeError(s.repo.Delete(ctx, id), "Model not found.")
}
