package service

import (
	"context"
	"strings"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"
)

type TailorService interface {
	Create(ctx context.Context, actor Actor, req *TailorRequest) (*model.Tailor, error)
	Search(ctx context.Context, req SearchRequest) (*PageResult[model.Tailor], error)
	Get(ctx context.Context, id uint) (*model.Tailor, error)
	Update(ctx context.Context, actor Actor, id uint, req *TailorRequest) (*model.Tailor, error)
	Delete(ctx context.Context, id uint) error
}

type TailorRequest struct {
	TailorName  string `json:"tailor_name" validate:"trimmed_required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	Address     string `json:"address"`
}

type tailorService struct {
	repo repository.TailorRepository
}

func NewTailorService(repo repository.TailorRepository) TailorService {
	return &tailorService{repo: repo}
}

func (s *tailorService) Create(ctx context.Context, actor Actor, req *TailorRequest) (*model.Tailor, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.TailorName)

	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Validation(apperror.MsgRecordExists)
	}

	tailor := &model.Tailor{
		TailorName:  name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	tailor.CreatedBy = actor.Username
	tailor.UpdatedBy = actor.Username

	if err := s.repo.Create(ctx, tailor); err != nil {
		return nil, storeError(err, "")
	}
	return tailor, nil
}

func (s *tailorService) Search(ctx context.Context, req SearchRequest) (*PageResult[model.Tailor], error) {
	page := req.page()
	tailors, total, err := s.repo.Search(ctx, repository.TailorFilter{Name: strings.TrimSpace(req.Name), Page: page})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPageResult(tailors, page, total), nil
}

func (s *tailorService) Get(ctx context.Context, id uint) (*model.Tailor, error) {
	tailor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Tailor not found.")
	}
	return tailor, nil
}

func (s *tailorService) Update(ctx context.Context, actor Actor, id uint, req *TailorRequest) (*model.Tailor, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	tailor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Tailor not found.")
	}

	name := strings.TrimSpace(req.TailorName)
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Validation("Tailor name already exists.")
	}

	tailor.TailorName = name
	tailor.PhoneNumber = req.PhoneNumber
	tailor.Address = req.Address
	tailor.UpdatedBy = actor.Username

	if err := s.repo.Update(ctx, tailor); err != nil {
		return nil, storeError(err, "Tailor not found.")
	}
	return tailor, nil
}

func (s *tailorService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeError(err, "Tailor not found.")
	}

	used, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if used > 0 {
		return apperror.Validation("Tailor already used in products.")
	}

	return storeError(s.repo.Delete(ctx, id), "Tailor not found.")
}
