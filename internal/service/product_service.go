package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	productCodePrefix = "P"
	productCodeDigits = 5
)

// QRWriter stores a QR image for a product code and returns its file name.
type QRWriter interface {
	Write(content string) (string, error)
	Remove(name string) error
}

type ProductService interface {
	Create(ctx context.Context, actor Actor, req *CreateProductRequest) (*model.Product, error)
	Search(ctx context.Context, req SearchRequest) (*PageResult[model.Product], error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type ProductModelRequest struct {
	ModelID uint   `json:"model_id" validate:"required"`
	Image   string `json:"image" validate:"max=100"`
}

type CreateProductRequest struct {
	ProductName  string                `json:"product_name" validate:"trimmed_required,max=100"`
	CostPrice    decimal.NullDecimal   `json:"cost_price"`
	SellingPrice decimal.NullDecimal   `json:"selling_price"`
	TailorID     uint                  `json:"tailor_id" validate:"required"`
	Models       []ProductModelRequest `json:"models" validate:"required,min=1,unique=ModelID,dive"`
}

// UpdateProductRequest leaves the model associations alone when Models is empty.
type UpdateProductRequest struct {
	ProductName  string                `json:"product_name" validate:"trimmed_required,max=100"`
	CostPrice    decimal.NullDecimal   `json:"cost_price"`
	SellingPrice decimal.NullDecimal   `json:"selling_price"`
	TailorID     uint                  `json:"tailor_id" validate:"required"`
	Models       []ProductModelRequest `json:"models" validate:"omitempty,unique=ModelID,dive"`
}

type productService struct {
	productRepo repository.ProductRepository
	tailorRepo  repository.TailorRepository
	modelRepo   repository.ModelRepository
	qr          QRWriter
	events      EventPublisher
}

func NewProductService(productRepo repository.ProductRepository, tailorRepo repository.TailorRepository, modelRepo repository.ModelRepository, qr QRWriter, events EventPublisher) ProductService {
	return &productService{
		productRepo: productRepo,
		tailorRepo:  tailorRepo,
		modelRepo:   modelRepo,
		qr:          qr,
		events:      events,
	}
}

// NextProductCode returns the code following last. An empty last starts the sequence at P00001.
func NextProductCode(last string) (string, error) {
	if last == "" {
		return fmt.Sprintf("%s%0*d", productCodePrefix, productCodeDigits, 1), nil
	}
	if !strings.HasPrefix(last, productCodePrefix) {
		return "", fmt.Errorf("malformed product code %q", last)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, productCodePrefix))
	if err != nil || n < 0 {
		return "", fmt.Errorf("malformed product code %q", last)
	}
	return fmt.Sprintf("%s%0*d", productCodePrefix, productCodeDigits, n+1), nil
}

func (s *productService) Create(ctx context.Context, actor Actor, req *CreateProductRequest) (*model.Product, error) {
	// 1. Validate struct and prices
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := validatePrices(req.CostPrice, req.SellingPrice); err != nil {
		return nil, err
	}

	// 2. Referenced tailor and models must exist
	if err := s.checkTailor(ctx, req.TailorID); err != nil {
		return nil, err
	}
	if err := s.checkModels(ctx, req.Models); err != nil {
		return nil, err
	}

	product := &model.Product{
		ProductName:  strings.TrimSpace(req.ProductName),
		CostPrice:    req.CostPrice.Decimal,
		SellingPrice: req.SellingPrice.Decimal,
		TailorID:     req.TailorID,
	}
	product.CreatedBy = actor.Username
	product.UpdatedBy = actor.Username
	for _, m := range req.Models {
		pm := model.ProductModel{ModelID: m.ModelID, Image: m.Image}
		pm.CreatedBy = actor.Username
		pm.UpdatedBy = actor.Username
		product.Models = append(product.Models, pm)
	}

	// 3. Allocate the code and insert under the same lock
	var qrFile string
	err := s.productRepo.WithinTx(ctx, func(store repository.ProductStore) error {
		if err := store.LockCodeSequence(ctx); err != nil {
			return apperror.Internal(err)
		}
		last, err := store.LastProductCode(ctx)
		if err != nil {
			return apperror.Internal(err)
		}
		code, err := NextProductCode(last)
		if err != nil {
			return apperror.Internal(err)
		}
		product.ProductCode = code

		qrFile, err = s.qr.Write(code)
		if err != nil {
			return apperror.Internal(err)
		}
		product.QRCode = qrFile

		if err := store.Create(ctx, product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("Product code already taken, please retry.", err)
			}
			return storeError(err, "")
		}
		return nil
	})
	if err != nil {
		if qrFile != "" {
			if rmErr := s.qr.Remove(qrFile); rmErr != nil {
				zerolog.Ctx(ctx).Warn().Err(rmErr).Str("file", qrFile).Msg("remove orphan qr code")
			}
		}
		return nil, apperror.As(err)
	}

	created, err := s.productRepo.FindByID(ctx, product.ProductID)
	if err != nil {
		return nil, storeError(err, "Product not found.")
	}

	s.events.Publish(EventProductCreated, created, actor.Username,
		fmt.Sprintf("%s created product %s '%s'", actor.Username, created.ProductCode, created.ProductName))
	return created, nil
}

func (s *productService) Search(ctx context.Context, req SearchRequest) (*PageResult[model.Product], error) {
	page := req.page()
	products, total, err := s.productRepo.Search(ctx, repository.ProductFilter{
		Code: strings.TrimSpace(req.Code),
		Name: strings.TrimSpace(req.Name),
		Page: page,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPageResult(products, page, total), nil
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Product not found.")
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, actor Actor, id uint, req *UpdateProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := validatePrices(req.CostPrice, req.SellingPrice); err != nil {
		return nil, err
	}
	if err := s.checkTailor(ctx, req.TailorID); err != nil {
		return nil, err
	}
	if err := s.checkModels(ctx, req.Models); err != nil {
		return nil, err
	}

	err := s.productRepo.WithinTx(ctx, func(store repository.ProductStore) error {
		// 1. Lock product row
		existing, err := store.FindForUpdate(ctx, id)
		if err != nil {
			return storeError(err, "Product not found.")
		}

		// 2. Update fields; the code never changes
		existing.ProductName = strings.TrimSpace(req.ProductName)
		existing.CostPrice = req.CostPrice.Decimal
		existing.SellingPrice = req.SellingPrice.Decimal
		existing.TailorID = req.TailorID
		existing.UpdatedBy = actor.Username
		if err := store.Save(ctx, existing); err != nil {
			return storeError(err, "")
		}

		// 3. Sync models when given
		if len(req.Models) == 0 {
			return nil
		}
		return syncProductModels(ctx, store, id, req.Models, actor)
	})
	if err != nil {
		return nil, apperror.As(err)
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Product not found.")
	}

	s.events.Publish(EventProductUpdated, updated, actor.Username,
		fmt.Sprintf("%s updated product %s '%s'", actor.Username, updated.ProductCode, updated.ProductName))
	return updated, nil
}

func syncProductModels(ctx context.Context, store repository.ProductStore, productID uint, wanted []ProductModelRequest, actor Actor) error {
	current, err := store.ListModels(ctx, productID)
	if err != nil {
		return apperror.Internal(err)
	}

	keep := make(map[uint]bool, len(wanted))
	for _, m := range wanted {
		keep[m.ModelID] = true
	}

	for _, pm := range current {
		if keep[pm.ModelID] {
			continue
		}
		used, err := store.CountModelTransfers(ctx, productID, pm.ModelID)
		if err != nil {
			return apperror.Internal(err)
		}
		if used > 0 {
			return apperror.Validationf("Model %d already used in transactions and cannot be removed from the product.", pm.ModelID)
		}
		if err := store.DeleteModel(ctx, productID, pm.ModelID); err != nil {
			return storeError(err, "")
		}
	}

	for _, m := range wanted {
		pm := &model.ProductModel{ProductID: productID, ModelID: m.ModelID, Image: m.Image}
		pm.CreatedBy = actor.Username
		pm.UpdatedBy = actor.Username
		if err := store.UpsertModel(ctx, pm); err != nil {
			return storeError(err, "")
		}
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, actor Actor, id uint) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "Product not found.")
	}

	used, err := s.productRepo.CountTransfers(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if used > 0 {
		return apperror.Validation("Product already used in transactions.")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperror.Validation("Product already used in transactions.")
		}
		return storeError(err, "Product not found.")
	}

	if err := s.qr.Remove(product.QRCode); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", product.QRCode).Msg("remove qr code")
	}

	s.events.Publish(EventProductDeleted, productRef(product), actor.Username,
		fmt.Sprintf("%s deleted product %s", actor.Username, product.ProductCode))
	return nil
}

func productRef(p *model.Product) map[string]interface{} {
	return map[string]interface{}{"product_id": p.ProductID, "product_code": p.ProductCode}
}

func (s *productService) checkTailor(ctx context.Context, id uint) error {
	if _, err := s.tailorRepo.FindByID(ctx, id); err != nil {
		return storeError(err, "Tailor not found.")
	}
	return nil
}

func (s *productService) checkModels(ctx context.Context, models []ProductModelRequest) error {
	if len(models) == 0 {
		return nil
	}
	ids := make([]uint, len(models))
	for i, m := range models {
		ids[i] = m.ModelID
	}
	found, err := s.modelRepo.FindByIDs(ctx, ids)
	if err != nil {
		return apperror.Internal(err)
	}
	if len(found) != len(ids) {
		return apperror.NotFound("Model not found.")
	}
	return nil
}

// validatePrices requires both prices; a JSON null counts as missing.
func validatePrices(cost, selling decimal.NullDecimal) error {
	if !cost.Valid {
		return apperror.Validation(`"cost_price" is required`)
	}
	if !selling.Valid {
		return apperror.Validation(`"selling_price" is required`)
	}
	if cost.Decimal.IsNegative() {
		return apperror.Validation(`"cost_price" must be greater than or equal to 0`)
	}
	if selling.Decimal.IsNegative() {
		return apperror.Validation(`"selling_price" must be greater than or equal to 0`)
	}
	return nil
}
