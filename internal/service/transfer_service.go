package service

import (
	"context"
	"fmt"
	"time"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"

	"github.com/rs/zerolog"
)

type TransferService interface {
	PostTransfer(ctx context.Context, actor Actor, req *CreateTransferRequest) (*TransferResponse, error)
	// GetBalance reports the quantity for a key; ok is false when no balance row exists yet.
	GetBalance(ctx context.Context, productID, modelID uint, category model.Category) (quantity int, ok bool, err error)
	GetProductStock(ctx context.Context, productCode string) (*ProductStockResponse, error)
	ListTransfers(ctx context.Context, req TransferListRequest) (*PageResult[TransferResponse], error)
}

type CreateTransferRequest struct {
	ProductID uint               `json:"product_id" validate:"required"`
	ModelID   uint               `json:"model_id" validate:"required"`
	Quantity  int                `json:"quantity" validate:"required,gt=0"`
	Remark    string             `json:"remark" validate:"trimmed_required,max=255"`
	Category  model.Category     `json:"category" validate:"required,oneof=Good Bad Retur"`
	Type      model.TransferType `json:"type" validate:"required,oneof=In Out"`
}

type TransferListRequest struct {
	ProductCode string
	Category    model.Category
	Type        model.TransferType
	Page        int
	Size        int
}

// TransferResponse is a transfer with its product and model display fields.
type TransferResponse struct {
	TransferID   uint               `json:"transfer_id"`
	TransferDate time.Time          `json:"transfer_date"`
	ProductID    uint               `json:"product_id"`
	ProductCode  string             `json:"product_code"`
	ProductName  string             `json:"product_name"`
	ModelID      uint               `json:"model_id"`
	ModelName    string             `json:"model_name"`
	Category     model.Category     `json:"category"`
	Type         model.TransferType `json:"type"`
	Quantity     int                `json:"quantity"`
	Remark       string             `json:"remark"`
	CreatedBy    string             `json:"created_by"`
	// Balance is set only on the response of a posting.
	Balance *int `json:"balance,omitempty"`
}

type ProductStockResponse struct {
	ProductID   uint         `json:"product_id"`
	ProductCode string       `json:"product_code"`
	ProductName string       `json:"product_name"`
	TailorID    uint         `json:"tailor_id"`
	TailorName  string       `json:"tailor_name"`
	QRCode      string       `json:"qr_code"`
	Stock       int          `json:"stock"`
	Models      []ModelStock `json:"models"`
}

// ModelStock lists every category balance of one product model, zero when never stocked.
type ModelStock struct {
	ModelID   uint                   `json:"model_id"`
	ModelName string                 `json:"model_name"`
	Image     string                 `json:"image"`
	Balances  map[model.Category]int `json:"balances"`
}

type transferService struct {
	transferRepo repository.TransferRepository
	productRepo  repository.ProductRepository
	events       EventPublisher
	now          func() time.Time
}

func NewTransferService(transferRepo repository.TransferRepository, productRepo repository.ProductRepository, events EventPublisher) TransferService {
	return &transferService{
		transferRepo: transferRepo,
		productRepo:  productRepo,
		events:       events,
		now:          time.Now,
	}
}

func (s *transferService) PostTransfer(ctx context.Context, actor Actor, req *CreateTransferRequest) (*TransferResponse, error) {
	// 1. Validate before touching the store
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp *TransferResponse
	err := s.transferRepo.WithinTx(ctx, func(store repository.LedgerStore) error {
		// 2. Lock the product model pair, serialising every posting against it
		pm, err := store.LockAssociation(ctx, req.ProductID, req.ModelID)
		if err != nil {
			return storeError(err, "Product model not found.")
		}

		// 3. Append the ledger event
		transfer := &model.Transfer{
			TransferDate: s.now(),
			ProductID:    req.ProductID,
			ModelID:      req.ModelID,
			Category:     req.Category,
			Type:         req.Type,
			Quantity:     req.Quantity,
			Remark:       req.Remark,
			CreatedBy:    actor.Username,
		}
		if err := store.InsertTransfer(ctx, transfer); err != nil {
			return apperror.Internal(err)
		}

		// 4. Apply it to the balance; any rejection rolls back the insert above
		key := model.BalanceKey{ProductID: req.ProductID, ModelID: req.ModelID, Category: req.Category}
		balance, err := store.FindBalance(ctx, key)
		if err != nil {
			return apperror.Internal(err)
		}
		next, err := applyTransfer(balance, transfer)
		if err != nil {
			return err
		}
		if err := store.UpsertBalance(ctx, key, next, actor.Username); err != nil {
			return apperror.Internal(err)
		}

		resp = newTransferResponse(transfer, pm.Product, pm.Model)
		resp.Balance = &next
		return nil
	})
	if err != nil {
		return nil, apperror.As(err)
	}

	zerolog.Ctx(ctx).Info().
		Uint("transfer_id", resp.TransferID).
		Str("product_code", resp.ProductCode).
		Str("category", string(resp.Category)).
		Str("type", string(resp.Type)).
		Int("quantity", resp.Quantity).
		Int("balance", *resp.Balance).
		Msg("transfer posted")

	s.events.Publish(EventTransferPosted, resp, actor.Username,
		fmt.Sprintf("%s posted %s %d of %s (%s, %s)", actor.Username, resp.Type, resp.Quantity, resp.ProductCode, resp.ModelName, resp.Category))

	return resp, nil
}

// applyTransfer returns the balance after t. A nil current means the key has no balance row.
func applyTransfer(current *model.Inventory, t *model.Transfer) (int, error) {
	if current == nil {
		if t.Type == model.TransferOut {
			return 0, apperror.Validation(apperror.MsgNoStock)
		}
		return t.Quantity, nil
	}

	next := current.Quantity + t.Delta()
	if next < 0 {
		return 0, apperror.Validation(apperror.MsgNegativeStock)
	}
	return next, nil
}

func (s *transferService) GetBalance(ctx context.Context, productID, modelID uint, category model.Category) (int, bool, error) {
	if productID == 0 || modelID == 0 {
		return 0, false, apperror.Validation(`"product_id" and "model_id" are required`)
	}
	if !category.Valid() {
		return 0, false, apperror.Validation(`"category" must be one of [Good, Bad, Retur]`)
	}

	balance, err := s.transferRepo.FindBalance(ctx, model.BalanceKey{ProductID: productID, ModelID: modelID, Category: category})
	if err != nil {
		return 0, false, apperror.Internal(err)
	}
	if balance == nil {
		return 0, false, nil
	}
	return balance.Quantity, true, nil
}

func (s *transferService) GetProductStock(ctx context.Context, productCode string) (*ProductStockResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, productCode)
	if err != nil {
		return nil, storeError(err, "Product not found.")
	}

	balances, err := s.transferRepo.ListBalances(ctx, product.ProductID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	byModel := make(map[uint]map[model.Category]int)
	for _, b := range balances {
		if byModel[b.ModelID] == nil {
			byModel[b.ModelID] = make(map[model.Category]int)
		}
		byModel[b.ModelID][b.Category] = b.Quantity
	}

	resp := &ProductStockResponse{
		ProductID:   product.ProductID,
		ProductCode: product.ProductCode,
		ProductName: product.ProductName,
		TailorID:    product.TailorID,
		QRCode:      product.QRCode,
		Models:      make([]ModelStock, 0, len(product.Models)),
	}
	if product.Tailor != nil {
		resp.TailorName = product.Tailor.TailorName
	}

	for _, pm := range product.Models {
		stock := ModelStock{
			ModelID:  pm.ModelID,
			Image:    pm.Image,
			Balances: make(map[model.Category]int, len(model.Categories)),
		}
		if pm.Model != nil {
			stock.ModelName = pm.Model.ModelName
		}
		for _, c := range model.Categories {
			stock.Balances[c] = byModel[pm.ModelID][c]
		}
		resp.Stock += stock.Balances[model.CategoryGood]
		resp.Models = append(resp.Models, stock)
	}

	return resp, nil
}

func (s *transferService) ListTransfers(ctx context.Context, req TransferListRequest) (*PageResult[TransferResponse], error) {
	if req.Category != "" && !req.Category.Valid() {
		return nil, apperror.Validation(`"category" must be one of [Good, Bad, Retur]`)
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, apperror.Validation(`"type" must be one of [In, Out]`)
	}

	filter := repository.TransferFilter{
		Category: req.Category,
		Type:     req.Type,
		Page:     repository.Page{Page: req.Page, Size: req.Size}.Normalize(),
	}
	if req.ProductCode != "" {
		product, err := s.productRepo.FindByCode(ctx, req.ProductCode)
		if err != nil {
			return nil, storeError(err, "Product not found.")
		}
		filter.ProductID = product.ProductID
	}

	transfers, total, err := s.transferRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	items := make([]TransferResponse, len(transfers))
	for i := range transfers {
		items[i] = *newTransferResponse(&transfers[i], transfers[i].Product, transfers[i].Model)
	}
	return newPageResult(items, filter.Page, total), nil
}

func newTransferResponse(t *model.Transfer, product *model.Product, m *model.Model) *TransferResponse {
	resp := &TransferResponse{
		TransferID:   t.TransferID,
		TransferDate: t.TransferDate,
		ProductID:    t.ProductID,
		ModelID:      t.ModelID,
		Category:     t.Category,
		Type:         t.Type,
		Quantity:     t.Quantity,
		Remark:       t.Remark,
		CreatedBy:    t.CreatedBy,
	}
	if product != nil {
		resp.ProductCode = product.ProductCode
		resp.ProductName = product.ProductName
	}
	if m != nil {
		resp.ModelName = m.ModelName
	}
	return resp
}
