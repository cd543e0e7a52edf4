package service

import (
	"context"
	"time"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DefaultMovementDays = 7
	MaxMovementDays     = 366
)

type ReportService interface {
	StockCard(ctx context.Context, productCode string, category model.Category) (*StockCardResponse, error)
	InventoryStock(ctx context.Context, category model.Category) ([]InventoryStockRow, error)
	Dashboard(ctx context.Context) (*DashboardResponse, error)
	StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
}

type StockCardLine struct {
	repository.StockCardRow
	Balance int `json:"balance"`
}

type StockCardResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	TailorName  string          `json:"tailor_name"`
	Category    model.Category  `json:"category"`
	Rows        []StockCardLine `json:"rows"`
	Balance     int             `json:"balance"`
}

// InventoryStockRow values the remaining balance of a product at its unit prices.
type InventoryStockRow struct {
	ProductID    uint            `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	QtyIn        int             `json:"qty_in"`
	QtyOut       int             `json:"qty_out"`
	Balance      int             `json:"balance"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Margin       decimal.Decimal `json:"margin"`
}

// DashboardResponse totals the Good category; prices are summed over inbound quantities.
type DashboardResponse struct {
	QtyIn        int             `json:"qty_in"`
	QtyOut       int             `json:"qty_out"`
	QtyMargin    int             `json:"qty_margin"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	PriceMargin  decimal.Decimal `json:"price_margin"`
}

type reportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{reportRepo: reportRepo, productRepo: productRepo, now: time.Now}
}

func (s *reportService) StockCard(ctx context.Context, productCode string, category model.Category) (*StockCardResponse, error) {
	if !category.Valid() {
		return nil, apperror.Validation(`"category" must be one of [Good, Bad, Retur]`)
	}
	product, err := s.productRepo.FindByCode(ctx, productCode)
	if err != nil {
		return nil, storeError(err, "Product not found.")
	}

	rows, err := s.reportRepo.StockCardRows(ctx, product.ProductID, category)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	resp := &StockCardResponse{
		ProductID:   product.ProductID,
		ProductCode: product.ProductCode,
		ProductName: product.ProductName,
		Category:    category,
		Rows:        make([]StockCardLine, len(rows)),
	}
	if product.Tailor != nil {
		resp.TailorName = product.Tailor.TailorName
	}

	running := 0
	for i, row := range rows {
		running += row.QtyIn - row.QtyOut
		resp.Rows[i] = StockCardLine{StockCardRow: row, Balance: running}
	}
	resp.Balance = running
	return resp, nil
}

func (s *reportService) InventoryStock(ctx context.Context, category model.Category) ([]InventoryStockRow, error) {
	if !category.Valid() {
		return nil, apperror.Validation(`"category" must be one of [Good, Bad, Retur]`)
	}
	summary, err := s.reportRepo.InventorySummary(ctx, category)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rows := make([]InventoryStockRow, len(summary))
	for i, r := range summary {
		balance := r.QtyIn - r.QtyOut
		qty := decimal.NewFromInt(int64(balance))
		cost := r.CostPrice.Mul(qty)
		selling := r.SellingPrice.Mul(qty)
		rows[i] = InventoryStockRow{
			ProductID:    r.ProductID,
			ProductCode:  r.ProductCode,
			ProductName:  r.ProductName,
			QtyIn:        r.QtyIn,
			QtyOut:       r.QtyOut,
			Balance:      balance,
			CostPrice:    cost,
			SellingPrice: selling,
			Margin:       selling.Sub(cost),
		}
	}
	return rows, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	totals, err := s.reportRepo.DashboardTotals(ctx, model.CategoryGood)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &DashboardResponse{
		QtyIn:        totals.QtyIn,
		QtyOut:       totals.QtyOut,
		QtyMargin:    totals.QtyIn - totals.QtyOut,
		CostPrice:    totals.CostPrice,
		SellingPrice: totals.SellingPrice,
		PriceMargin:  totals.SellingPrice.Sub(totals.CostPrice),
	}, nil
}

// StockMovement returns daily in/out quantities for the last days, clamped to a year.
func (s *reportService) StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = DefaultMovementDays
	}
	if days > MaxMovementDays {
		days = MaxMovementDays
	}
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.reportRepo.GetStockMovement(ctx, startDate, endDate)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if data == nil {
		data = []repository.StockMovementData{}
	}
	return data, nil
}
