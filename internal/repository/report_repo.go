package repository

import (
	"context"
	"time"

	"go-tailor-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	StockCardRows(ctx context.Context, productID uint, category model.Category) ([]StockCardRow, error)
	InventorySummary(ctx context.Context, category model.Category) ([]InventorySummaryRow, error)
	DashboardTotals(ctx context.Context, category model.Category) (*DashboardTotals, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockCardRow is one transfer of a stock card, split into in/out columns.
type StockCardRow struct {
	TransferID   uint      `json:"transfer_id"`
	TransferDate time.Time `json:"transfer_date"`
	ModelName    string    `json:"model_name"`
	Remark       string    `json:"remark"`
	QtyIn        int       `json:"qty_in"`
	QtyOut       int       `json:"qty_out"`
}

// InventorySummaryRow aggregates a product's transfers for one category.
type InventorySummaryRow struct {
	ProductID    uint
	ProductCode  string
	ProductName  string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	QtyIn        int
	QtyOut       int
}

// DashboardTotals sums one category across all products.
type DashboardTotals struct {
	QtyIn        int
	QtyOut       int
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) StockCardRows(ctx context.Context, productID uint, category model.Category) ([]StockCardRow, error) {
	var rows []StockCardRow
	err := r.db.WithContext(ctx).
		Table("transfer AS tf").
		Select(`
			tf.transfer_id,
			tf.transfer_date,
			m.model_name,
			tf.remark,
			CASE WHEN tf.type = ? THEN tf.quantity ELSE 0 END AS qty_in,
			CASE WHEN tf.type = ? THEN tf.quantity ELSE 0 END AS qty_out
		`, model.TransferIn, model.TransferOut).
		Joins("JOIN models AS m ON m.model_id = tf.model_id").
		Where("tf.product_id = ? AND tf.category = ?", productID, category).
		Order("tf.transfer_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) InventorySummary(ctx context.Context, category model.Category) ([]InventorySummaryRow, error) {
	var rows []InventorySummaryRow
	err := r.db.WithContext(ctx).
		Table("products AS pr").
		Select(`
			pr.product_id,
			pr.product_code,
			pr.product_name,
			pr.cost_price,
			pr.selling_price,
			COALESCE(SUM(CASE WHEN tf.type = ? THEN tf.quantity ELSE 0 END), 0) AS qty_in,
			COALESCE(SUM(CASE WHEN tf.type = ? THEN tf.quantity ELSE 0 END), 0) AS qty_out
		`, model.TransferIn, model.TransferOut).
		Joins("LEFT JOIN transfer AS tf ON tf.product_id = pr.product_id AND tf.category = ?", category).
		Group("pr.product_id, pr.product_code, pr.product_name, pr.cost_price, pr.selling_price").
		Order("pr.product_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) DashboardTotals(ctx context.Context, category model.Category) (*DashboardTotals, error) {
	var totals DashboardTotals
	err := r.db.WithContext(ctx).
		Table("transfer AS tf").
		Select(`
			COALESCE(SUM(CASE WHEN tf.type = ? THEN tf.quantity ELSE 0 END), 0) AS qty_in,
			COALESCE(SUM(CASE WHEN tf.type = ? THEN tf.quantity ELSE 0 END), 0) AS qty_out,
			COALESCE(SUM(CASE WHEN tf.type = ? THEN tf.quantity * pr.cost_price ELSE 0 END), 0) AS cost_price,
			COALESCE(SUM(CASE WHEN tf.type = ? THEN tf.quantity * pr.selling_price ELSE 0 END), 0) AS selling_price
		`, model.TransferIn, model.TransferOut, model.TransferIn, model.TransferIn).
		Joins("JOIN products AS pr ON pr.product_id = tf.product_id").
		Where("tf.category = ?", category).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *reportRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Query untuk aggregate transfers per hari
	rows, err := r.db.WithContext(ctx).Model(&model.Transfer{}).
		Select(`
			TO_CHAR(DATE(transfer_date), 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE 0 END), 0) as outbound
		`, model.TransferIn, model.TransferOut).
		Where("transfer_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(transfer_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
