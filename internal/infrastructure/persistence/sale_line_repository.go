package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const ledgerOrder = "batch_at DESC, line_no ASC, id ASC"

// GormSaleLineRepository implements SaleLineRepository using GORM.
// Sale dates are stored in UTC and returned in location.
type GormSaleLineRepository struct {
	db       *gorm.DB
	location *time.Location
	now      func() time.Time
}

// NewGormSaleLineRepository creates a new GormSaleLineRepository
func NewGormSaleLineRepository(db *gorm.DB, location *time.Location) *GormSaleLineRepository {
	if location == nil {
		location = time.Local
	}
	return &GormSaleLineRepository{db: db, location: location, now: time.Now}
}

// SaveAll appends lines to the ledger in one batch
func (r *GormSaleLineRepository) SaveAll(ctx context.Context, lines []sales.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	batchAt := r.now()
	rows := make([]*models.SaleLineModel, len(lines))
	for i := range lines {
		rows[i] = models.SaleLineModelFromDomain(&lines[i], batchAt, i+1)
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

// FindAll returns ledger lines matching the filter, newest batch first
func (r *GormSaleLineRepository) FindAll(ctx context.Context, filter sales.LineFilter) ([]sales.SaleLine, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleLineModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleLineModel{}), filter)
	query = query.Order(ledgerOrder)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.SaleLineModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return r.toLines(rows), total, nil
}

// FindByID finds one line
func (r *GormSaleLineRepository) FindByID(ctx context.Context, id string) (*sales.SaleLine, error) {
	var model models.SaleLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sales.ErrLineNotFound
		}
		return nil, err
	}
	line := model.ToDomain(r.location)
	return &line, nil
}

// FindByReceipt returns every line whose receipt key equals receiptNumber
func (r *GormSaleLineRepository) FindByReceipt(ctx context.Context, receiptNumber string) ([]sales.SaleLine, error) {
	var rows []models.SaleLineModel
	query := r.byReceipt(r.db.WithContext(ctx).Model(&models.SaleLineModel{}), receiptNumber)
	if err := query.Order(ledgerOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toLines(rows), nil
}

// DeleteByReceipt removes every line of a receipt and returns the count
func (r *GormSaleLineRepository) DeleteByReceipt(ctx context.Context, receiptNumber string) (int64, error) {
	query := r.byReceipt(r.db.WithContext(ctx), receiptNumber)
	result := query.Delete(&models.SaleLineModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes one line
func (r *GormSaleLineRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleLineModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return sales.ErrLineNotFound
	}
	return nil
}

// byReceipt matches stored receipt numbers and, for lines without one, the
// legacy key taken from the id. Legacy keys never contain "/".
func (r *GormSaleLineRepository) byReceipt(query *gorm.DB, receiptNumber string) *gorm.DB {
	if strings.Contains(receiptNumber, "/") {
		return query.Where("receipt_number = ?", receiptNumber)
	}
	return query.Where(
		"receipt_number = ? OR (receipt_number = '' AND (id = ? OR id LIKE ? ESCAPE '\\'))",
		receiptNumber, receiptNumber, escapeLike(receiptNumber)+"/%",
	)
}

func (r *GormSaleLineRepository) applyFilter(query *gorm.DB, filter sales.LineFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("sale_date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("sale_date <= ?", filter.To.UTC())
	}
	if customer := strings.ToLower(strings.TrimSpace(filter.Customer)); customer != "" {
		query = query.Where("LOWER(customer) LIKE ? ESCAPE '\\'", "%"+escapeLike(customer)+"%")
	}
	return query
}

func (r *GormSaleLineRepository) toLines(rows []models.SaleLineModel) []sales.SaleLine {
	lines := make([]sales.SaleLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain(r.location)
	}
	return lines
}

// Ensure GormSaleLineRepository implements SaleLineRepository
var _ sales.SaleLineRepository = (*GormSaleLineRepository)(nil)
