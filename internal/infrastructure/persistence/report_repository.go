package persistence

import (
	"context"
	"time"

	"github.com/agrifarma/backend/internal/domain/report"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository runs the admin report aggregates using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// UserTotals counts users, users joined in [from, to) and consultant states
func (r *GormReportRepository) UserTotals(ctx context.Context, from, to time.Time) (report.UserTotals, error) {
	var totals report.UserTotals
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.UserModel{}).Count(&totals.Total).Error; err != nil {
		return totals, err
	}
	if err := db.Model(&models.UserModel{}).
		Where("join_date >= ? AND join_date < ?", from.UTC(), to.UTC()).
		Count(&totals.JoinedInWindow).Error; err != nil {
		return totals, err
	}
	if err := db.Model(&models.UserModel{}).
		Where("is_consultant = ? AND is_consultant_approved = ?", true, false).
		Count(&totals.PendingConsultants).Error; err != nil {
		return totals, err
	}
	if err := db.Model(&models.UserModel{}).
		Where("is_consultant = ? AND is_consultant_approved = ?", true, true).
		Count(&totals.ApprovedConsultants).Error; err != nil {
		return totals, err
	}
	return totals, nil
}

// ProductTotals counts all listings and averages their price
func (r *GormReportRepository) ProductTotals(ctx context.Context) (report.ProductTotals, error) {
	var row struct {
		Total    int64
		Approved int64
		Average  decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select(
			"COUNT(*) AS total, " +
				"COALESCE(SUM(CASE WHEN is_approved THEN 1 ELSE 0 END), 0) AS approved, " +
				"AVG(price) AS average",
		).
		Scan(&row).Error; err != nil {
		return report.ProductTotals{}, err
	}

	totals := report.ProductTotals{Total: row.Total, Approved: row.Approved, AveragePrice: decimal.Zero}
	if row.Average.Valid {
		totals.AveragePrice = row.Average.Decimal
	}
	return totals, nil
}

// CategoryListingCounts returns the number of listings per category name
func (r *GormReportRepository) CategoryListingCounts(ctx context.Context) ([]report.CategoryCount, error) {
	var counts []report.CategoryCount
	if err := r.db.WithContext(ctx).
		Table("products").
		Select("categories.name AS category_name, COUNT(products.id) AS count").
		Joins("JOIN categories ON categories.id = products.category_id").
		Group("categories.name").
		Order("categories.name ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// OrderCount returns the number of orders
func (r *GormReportRepository) OrderCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error
	return count, err
}

// PostCount returns the number of posts
func (r *GormReportRepository) PostCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostModel{}).Count(&count).Error
	return count, err
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
