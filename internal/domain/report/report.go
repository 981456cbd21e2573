// Package report holds read models for the admin panel and dashboards.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// NoCategory is reported as the top category when there are no products
const NoCategory = "N/A"

// AdminStats is the admin dashboard summary
type AdminStats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalProducts      int64 `json:"total_products"`
	TotalOrders        int64 `json:"total_orders"`
	PendingConsultants int64 `json:"pending_consultants"`
}

// DailyReport is the admin daily report
type DailyReport struct {
	Date                string          `json:"date"`
	TotalUsers          int64           `json:"total_users"`
	NewUsersToday       int64           `json:"new_users_today"`
	TotalProducts       int64           `json:"total_products"`
	AverageProductPrice decimal.Decimal `json:"avg_product_price"`
	TopCategory         string          `json:"top_category"`
	TopCategoryListings int64           `json:"top_category_listings"`
}

// UserTotals are aggregate user counts
type UserTotals struct {
	Total               int64
	JoinedInWindow      int64
	PendingConsultants  int64
	ApprovedConsultants int64
}

// ProductTotals are aggregate product figures over all listings
type ProductTotals struct {
	Total        int64
	Approved     int64
	AveragePrice decimal.Decimal
}

// CategoryCount is the number of product listings in a category
type CategoryCount struct {
	CategoryName string
	Count        int64
}

// Repository runs the aggregate queries behind the reports
type Repository interface {
	// UserTotals counts users; JoinedInWindow counts join dates in [from, to)
	UserTotals(ctx context.Context, from, to time.Time) (UserTotals, error)

	// ProductTotals counts products and averages their price
	ProductTotals(ctx context.Context) (ProductTotals, error)

	// CategoryListingCounts returns listing counts per product category name
	CategoryListingCounts(ctx context.Context) ([]CategoryCount, error)

	// OrderCount returns the number of orders
	OrderCount(ctx context.Context) (int64, error)

	// PostCount returns the number of posts
	PostCount(ctx context.Context) (int64, error)
}

// TopCategory returns the category with the most listings.
// Ties go to the lexicographically smallest name; NoCategory when empty.
func TopCategory(counts []CategoryCount) (string, int64) {
	if len(counts) == 0 {
		return NoCategory, 0
	}
	sorted := make([]CategoryCount, len(counts))
	copy(sorted, counts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].CategoryName < sorted[j].CategoryName
	})
	return sorted[0].CategoryName, sorted[0].Count
}

// DayWindow returns the start of now's calendar day and the start of the next
// day in loc.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
