// Package report builds the admin panel, landing page and dashboard views.
package report

import (
	"context"
	"fmt"
	"time"

	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
	contentapp "github.com/agrifarma/backend/internal/application/content"
	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/report"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

const (
	homeLatestPosts    = 3
	homeLatestProducts = 4
	dashboardRecent    = 3
)

// HomeStats is the landing page summary
type HomeStats struct {
	LatestPosts         []contentapp.PostView     `json:"latest_posts"`
	LatestProducts      []commerceapp.ProductView `json:"latest_products"`
	TotalUsers          int64                     `json:"total_users"`
	ApprovedConsultants int64                     `json:"approved_consultants"`
	TotalPosts          int64                     `json:"total_posts"`
	ApprovedProducts    int64                     `json:"approved_products"`
}

// UserDashboard summarizes one user's activity
type UserDashboard struct {
	PostCount      int64                     `json:"post_count"`
	ProductCount   int64                     `json:"product_count"`
	OrderCount     int64                     `json:"order_count"`
	RecentPosts    []contentapp.PostView     `json:"recent_posts"`
	RecentProducts []commerceapp.ProductView `json:"recent_products"`
}

// ReportService provides admin reports and summary pages
type ReportService struct {
	reports  report.Repository
	posts    content.PostRepository
	products commerce.ProductRepository
	orders   commerce.OrderRepository
	location *time.Location
}

// NewReportService creates a new ReportService. Daily windows are computed
// in location.
func NewReportService(
	reports report.Repository,
	posts content.PostRepository,
	products commerce.ProductRepository,
	orders commerce.OrderRepository,
	location *time.Location,
) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{
		reports:  reports,
		posts:    posts,
		products: products,
		orders:   orders,
		location: location,
	}
}

// AdminStats returns the admin dashboard counters
func (s *ReportService) AdminStats(ctx context.Context, admin identity.Actor) (*report.AdminStats, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}

	users, err := s.reports.UserTotals(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("user totals: %w", err)
	}
	products, err := s.reports.ProductTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}
	orders, err := s.reports.OrderCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("order count: %w", err)
	}

	return &report.AdminStats{
		TotalUsers:         users.Total,
		TotalProducts:      products.Total,
		TotalOrders:        orders,
		PendingConsultants: users.PendingConsultants,
	}, nil
}

// AdminDailyReport returns the report for the calendar day containing now
func (s *ReportService) AdminDailyReport(ctx context.Context, admin identity.Actor, now time.Time) (*report.DailyReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "daily")
	defer span.End()

	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}

	from, to := report.DayWindow(now, s.location)
	users, err := s.reports.UserTotals(ctx, from, to)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("user totals: %w", err)
	}
	products, err := s.reports.ProductTotals(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("product totals: %w", err)
	}
	counts, err := s.reports.CategoryListingCounts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("category counts: %w", err)
	}

	average := decimal.Zero
	if products.Total > 0 {
		average = products.AveragePrice.Round(2)
	}
	top, listings := report.TopCategory(counts)

	return &report.DailyReport{
		Date:                from.Format("2006-01-02"),
		TotalUsers:          users.Total,
		NewUsersToday:       users.JoinedInWindow,
		TotalProducts:       products.Total,
		AverageProductPrice: average,
		TopCategory:         top,
		TopCategoryListings: listings,
	}, nil
}

// HomeStats returns the landing page summary. Only approved content is shown.
func (s *ReportService) HomeStats(ctx context.Context) (*HomeStats, error) {
	approved := true
	posts, err := s.posts.FindAll(ctx, content.PostFilter{Approved: &approved, SortBy: content.PostSortDate, Limit: homeLatestPosts})
	if err != nil {
		return nil, fmt.Errorf("latest posts: %w", err)
	}
	productFilter := commerce.ApprovedProducts()
	productFilter.Limit = homeLatestProducts
	products, err := s.products.FindAll(ctx, productFilter)
	if err != nil {
		return nil, fmt.Errorf("latest products: %w", err)
	}

	users, err := s.reports.UserTotals(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("user totals: %w", err)
	}
	productTotals, err := s.reports.ProductTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}
	postCount, err := s.reports.PostCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("post count: %w", err)
	}

	return &HomeStats{
		LatestPosts:         contentapp.ToPostViews(posts),
		LatestProducts:      commerceapp.ToProductViews(products),
		TotalUsers:          users.Total,
		ApprovedConsultants: users.ApprovedConsultants,
		TotalPosts:          postCount,
		ApprovedProducts:    productTotals.Approved,
	}, nil
}

// UserDashboard returns the caller's own activity summary
func (s *ReportService) UserDashboard(ctx context.Context, user identity.Actor) (*UserDashboard, error) {
	if err := user.RequireAuthenticated(); err != nil {
		return nil, err
	}
	userID := user.UserID

	postCount, err := s.posts.Count(ctx, content.PostFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	productCount, err := s.products.Count(ctx, commerce.ProductFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	orderCount, err := s.orders.Count(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	posts, err := s.posts.FindAll(ctx, content.PostFilter{UserID: &userID, SortBy: content.PostSortDate, Limit: dashboardRecent})
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	products, err := s.products.FindAll(ctx, commerce.ProductFilter{UserID: &userID, Limit: dashboardRecent})
	if err != nil {
		return nil, fmt.Errorf("recent products: %w", err)
	}

	return &UserDashboard{
		PostCount:      postCount,
		ProductCount:   productCount,
		OrderCount:     orderCount,
		RecentPosts:    contentapp.ToPostViews(posts),
		RecentProducts: commerceapp.ToProductViews(products),
	}, nil
}
