// Package commerce implements the marketplace: listings, cart and checkout.
package commerce

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Image upload settings
const (
	ImageUploadTTL   = 15 * time.Minute
	ImageDownloadTTL = time.Hour
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// CategoryResolver loads a category and checks its type
type CategoryResolver interface {
	ResolveCategory(ctx context.Context, id uuid.UUID, expected taxonomy.CategoryType) (*taxonomy.Category, error)
}

// ImageStorage issues presigned URLs for product images
type ImageStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ProductService handles marketplace listings
type ProductService struct {
	products   commerce.ProductRepository
	categories CategoryResolver
	images     ImageStorage
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewProductService creates a new product service. images may be nil when
// object storage is not configured.
func NewProductService(
	products commerce.ProductRepository,
	categories CategoryResolver,
	images ImageStorage,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		images:     images,
		events:     events,
		logger:     logger.Named("marketplace"),
	}
}

// ListProduct creates a listing. Admin listings are approved immediately.
func (s *ProductService) ListProduct(ctx context.Context, seller identity.Actor, input ListProductInput) (*ProductView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commerce", "list_product")
	defer span.End()

	if err := seller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	category, err := s.categories.ResolveCategory(ctx, input.CategoryID, taxonomy.CategoryTypeProduct)
	if err != nil {
		return nil, err
	}

	product, err := commerce.NewProduct(seller, commerce.ProductDetails{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
	}, category)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create product: %w", err)
	}
	publishEvents(ctx, s.events, product)

	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String(), telemetry.SpanAttrAmount, product.Price.String())
	logger.L(ctx).Info("Product listed",
		zap.String("product_id", product.ID.String()),
		zap.Bool("approved", product.IsApproved),
	)

	view := ToProductView(product)
	return &view, nil
}

// ApproveProduct makes a listing visible in the marketplace. Admin only.
func (s *ProductService) ApproveProduct(ctx context.Context, admin identity.Actor, productID uuid.UUID) (*ProductView, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	var (
		product *commerce.Product
		changed bool
	)
	err := shared.RetryOnConflict(func(int) error {
		var err error
		if product, err = s.products.FindByID(ctx, productID); err != nil {
			return err
		}
		changed = !product.IsApproved
		if err := product.Approve(admin); err != nil || !changed {
			return err
		}
		return s.products.Update(ctx, product)
	})
	if err != nil {
		if shared.IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("approve product: %w", err)
	}
	if changed {
		publishEvents(ctx, s.events, product)
		logger.L(ctx).Info("Product approved", zap.String("product_id", product.ID.String()))
	}

	view := ToProductView(product)
	return &view, nil
}

// ListMarketplace lists approved products, newest first
func (s *ProductService) ListMarketplace(ctx context.Context, categoryID *uuid.UUID) ([]ProductView, error) {
	filter := commerce.ApprovedProducts()
	filter.CategoryID = categoryID
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list marketplace: %w", err)
	}
	return ToProductViews(products), nil
}

// ListAllProducts lists every product including pending ones. Admin only.
func (s *ProductService) ListAllProducts(ctx context.Context, admin identity.Actor) ([]ProductView, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	products, err := s.products.FindAll(ctx, commerce.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ToProductViews(products), nil
}

// GetProduct returns one product. Pending listings are only visible to
// their seller and admins.
func (s *ProductService) GetProduct(ctx context.Context, actor identity.Actor, productID uuid.UUID) (*ProductView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.VisibleTo(actor) {
		return nil, shared.NewNotFoundError("Product")
	}

	view := ToProductView(product)
	if product.ImageKey != "" && s.images != nil {
		url, _, err := s.images.GenerateDownloadURL(ctx, product.ImageKey, ImageDownloadTTL)
		if err != nil {
			logger.L(ctx).Warn("Failed to presign product image", zap.Error(err))
		} else {
			view.ImageURL = url
		}
	}
	return &view, nil
}

// RequestImageUpload reserves an object key for the product image and
// returns a presigned PUT URL. Only the seller or an admin may call it.
func (s *ProductService) RequestImageUpload(ctx context.Context, actor identity.Actor, productID uuid.UUID, contentType string) (*ImageUploadView, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Image uploads are not configured")
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, shared.NewValidationError("Content type must be image/jpeg, image/png or image/webp")
	}

	key := path.Join("products", productID.String(), uuid.NewString()+ext)
	err := shared.RetryOnConflict(func(int) error {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if !product.VisibleTo(actor) {
			return shared.NewNotFoundError("Product")
		}
		if err := product.AttachImage(actor, key); err != nil {
			return err
		}
		return s.products.Update(ctx, product)
	})
	if err != nil {
		if shared.IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("save image key: %w", err)
	}

	url, expiresAt, err := s.images.GenerateUploadURL(ctx, key, contentType, ImageUploadTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	logger.L(ctx).Info("Product image upload requested", zap.String("product_id", productID.String()), zap.String("key", key))
	return &ImageUploadView{Key: key, UploadURL: url, Method: "PUT", ExpiresAt: expiresAt}, nil
}

// publishEvents hands the aggregate's pending events to the bus and clears them
func publishEvents(ctx context.Context, events shared.EventPublisher, agg shared.AggregateRoot) {
	pending := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if events == nil || len(pending) == 0 {
		return
	}
	publish(ctx, events, pending...)
}

func publish(ctx context.Context, events shared.EventPublisher, pending ...shared.DomainEvent) {
	if err := events.Publish(ctx, pending...); err != nil {
		logger.L(ctx).Warn("Failed to publish domain events", zap.Error(err))
	}
}
