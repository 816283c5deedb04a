package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/internal/event"
	"github.com/pawmart/PetShopGo/internal/repository"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// slugRegexp matches characters not allowed in a slug.
var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// maxFilterScan bounds how many products the in-memory filter pipeline will
// pull from the store when badge or bucket filters are active. Those
// dimensions are derived per product and cannot be pushed into SQL.
const maxFilterScan = 500

// CatalogService implements the business logic for the product catalog:
// uploads, updates, and the annotated store listing.
type CatalogService struct {
	products repository.ProductRepository
	ratings  repository.RatingRepository
	comments repository.CommentRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	ratings repository.RatingRepository,
	comments repository.CommentRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		ratings:  ratings,
		comments: comments,
		producer: producer,
		logger:   logger,
	}
}

// UploadProductInput holds the parameters for uploading a product.
type UploadProductInput struct {
	Name        string
	Description string
	Price       int64
	ImageURL    string
	Category    string
	Stock       int
	MaxStock    *int
	OwnerUID    string
	OwnerName   string
	OwnerHandle string
}

// UpdateProductInput holds the parameters for a partial product update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *int64
	ImageURL    *string
	Category    *string
	Stock       *int
	MaxStock    *int
}

// ListProductsInput combines store-level filtering with the derived filter
// dimensions applied over the annotated list.
type ListProductsInput struct {
	Filter    repository.ProductFilter
	Selection domain.FilterSelection
}

// ListProductsResult is a page of annotated products plus the total match count.
type ListProductsResult struct {
	Products   []domain.AnnotatedProduct
	TotalCount int
	Page       int
	PerPage    int
	TotalPages int
}

// UploadProduct creates a new product, or restocks the existing product when
// one with the same name already exists: the uploaded stock is added to it
// and the rest of the upload is ignored.
func (s *CatalogService) UploadProduct(ctx context.Context, input *UploadProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}
	if input.OwnerUID == "" {
		return nil, apperrors.InvalidInput("owner uid is required")
	}

	existing, err := s.products.GetByName(ctx, input.Name)
	if err == nil {
		return s.restock(ctx, existing, input.Stock)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get product by name: %w", err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        generateSlug(input.Name),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Stock:       input.Stock,
		MaxStock:    input.MaxStock,
		OwnerUID:    input.OwnerUID,
		OwnerName:   input.OwnerName,
		OwnerHandle: input.OwnerHandle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// restock adds quantity to an existing product's stock.
func (s *CatalogService) restock(ctx context.Context, product *domain.Product, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.AlreadyExists("product", "name", product.Name)
	}

	if err := s.products.AdjustStock(ctx, product.ID, quantity); err != nil {
		return nil, fmt.Errorf("restock product: %w", err)
	}
	product.Stock += quantity

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product restocked",
		slog.String("product_id", product.ID),
		slog.Int("added", quantity),
		slog.Int("stock", product.Stock),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetAnnotatedProduct retrieves a product and derives its stats, badge, and
// display rating for the detail page.
func (s *CatalogService) GetAnnotatedProduct(ctx context.Context, id string) (*domain.AnnotatedProduct, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	ratings, err := s.ratings.ListByProductID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	comments, err := s.comments.ListByProductID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	annotated := annotate(*product, domain.ComputeStats(id, ratings, comments), time.Now().UTC())
	return &annotated, nil
}

// ListProducts returns a filtered, paginated, annotated product listing.
// Category, owner, search, and sort are pushed into the store query; badge
// and rating-bucket filters are evaluated over the annotated results.
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsResult, error) {
	filter := input.Filter
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	page, perPage := filter.Page, filter.PerPage
	derived := !input.Selection.IsEmpty()
	if derived {
		// Derived dimensions need the whole candidate set before slicing
		// a page out of it.
		filter.Page = 1
		filter.PerPage = maxFilterScan
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	annotated, err := s.annotateAll(ctx, products)
	if err != nil {
		return nil, err
	}

	if derived {
		annotated = domain.FilterProducts(annotated, input.Selection)
		total = len(annotated)
		annotated = slicePage(annotated, page, perPage)
	}

	return &ListProductsResult{
		Products:   annotated,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// ListOwnerProducts returns every product of one owner, annotated, for the
// seller dashboard.
func (s *CatalogService) ListOwnerProducts(ctx context.Context, ownerUID string) ([]domain.AnnotatedProduct, error) {
	if ownerUID == "" {
		return nil, apperrors.InvalidInput("owner uid is required")
	}

	filter := repository.ProductFilter{
		OwnerUID: &ownerUID,
		SortBy:   domain.SortByNewest,
		Page:     1,
		PerPage:  maxFilterScan,
	}

	products, _, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list owner products: %w", err)
	}

	return s.annotateAll(ctx, products)
}

// ListCategories returns the distinct categories present in the catalog.
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FilterOptions are the selectable values for each filter dimension, derived
// from the current catalog.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Owners     []string `json:"owners"`
	Badges     []string `json:"badges"`
	Buckets    []string `json:"rating_buckets"`
}

// ListFilterOptions derives the selectable filter values from the catalog:
// its categories, its owners' display names, and the badges currently in use.
func (s *CatalogService) ListFilterOptions(ctx context.Context) (*FilterOptions, error) {
	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	filter := repository.ProductFilter{Page: 1, PerPage: maxFilterScan}
	products, _, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	annotated, err := s.annotateAll(ctx, products)
	if err != nil {
		return nil, err
	}

	ownerSeen := make(map[string]struct{})
	badgeSeen := make(map[string]struct{})
	owners := []string{}
	badges := []string{}
	for _, a := range annotated {
		if _, ok := ownerSeen[a.OwnerName]; !ok {
			ownerSeen[a.OwnerName] = struct{}{}
			owners = append(owners, a.OwnerName)
		}
		if _, ok := badgeSeen[a.Badge]; !ok {
			badgeSeen[a.Badge] = struct{}{}
			badges = append(badges, a.Badge)
		}
	}

	return &FilterOptions{
		Categories: categories,
		Owners:     owners,
		Badges:     badges,
		Buckets:    domain.ValidRatingBuckets(),
	}, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
		product.Slug = generateSlug(*input.Name)
	}

	if input.Description != nil {
		product.Description = *input.Description
	}

	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperrors.InvalidInput("price must be positive")
		}
		product.Price = *input.Price
	}

	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if input.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*input.Category))
	}

	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		product.Stock = *input.Stock
	}

	if input.MaxStock != nil {
		product.MaxStock = input.MaxStock
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	// Verify the product exists before deleting.
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// annotateAll batch-loads ratings and comments for the given products and
// derives stats, badge, display rating, and owner name for each.
func (s *CatalogService) annotateAll(ctx context.Context, products []domain.Product) ([]domain.AnnotatedProduct, error) {
	productIDs := make([]string, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}

	ratings, err := s.ratings.ListByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	comments, err := s.comments.ListByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	statsByProduct := domain.ComputeStatsByProduct(ratings, comments)
	now := time.Now().UTC()

	annotated := make([]domain.AnnotatedProduct, len(products))
	for i, p := range products {
		stats, ok := statsByProduct[p.ID]
		if !ok {
			stats = domain.RatingStats{ProductID: p.ID}
		}
		annotated[i] = annotate(p, stats, now)
	}
	return annotated, nil
}

// annotate derives the presentation fields for one product.
func annotate(p domain.Product, stats domain.RatingStats, now time.Time) domain.AnnotatedProduct {
	return domain.AnnotatedProduct{
		Product:   p,
		Stats:     stats,
		Badge:     domain.AssignBadge(stats, p.Category, p.CreatedAt, now),
		Display:   domain.ComputeDisplayRating(stats),
		OwnerName: domain.ResolveOwnerName(p),
	}
}

// slicePage cuts one page out of the filtered result set.
func slicePage(products []domain.AnnotatedProduct, page, perPage int) []domain.AnnotatedProduct {
	start := (page - 1) * perPage
	if start >= len(products) {
		return []domain.AnnotatedProduct{}
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// totalPages computes the page count for a total at the given page size.
func totalPages(total, perPage int) int {
	if total == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// generateSlug creates a URL-friendly slug from the given name.
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRegexp.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}
