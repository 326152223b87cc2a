package services

import (
	"context"
	"errors"
	"strings"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/models"
	"invoptimizer/internal/repositories"
	"invoptimizer/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	notifier     ChangeNotifier
	log          *logger.Logger
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, notifier ChangeNotifier, log *logger.Logger) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier,
		log:          log.WithComponent("product-service"),
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	product.SKU = strings.TrimSpace(product.SKU)
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.ensureSKUFree(ctx, product.SKU, uuid.Nil); err != nil {
		return err
	}
	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return err
	}

	product.ID = uuid.New()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return translate(err, "product", product.ID)
	}

	s.log.Infow("product created", "product_id", product.ID, "sku", product.SKU)
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product", id)
	}
	return product, nil
}

func (s *productService) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	product, err := s.productRepo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, translate(err, "product", sku)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	product.SKU = strings.TrimSpace(product.SKU)
	if err := product.Validate(); err != nil {
		return err
	}

	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return translate(err, "product", product.ID)
	}
	if existing.SKU != product.SKU {
		if err := s.ensureSKUFree(ctx, product.SKU, product.ID); err != nil {
			return err
		}
	}
	if !sameCategory(existing.CategoryID, product.CategoryID) {
		if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
			return err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return translate(err, "product", product.ID)
	}
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return translate(err, "product", id)
	}

	s.log.Infow("product deleted", "product_id", id)
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, translate(err, "product", nil)
	}
	return products, nil
}

func (s *productService) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return apperror.NewFieldValidation("name", "category name is required")
	}

	category.ID = uuid.New()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return translate(err, "category", category.ID)
	}
	return nil
}

func (s *productService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.All(ctx)
	if err != nil {
		return nil, translate(err, "category", nil)
	}
	return categories, nil
}

// ensureSKUFree fails unless sku is unused or used by self.
func (s *productService) ensureSKUFree(ctx context.Context, sku string, self uuid.UUID) error {
	other, err := s.productRepo.GetBySKU(ctx, sku)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case err != nil:
		return translate(err, "product", sku)
	case other.ID == self:
		return nil
	}
	return apperror.NewConflict("sku already in use").
		WithDetail("sku", sku).
		WithDetail("product_id", other.ID)
}

// ensureCategory accepts nil as "uncategorised".
func (s *productService) ensureCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.categoryRepo.GetByID(ctx, *categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewFieldValidation("category_id", "unknown category").
			WithDetail("category_id", *categoryID)
	}
	if err != nil {
		return translate(err, "category", *categoryID)
	}
	return nil
}

func sameCategory(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
