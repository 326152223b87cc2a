package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/caching"
	"invoptimizer/internal/models"
	"invoptimizer/internal/repositories"
	"invoptimizer/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const inventoryCacheTTL = 5 * time.Minute

type InventoryService interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.InventoryFilter) ([]*models.InventoryItem, error)
	AdjustStock(ctx context.Context, id uuid.UUID, quantityChange int) (*models.InventoryItem, error)
	BulkAdjustStock(ctx context.Context, bulkAdjust *models.InventoryBulkAdjust) (*models.BulkOperationResult, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	productRepo   repositories.ProductRepository
	locationRepo  repositories.LocationRepository
	cacheService  caching.CacheService
	notifier      ChangeNotifier
	log           *logger.Logger
	now           func() time.Time
}

// NewInventoryService wires the service. cacheService may be nil.
func NewInventoryService(
	inventoryRepo repositories.InventoryRepository,
	productRepo repositories.ProductRepository,
	locationRepo repositories.LocationRepository,
	cacheService caching.CacheService,
	notifier ChangeNotifier,
	log *logger.Logger,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		cacheService:  cacheService,
		notifier:      notifier,
		log:           log.WithComponent("inventory-service"),
		now:           time.Now,
	}
}

func (s *inventoryService) Create(ctx context.Context, item *models.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.ensureReferences(ctx, item.ProductID, item.LocationID); err != nil {
		return err
	}

	existing, err := s.inventoryRepo.GetByLocationAndProduct(ctx, item.LocationID, item.ProductID)
	if err == nil {
		return apperror.NewConflict("location already stocks this product").
			WithDetail("item_id", existing.ID)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return translate(err, "inventory item", nil)
	}

	item.ID = uuid.New()
	if item.Quantity > 0 && item.LastRestocked == nil {
		restocked := s.now().UTC()
		item.LastRestocked = &restocked
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return translate(err, "inventory item", item.ID)
	}

	s.log.Infow("inventory item created",
		"item_id", item.ID, "product_id", item.ProductID, "location_id", item.LocationID, "quantity", item.Quantity)
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if s.cacheService != nil {
		cached, err := s.cacheService.GetInventory(ctx, id)
		if err != nil {
			// cache errors never fail the read
			s.log.Warnw("inventory cache read failed", "item_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "inventory item", id)
	}

	if s.cacheService != nil {
		if err := s.cacheService.SetInventory(ctx, item, inventoryCacheTTL); err != nil {
			s.log.Warnw("inventory cache write failed", "item_id", id, "error", err)
		}
	}
	return item, nil
}

// Update changes quantity and thresholds. Product and location are fixed at creation.
func (s *inventoryService) Update(ctx context.Context, item *models.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	existing, err := s.inventoryRepo.GetByID(ctx, item.ID)
	if err != nil {
		return translate(err, "inventory item", item.ID)
	}
	item.ProductID = existing.ProductID
	item.LocationID = existing.LocationID
	item.LastRestocked = existing.LastRestocked
	if item.Quantity > existing.Quantity {
		restocked := s.now().UTC()
		item.LastRestocked = &restocked
	}

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return translate(err, "inventory item", item.ID)
	}
	s.changed(ctx, item.ID)
	return nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return translate(err, "inventory item", id)
	}
	s.log.Infow("inventory item deleted", "item_id", id)
	s.changed(ctx, id)
	return nil
}

func (s *inventoryService) List(ctx context.Context, filter models.InventoryFilter) ([]*models.InventoryItem, error) {
	if filter.Level != nil && !filter.Level.Valid() {
		return nil, apperror.NewFieldValidation("level", "unknown stock level").
			WithDetail("level", string(*filter.Level))
	}
	items, err := s.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, translate(err, "inventory item", nil)
	}
	return items, nil
}

// AdjustStock adds quantityChange, which may be negative, to the item's quantity.
// Stock never goes below zero.
func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, quantityChange int) (*models.InventoryItem, error) {
	if quantityChange == 0 {
		return nil, apperror.NewFieldValidation("quantity_change", "quantity change must not be zero")
	}

	current, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "inventory item", id)
	}

	item, err := s.inventoryRepo.AdjustQuantity(ctx, id, quantityChange)
	if errors.Is(err, repositories.ErrInsufficientStock) {
		return nil, apperror.NewInsufficientStock(current.ProductID, current.LocationID, -quantityChange).
			WithDetail("item_id", id)
	}
	if err != nil {
		return nil, translate(err, "inventory item", id)
	}

	s.log.Infow("stock adjusted", "item_id", id, "change", quantityChange, "quantity", item.Quantity)
	s.changed(ctx, id)
	return item, nil
}

// BulkAdjustStock applies each adjustment on its own. A missing (location, product)
// pair is created for additions and rejected for deductions.
func (s *inventoryService) BulkAdjustStock(ctx context.Context, bulkAdjust *models.InventoryBulkAdjust) (*models.BulkOperationResult, error) {
	if len(bulkAdjust.Adjustments) == 0 {
		return nil, apperror.NewFieldValidation("adjustments", "at least one adjustment is required")
	}

	start := s.now().UTC()
	result := &models.BulkOperationResult{
		OperationID: fmt.Sprintf("bulk_adjust_stock_%d", start.UnixNano()),
		TotalItems:  len(bulkAdjust.Adjustments),
		StartTime:   start,
	}

	for i, adj := range bulkAdjust.Adjustments {
		if err := s.applyAdjustment(ctx, adj); err != nil {
			result.FailedItems++
			code := apperror.CodeInternal
			if appErr, ok := apperror.As(err); ok {
				code = appErr.Code
			}
			result.Errors = append(result.Errors, models.BulkOperationError{
				ItemIndex: i,
				Code:      code,
				Error:     err.Error(),
			})
			continue
		}
		result.ProcessedItems++
	}
	result.Finish(s.now().UTC())

	s.log.Infow("bulk stock adjustment finished",
		"operation_id", result.OperationID, "processed", result.ProcessedItems, "failed", result.FailedItems)
	if result.ProcessedItems > 0 {
		s.notifier.NotifyChange(ctx)
	}
	return result, nil
}

func (s *inventoryService) applyAdjustment(ctx context.Context, adj models.InventoryAdjustment) error {
	if adj.QuantityChange == 0 {
		return apperror.NewFieldValidation("quantity_change", "quantity change must not be zero")
	}

	item, err := s.inventoryRepo.GetByLocationAndProduct(ctx, adj.LocationID, adj.ProductID)
	if errors.Is(err, pgx.ErrNoRows) {
		if adj.QuantityChange < 0 {
			return apperror.NewInsufficientStock(adj.ProductID, adj.LocationID, -adj.QuantityChange)
		}
		if err := s.ensureReferences(ctx, adj.ProductID, adj.LocationID); err != nil {
			return err
		}
		restocked := s.now().UTC()
		return translate(s.inventoryRepo.Create(ctx, &models.InventoryItem{
			ID:            uuid.New(),
			ProductID:     adj.ProductID,
			LocationID:    adj.LocationID,
			Quantity:      adj.QuantityChange,
			MaxThreshold:  adj.QuantityChange,
			LastRestocked: &restocked,
		}), "inventory item", nil)
	}
	if err != nil {
		return translate(err, "inventory item", nil)
	}

	_, err = s.inventoryRepo.AdjustQuantity(ctx, item.ID, adj.QuantityChange)
	if errors.Is(err, repositories.ErrInsufficientStock) {
		return apperror.NewInsufficientStock(adj.ProductID, adj.LocationID, -adj.QuantityChange)
	}
	if err != nil {
		return translate(err, "inventory item", item.ID)
	}
	s.dropCached(ctx, item.ID)
	return nil
}

func (s *inventoryService) ensureReferences(ctx context.Context, productID, locationID uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return unknownReference(err, "product_id", productID)
	}
	if _, err := s.locationRepo.GetByID(ctx, locationID); err != nil {
		return unknownReference(err, "location_id", locationID)
	}
	return nil
}

func (s *inventoryService) changed(ctx context.Context, id uuid.UUID) {
	s.dropCached(ctx, id)
	s.notifier.NotifyChange(ctx)
}

func (s *inventoryService) dropCached(ctx context.Context, id uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeleteInventory(ctx, id); err != nil {
		s.log.Warnw("inventory cache invalidation failed", "item_id", id, "error", err)
	}
}
