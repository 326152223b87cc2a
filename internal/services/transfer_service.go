package services

import (
	"context"
	"errors"
	"time"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/caching"
	"invoptimizer/internal/models"
	"invoptimizer/internal/repositories"
	"invoptimizer/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransferService interface {
	// Create starts a pending transfer after checking the product, both locations
	// and the stock currently held at the source.
	Create(ctx context.Context, productID, fromLocationID, toLocationID uuid.UUID, quantity int) (*models.Transfer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	List(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error)
	// Transition moves a transfer to next. Completing it moves the stock.
	Transition(ctx context.Context, id uuid.UUID, next models.TransferStatus) (*models.Transfer, error)
}

type transferService struct {
	transferRepo  repositories.TransferRepository
	inventoryRepo repositories.InventoryRepository
	productRepo   repositories.ProductRepository
	locationRepo  repositories.LocationRepository
	cacheService  caching.CacheService
	notifier      ChangeNotifier
	log           *logger.Logger
	now           func() time.Time
}

// NewTransferService wires the service. cacheService may be nil.
func NewTransferService(
	transferRepo repositories.TransferRepository,
	inventoryRepo repositories.InventoryRepository,
	productRepo repositories.ProductRepository,
	locationRepo repositories.LocationRepository,
	cacheService caching.CacheService,
	notifier ChangeNotifier,
	log *logger.Logger,
) TransferService {
	return &transferService{
		transferRepo:  transferRepo,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		cacheService:  cacheService,
		notifier:      notifier,
		log:           log.WithComponent("transfer-service"),
		now:           time.Now,
	}
}

func (s *transferService) Create(ctx context.Context, productID, fromLocationID, toLocationID uuid.UUID, quantity int) (*models.Transfer, error) {
	transfer := models.NewTransfer(productID, fromLocationID, toLocationID, quantity, s.now().UTC())
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, unknownReference(err, "product_id", productID)
	}
	if _, err := s.locationRepo.GetByID(ctx, fromLocationID); err != nil {
		return nil, unknownReference(err, "from_location_id", fromLocationID)
	}
	if _, err := s.locationRepo.GetByID(ctx, toLocationID); err != nil {
		return nil, unknownReference(err, "to_location_id", toLocationID)
	}

	source, err := s.inventoryRepo.GetByLocationAndProduct(ctx, fromLocationID, productID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperror.NewInsufficientStock(productID, fromLocationID, quantity).WithDetail("available", 0)
	case err != nil:
		return nil, translate(err, "inventory item", nil)
	case source.Quantity < quantity:
		return nil, apperror.NewInsufficientStock(productID, fromLocationID, quantity).
			WithDetail("available", source.Quantity)
	}

	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, translate(err, "transfer", transfer.ID)
	}

	s.log.Infow("transfer created",
		"transfer_id", transfer.ID,
		"product_id", productID,
		"from_location_id", fromLocationID,
		"to_location_id", toLocationID,
		"quantity", quantity)
	s.notifier.NotifyChange(ctx)
	return transfer, nil
}

func (s *transferService) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "transfer", id)
	}
	return transfer, nil
}

func (s *transferService) List(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.NewFieldValidation("status", "unknown transfer status").
			WithDetail("status", string(*filter.Status))
	}
	transfers, err := s.transferRepo.List(ctx, filter)
	if err != nil {
		return nil, translate(err, "transfer", nil)
	}
	return transfers, nil
}

func (s *transferService) Transition(ctx context.Context, id uuid.UUID, next models.TransferStatus) (*models.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "transfer", id)
	}

	from := transfer.Status
	if err := transfer.TransitionTo(next, s.now().UTC()); err != nil {
		return nil, err
	}

	if next == models.TransferCompleted {
		err = s.transferRepo.Complete(ctx, transfer)
	} else {
		err = s.transferRepo.UpdateStatus(ctx, transfer, from)
	}
	switch {
	case errors.Is(err, repositories.ErrStaleStatus):
		return nil, apperror.NewConflict("transfer status changed concurrently").
			WithDetail("transfer_id", id).
			WithDetail("expected_status", string(from))
	case errors.Is(err, repositories.ErrInsufficientStock):
		return nil, apperror.NewInsufficientStock(transfer.ProductID, transfer.FromLocationID, transfer.Quantity).
			WithDetail("transfer_id", id)
	case err != nil:
		return nil, translate(err, "transfer", id)
	}

	if next == models.TransferCompleted {
		s.dropCachedItems(ctx, transfer)
	}
	s.log.Infow("transfer status changed", "transfer_id", id, "from", from, "to", next)
	s.notifier.NotifyChange(ctx)
	return transfer, nil
}

// dropCachedItems evicts the source and destination items a completed transfer changed.
func (s *transferService) dropCachedItems(ctx context.Context, transfer *models.Transfer) {
	if s.cacheService == nil {
		return
	}
	for _, locationID := range []uuid.UUID{transfer.FromLocationID, transfer.ToLocationID} {
		item, err := s.inventoryRepo.GetByLocationAndProduct(ctx, locationID, transfer.ProductID)
		if err != nil {
			s.log.Warnw("inventory item lookup for cache eviction failed",
				"transfer_id", transfer.ID, "location_id", locationID, "error", err)
			continue
		}
		if err := s.cacheService.DeleteInventory(ctx, item.ID); err != nil {
			s.log.Warnw("inventory cache invalidation failed", "item_id", item.ID, "error", err)
		}
	}
}

// unknownReference reports a missing referenced row as a validation error on field.
func unknownReference(err error, field string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewFieldValidation(field, "referenced record does not exist").WithDetail(field, id)
	}
	return translate(err, field, id)
}
