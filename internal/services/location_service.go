package services

import (
	"context"

	"invoptimizer/internal/models"
	"invoptimizer/internal/repositories"
	"invoptimizer/pkg/logger"

	"github.com/google/uuid"
)

type LocationService interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Location, error)
}

type locationService struct {
	locationRepo repositories.LocationRepository
	notifier     ChangeNotifier
	log          *logger.Logger
}

func NewLocationService(locationRepo repositories.LocationRepository, notifier ChangeNotifier, log *logger.Logger) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		notifier:     notifier,
		log:          log.WithComponent("location-service"),
	}
}

func (s *locationService) Create(ctx context.Context, location *models.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	location.ID = uuid.New()
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return translate(err, "location", location.ID)
	}

	s.log.Infow("location created", "location_id", location.ID, "name", location.Name)
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *locationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "location", id)
	}
	return location, nil
}

func (s *locationService) Update(ctx context.Context, location *models.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return translate(err, "location", location.ID)
	}

	// Names appear in the distribution.
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *locationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return translate(err, "location", id)
	}

	s.log.Infow("location deleted", "location_id", id)
	s.notifier.NotifyChange(ctx)
	return nil
}

func (s *locationService) List(ctx context.Context, limit, offset int) ([]*models.Location, error) {
	locations, err := s.locationRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, translate(err, "location", nil)
	}
	return locations, nil
}
