package service

import (
	"context"
	"errors"

	catalogerrors "slotline/internal/catalog/errors"
	"slotline/internal/catalog/repository"
	"slotline/internal/catalog/validator"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
	"slotline/pkg/sanitizer"
)

type CatalogService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*model.Service, error)
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindByType(ctx context.Context, serviceType model.ServiceType) ([]*model.Service, error)
	FindAll(ctx context.Context) ([]*model.Service, error)
	ServiceTypes() []model.ServiceType
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(
	repo repository.ServiceRepository,
	v *validator.ServiceValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *catalogService) Register(ctx context.Context, req *validator.RegisterRequest) (*model.Service, error) {
	req.Name = sanitizer.TrimAndNormalize(req.Name)
	req.Description = sanitizer.TrimAndNormalize(req.Description)

	serviceType, err := s.validator.ValidateRegister(req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Service validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("Failed to validate service", err)
	}

	if existing, err := s.repo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, apperrors.Conflict("A service with this name already exists")
	}

	svc, err := model.NewService(req.Name, req.Description, req.DurationMinutes, req.Price, serviceType)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service registered",
		"service_id", svc.ID,
		"name", svc.Name,
		"type", svc.Type,
		"duration_minutes", svc.DurationMinutes,
	)
	return svc, nil
}

func (s *catalogService) FindByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.ServiceNotFound(id)
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}
	return svc, nil
}

func (s *catalogService) FindByType(ctx context.Context, serviceType model.ServiceType) ([]*model.Service, error) {
	if !serviceType.Valid() {
		return nil, apperrors.InvalidInput("Unknown service type")
	}

	services, err := s.repo.FindByType(ctx, serviceType)
	if err != nil {
		return nil, apperrors.Internal("Failed to list services", err)
	}
	return services, nil
}

func (s *catalogService) FindAll(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list services", err)
	}
	return services, nil
}

func (s *catalogService) ServiceTypes() []model.ServiceType {
	return model.ServiceTypes()
}
