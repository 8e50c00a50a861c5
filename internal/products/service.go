package products

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/productflow/internal/domain"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		s.logger.Warn("product not found", "product_id", id)
		return nil, domain.NewNotFoundError("Product", id)
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, params domain.PaginationParams) (*domain.PagedResponse[domain.Product], error) {
	if verr := params.Validate(); verr != nil {
		s.logger.Warn("invalid pagination parameters", "error", verr)
		return nil, verr
	}

	totalCount, err := s.repo.GetTotalCount(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetPaged(ctx, params.PageNumber, params.PageSize)
	if err != nil {
		return nil, err
	}

	response := domain.NewPagedResponse(items, params, totalCount)
	return &response, nil
}

func (s *Service) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if violations := ValidateProduct(product); len(violations) > 0 {
		verr := domain.NewValidationError(violations...)
		s.logger.Warn("product validation failed", "error", verr)
		return nil, verr
	}

	product.ID = uuid.New().String()
	product.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

func (s *Service) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if violations := ValidateProduct(product); len(violations) > 0 {
		verr := domain.NewValidationError(violations...)
		s.logger.Warn("product validation failed", "product_id", product.ID, "error", verr)
		return nil, verr
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "product_id", product.ID)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.Warn("product not found", "product_id", id)
		return domain.NewNotFoundError("Product", id)
	}

	s.logger.Info("product deleted", "product_id", id)
	return nil
}
