package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/productflow/internal/domain"
	"github.com/joao-fontenele/productflow/internal/notify"
	"github.com/joao-fontenele/productflow/internal/products"
	"github.com/joao-fontenele/productflow/internal/telemetry"
)

type CreateOrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	Items         []CreateOrderItem `json:"items"`
}

// Service orchestrates the order workflow: resolving line items against live
// product stock, computing totals, validating, persisting, and broadcasting.
type Service struct {
	repo        Repository
	productRepo products.Repository
	notifier    notify.Notifier
	logger      *slog.Logger
	metrics     *telemetry.OrderMetrics
}

func NewService(repo Repository, productRepo products.Repository, notifier notify.Notifier, logger *slog.Logger, metrics *telemetry.OrderMetrics) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
	}
}

// Create assembles and persists a new order. Line items are resolved
// sequentially in the order the caller gave them, each snapshotting the
// product's current price. Persistence and stock decrements happen in one
// transaction, so a failure at any point leaves no partial order and no
// leaked decrement.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New().String(),
		OrderDate:     now,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        domain.OrderStatusPending,
		TotalAmount:   decimal.Zero,
		Items:         []domain.OrderItem{},
		CreatedAt:     now,
	}

	s.logger.Info("creating order", "order_id", order.ID, "item_count", len(req.Items))

	for i, reqItem := range req.Items {
		product, err := s.productRepo.GetByID(ctx, reqItem.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", reqItem.ProductID, err)
		}
		if product == nil {
			s.logger.Warn("product not found", "order_id", order.ID, "product_id", reqItem.ProductID)
			return nil, domain.NewNotFoundError("Product", reqItem.ProductID)
		}

		if product.StockQuantity < reqItem.Quantity {
			s.logger.Warn("insufficient stock",
				"order_id", order.ID,
				"product_id", product.ID,
				"available", product.StockQuantity,
				"requested", reqItem.Quantity,
			)
			if s.metrics != nil {
				s.metrics.StockConflicts.Add(ctx, 1)
			}
			return nil, insufficientStockError(i, product.Name, product.StockQuantity, reqItem.Quantity)
		}

		item := domain.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    reqItem.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(reqItem.Quantity))),
		}

		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(item.TotalPrice)
	}

	if violations := ValidateOrder(order); len(violations) > 0 {
		verr := domain.NewValidationError(violations...)
		s.logger.Warn("order validation failed", "order_id", order.ID, "error", verr)
		return nil, verr
	}

	if err := s.repo.Create(ctx, order); err != nil {
		var conflict *StockConflictError
		if errors.As(err, &conflict) {
			// A concurrent order won the race between our stock read and
			// the guarded decrement.
			s.logger.Warn("stock conflict during commit",
				"order_id", order.ID,
				"product_id", conflict.ProductID,
				"available", conflict.Available,
				"requested", conflict.Requested,
			)
			if s.metrics != nil {
				s.metrics.StockConflicts.Add(ctx, 1)
			}
			return nil, domain.NewValidationError(domain.Violation{
				Field:   "items",
				Message: conflict.Error(),
			})
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Add(ctx, 1)
	}

	if err := s.notifier.OrderCreated(ctx, order); err != nil {
		s.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"customer_email", order.CustomerEmail,
		"total_amount", order.TotalAmount.String(),
	)
	return order, nil
}

// UpdateStatus sets a new status on an existing order. Transitions are not
// restricted; any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		s.logger.Warn("order not found", "order_id", id)
		return nil, domain.NewNotFoundError("Order", id)
	}

	order.Status = status

	if violations := ValidateOrder(order); len(violations) > 0 {
		verr := domain.NewValidationError(violations...)
		s.logger.Warn("order validation failed", "order_id", order.ID, "error", verr)
		return nil, verr
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.StatusUpdates.Add(ctx, 1)
	}

	if err := s.notifier.OrderStatusUpdated(ctx, order); err != nil {
		s.logger.Error("failed to publish order status updated event", "error", err, "order_id", order.ID)
	}

	s.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		s.logger.Warn("order not found", "order_id", id)
		return nil, domain.NewNotFoundError("Order", id)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, params domain.PaginationParams) (*domain.PagedResponse[domain.Order], error) {
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

func (s *Service) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.repo.GetByStatus(ctx, status)
}

func (s *Service) GetByCustomerEmail(ctx context.Context, email string) ([]domain.Order, error) {
	return s.repo.GetByCustomerEmail(ctx, email)
}

func insufficientStockError(itemIndex int, productName string, available, requested int) *domain.ValidationError {
	return domain.NewValidationError(domain.Violation{
		Field: fmt.Sprintf("items[%d].quantity", itemIndex),
		Message: fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
			productName, available, requested),
	})
}
