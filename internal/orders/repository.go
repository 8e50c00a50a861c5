package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/joao-fontenele/productflow/internal/domain"
)

// StockConflictError is returned when the conditional stock decrement inside
// the order-creation transaction finds fewer units than requested. The whole
// transaction rolls back, so no partial decrement survives.
type StockConflictError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

type Repository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	GetPaged(ctx context.Context, pageNumber, pageSize int) ([]domain.Order, error)
	GetTotalCount(ctx context.Context) (int, error)
	GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	GetByCustomerEmail(ctx context.Context, email string) ([]domain.Order, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the order, its items, and the per-product stock decrements
// in one transaction. Each decrement is guarded with stock_quantity >= n, so
// two concurrent orders can never over-commit the same product; the losing
// transaction rolls back entirely.
func (r *PostgresRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_date, customer_name, customer_email, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, order.ID, order.OrderDate, order.CustomerName, order.CustomerEmail,
		order.TotalAmount, order.Status, order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, order.ID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $2, updated_at = NOW()
			WHERE id = $1 AND stock_quantity >= $2
		`, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			conflict := &StockConflictError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
			}
			err = tx.QueryRowContext(ctx, `
				SELECT name, stock_quantity FROM products WHERE id = $1
			`, item.ProductID).Scan(&conflict.ProductName, &conflict.Available)
			if err == sql.ErrNoRows {
				return domain.NewNotFoundError("Product", item.ProductID)
			}
			if err != nil {
				return err
			}
			return conflict
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_date, customer_name, customer_email, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderDate, &order.CustomerName, &order.CustomerEmail,
		&order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *PostgresRepository) Update(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE id = $3
	`, order.Status, now, order.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError("Order", order.ID)
	}

	order.UpdatedAt = &now
	return nil
}

func (r *PostgresRepository) GetPaged(ctx context.Context, pageNumber, pageSize int) ([]domain.Order, error) {
	offset := (pageNumber - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_date, customer_name, customer_email, total_amount, status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		return nil, err
	}

	return r.collectOrders(ctx, rows)
}

func (r *PostgresRepository) GetTotalCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_date, customer_name, customer_email, total_amount, status, created_at, updated_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}

	return r.collectOrders(ctx, rows)
}

func (r *PostgresRepository) GetByCustomerEmail(ctx context.Context, email string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_date, customer_name, customer_email, total_amount, status, created_at, updated_at
		FROM orders
		WHERE customer_email = $1
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}

	return r.collectOrders(ctx, rows)
}

// collectOrders scans the order rows and batch-loads their items with a
// single ANY($1) query instead of one query per order.
func (r *PostgresRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]domain.Order, error) {
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OrderDate, &order.CustomerName, &order.CustomerEmail,
			&order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var item domain.OrderItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, err
		}
		order := orderMap[item.OrderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}
