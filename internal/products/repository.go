package products

import (
	"context"
	"database/sql"
	"time"

	"github.com/joao-fontenele/productflow/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetPaged(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error)
	GetTotalCount(ctx context.Context) (int, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, stock_quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return product, nil
}

func (r *PostgresRepository) GetPaged(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error) {
	offset := (pageNumber - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price, stock_quantity, created_at, updated_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *PostgresRepository) GetTotalCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) Create(ctx context.Context, product *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, stock_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, product.ID, product.Name, product.Description, product.Price,
		product.StockQuantity, product.CreatedAt)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock_quantity = $4, updated_at = $5
		WHERE id = $6
	`, product.Name, product.Description, product.Price, product.StockQuantity, now, product.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError("Product", product.ID)
	}

	product.UpdatedAt = &now
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
