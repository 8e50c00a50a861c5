package products

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/productflow/internal/domain"
)

var productColumns = []string{
	"id", "name", "description", "price", "stock_quantity", "created_at", "updated_at",
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
			WithArgs("product-1").
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow("product-1", "Wireless Mouse", "Ergonomic wireless mouse", "9.99", 10, now, nil))

		repo := NewPostgresRepository(db)
		product, err := repo.GetByID(ctx, "product-1")

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Wireless Mouse", product.Name)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("9.99")))
		assert.Equal(t, 10, product.StockQuantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(productColumns))

		repo := NewPostgresRepository(db)
		product, err := repo.GetByID(ctx, "missing")

		assert.NoError(t, err)
		assert.Nil(t, product)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepositoryGetPaged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name")).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("product-1", "Keyboard", "Mechanical keyboard", "49.99", 4, now, nil).
			AddRow("product-2", "Wireless Mouse", "Ergonomic wireless mouse", "9.99", 10, now, nil))

	repo := NewPostgresRepository(db)
	products, err := repo.GetPaged(context.Background(), 2, 2)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Keyboard", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpdate(t *testing.T) {
	ctx := context.Background()

	product := &domain.Product{
		ID:            "product-1",
		Name:          "Wireless Mouse",
		Description:   "Ergonomic wireless mouse",
		Price:         decimal.RequireFromString("12.99"),
		StockQuantity: 8,
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
			WithArgs(product.Name, product.Description, product.Price,
				product.StockQuantity, sqlmock.AnyArg(), product.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgresRepository(db)
		err = repo.Update(ctx, product)

		require.NoError(t, err)
		assert.NotNil(t, product.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgresRepository(db)
		err = repo.Update(ctx, product)

		var nferr *domain.NotFoundError
		assert.ErrorAs(t, err, &nferr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepositoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
			WithArgs("product-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgresRepository(db)
		deleted, err := repo.Delete(ctx, "product-1")

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgresRepository(db)
		deleted, err := repo.Delete(ctx, "missing")

		require.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
