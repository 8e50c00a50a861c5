package products

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/productflow/internal/domain"
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)

	maxPrice = decimal.NewFromInt(1_000_000)
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxStockQuantity  = 10_000
)

// ValidateProduct checks a product against the management rules and returns
// every violation found.
func ValidateProduct(product *domain.Product) []domain.Violation {
	var violations []domain.Violation

	switch {
	case product.Name == "":
		violations = append(violations, domain.Violation{
			Field:   "name",
			Message: "Product name is required",
		})
	case len(product.Name) > maxNameLen:
		violations = append(violations, domain.Violation{
			Field:   "name",
			Message: "Product name cannot exceed 100 characters",
		})
	case !namePattern.MatchString(product.Name):
		violations = append(violations, domain.Violation{
			Field:   "name",
			Message: "Product name can only contain letters, numbers, spaces, and hyphens",
		})
	}

	if len(product.Description) > maxDescriptionLen {
		violations = append(violations, domain.Violation{
			Field:   "description",
			Message: "Description cannot exceed 500 characters",
		})
	}

	if product.Price.IsNegative() {
		violations = append(violations, domain.Violation{
			Field:   "price",
			Message: "Price cannot be negative",
		})
	} else if product.Price.GreaterThan(maxPrice) {
		violations = append(violations, domain.Violation{
			Field:   "price",
			Message: "Price cannot exceed 1,000,000",
		})
	}

	if product.StockQuantity < 0 {
		violations = append(violations, domain.Violation{
			Field:   "stock_quantity",
			Message: "Stock quantity cannot be negative",
		})
	} else if product.StockQuantity > maxStockQuantity {
		violations = append(violations, domain.Violation{
			Field:   "stock_quantity",
			Message: "Stock quantity cannot exceed 10,000",
		})
	}

	return violations
}
