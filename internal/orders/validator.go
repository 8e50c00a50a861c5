package orders

import (
	"fmt"
	"net/mail"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/productflow/internal/domain"
)

const maxCustomerFieldLen = 100

// ValidateOrder checks an assembled order against the structural rules and
// returns every violation found. Rules are not short-circuited so a single
// pass reports the full set.
func ValidateOrder(order *domain.Order) []domain.Violation {
	var violations []domain.Violation

	switch {
	case order.CustomerName == "":
		violations = append(violations, domain.Violation{
			Field:   "customer_name",
			Message: "Customer name is required",
		})
	case len(order.CustomerName) > maxCustomerFieldLen:
		violations = append(violations, domain.Violation{
			Field:   "customer_name",
			Message: "Customer name cannot exceed 100 characters",
		})
	}

	switch {
	case order.CustomerEmail == "":
		violations = append(violations, domain.Violation{
			Field:   "customer_email",
			Message: "Customer email is required",
		})
	case !validEmail(order.CustomerEmail):
		violations = append(violations, domain.Violation{
			Field:   "customer_email",
			Message: "Invalid email address",
		})
	case len(order.CustomerEmail) > maxCustomerFieldLen:
		violations = append(violations, domain.Violation{
			Field:   "customer_email",
			Message: "Customer email cannot exceed 100 characters",
		})
	}

	if len(order.Items) == 0 {
		violations = append(violations, domain.Violation{
			Field:   "items",
			Message: "Order must contain at least one item",
		})
	}

	if !order.TotalAmount.GreaterThan(decimal.Zero) {
		violations = append(violations, domain.Violation{
			Field:   "total_amount",
			Message: "Total amount must be greater than 0",
		})
	}

	for i, item := range order.Items {
		violations = append(violations, validateItem(i, item)...)
	}

	return violations
}

func validateItem(index int, item domain.OrderItem) []domain.Violation {
	var violations []domain.Violation
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", index, name)
	}

	if item.ProductID == "" {
		violations = append(violations, domain.Violation{
			Field:   field("product_id"),
			Message: "Product ID is required",
		})
	}
	if item.Quantity <= 0 {
		violations = append(violations, domain.Violation{
			Field:   field("quantity"),
			Message: "Quantity must be greater than 0",
		})
	}
	if !item.UnitPrice.GreaterThan(decimal.Zero) {
		violations = append(violations, domain.Violation{
			Field:   field("unit_price"),
			Message: "Unit price must be greater than 0",
		})
	}
	if !item.TotalPrice.GreaterThan(decimal.Zero) {
		violations = append(violations, domain.Violation{
			Field:   field("total_price"),
			Message: "Total price must be greater than 0",
		})
	}

	return violations
}

func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
