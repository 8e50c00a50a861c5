package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitMeterProvider initializes the Prometheus exporter and MeterProvider.
// It returns an http.Handler for the /metrics endpoint and a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// OrderMetrics holds the counters the order workflow records.
type OrderMetrics struct {
	OrdersCreated  metric.Int64Counter
	StatusUpdates  metric.Int64Counter
	StockConflicts metric.Int64Counter
}

func NewOrderMetrics() (*OrderMetrics, error) {
	meter := otel.Meter("productflow/orders")

	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders successfully created"))
	if err != nil {
		return nil, err
	}

	statusUpdates, err := meter.Int64Counter("order_status_updates_total",
		metric.WithDescription("Order status updates applied"))
	if err != nil {
		return nil, err
	}

	stockConflicts, err := meter.Int64Counter("stock_conflicts_total",
		metric.WithDescription("Order creations rejected for insufficient stock"))
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{
		OrdersCreated:  ordersCreated,
		StatusUpdates:  statusUpdates,
		StockConflicts: stockConflicts,
	}, nil
}
