package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/productflow/internal/config"
	"github.com/joao-fontenele/productflow/internal/messaging"
	"github.com/joao-fontenele/productflow/internal/notify"
	"github.com/joao-fontenele/productflow/internal/orders"
	"github.com/joao-fontenele/productflow/internal/products"
	"github.com/joao-fontenele/productflow/internal/telemetry"
)

const (
	serviceName    = "productflow-api"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	hub := notify.NewHub(logger)
	notifiers := []notify.Notifier{notify.NewHubNotifier(hub)}

	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers)
		defer func() { _ = producer.Close() }()
		notifiers = append(notifiers, notify.NewKafkaNotifier(producer))
		logger.Info("kafka notifier enabled", "brokers", cfg.KafkaBrokers)
	}

	broadcaster := notify.NewBroadcaster(logger, notifiers...)

	orderMetrics, err := telemetry.NewOrderMetrics()
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}

	productRepo := products.NewPostgresRepository(db)
	productService := products.NewService(productRepo, logger)
	productHandler := products.NewHandler(productService, logger)

	orderRepo := orders.NewPostgresRepository(db)
	orderService := orders.NewService(orderRepo, productRepo, broadcaster, logger, orderMetrics)
	orderHandler := orders.NewHandler(orderService, logger)

	wsHandler := notify.NewWSHandler(hub, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("PUT /orders/{id}/status", telemetry.WithHTTPRoute(orderHandler.HandleUpdateStatus))
	mux.HandleFunc("GET /orders/status/{status}", telemetry.WithHTTPRoute(orderHandler.HandleListByStatus))
	mux.HandleFunc("GET /orders/customer/{email}", telemetry.WithHTTPRoute(orderHandler.HandleListByCustomer))

	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleGet))
	mux.HandleFunc("PUT /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleUpdate))
	mux.HandleFunc("DELETE /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleDelete))

	mux.HandleFunc("GET /ws/orders", wsHandler.HandleSubscribe)
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
