package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldstore/internal/analysis"
	"coldstore/internal/api"
	"coldstore/internal/config"
	"coldstore/internal/database"
	"coldstore/internal/ingest"
	"coldstore/internal/models"
	"coldstore/internal/monitoring"
	"coldstore/internal/simulation"
	"coldstore/internal/sink"
	"coldstore/internal/stream"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	once        = flag.Bool("once", false, "Print one simulated report as JSON and exit")
)

func main() {
	flag.Parse()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlags(cfg)

	// Build the profile registry
	registry, err := buildRegistry(cfg)
	if err != nil {
		log.Fatalf("Failed to build profile catalog: %v", err)
	}
	log.Printf("Loaded %d item profiles (default %s)", len(registry.Labels()), registry.DefaultLabel())

	analyzer := analysis.NewAnalyzer(registry)
	simulator := simulation.NewSimulator(registry, cfg.Simulation.Seed)

	if *once {
		service := analysis.NewService(analysis.NewAggregator(analyzer), simulator)
		if err := printReport(service.Simulate(ctx)); err != nil {
			log.Fatalf("Failed to print report: %v", err)
		}
		return
	}

	// Initialize monitoring
	metricsCollector := monitoring.NewMetricsCollector()
	monitor := monitoring.NewMonitor()
	hub := stream.NewHub()

	service := analysis.NewService(
		analysis.NewAggregator(analyzer),
		simulator,
		analysis.WithMetrics(metricsCollector),
		analysis.WithMonitor(monitor),
		analysis.WithSinks(hub),
	)

	// Optional Kafka sink
	var kafkaSink *sink.KafkaSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink = sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		service.AddSink(kafkaSink)
		log.Printf("Publishing reports to Kafka topic %s", cfg.Kafka.Topic)
	}

	// Optional MQTT ingest and dashboard publishing
	var mqttClient mqtt.Client
	var subscriber *ingest.Subscriber
	if cfg.MQTT.Broker != "" {
		mqttClient, err = ingest.NewClient(ingest.ClientConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if cfg.MQTT.DashboardTopic != "" {
			service.AddSink(ingest.NewPublisher(mqttClient, cfg.MQTT.DashboardTopic))
		}
		subscriber = ingest.NewSubscriber(ctx, mqttClient, cfg.MQTT.ReadingsTopic, service)
		if err := subscriber.Subscribe(); err != nil {
			log.Fatalf("Failed to subscribe to readings: %v", err)
		}
	}

	// Start simulation runner
	if cfg.Simulation.Enabled {
		runner := simulation.NewRunner(simulator, cfg.Simulation.Interval, service.HandleCycle)
		go runner.Start(ctx)
	}

	// Start metrics server
	metricsServer := newMetricsServer(cfg.Server.MetricsPort, metricsCollector)
	go func() {
		log.Printf("Starting metrics server on port %d", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// Initialize API server
	storageAPI := api.NewStorageAPI(service, hub, monitor)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: storageAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		cancel() // Stop the runner and ingest first

		if subscriber != nil {
			subscriber.Unsubscribe()
		}
		if mqttClient != nil {
			mqttClient.Disconnect(250)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}
		if kafkaSink != nil {
			if err := kafkaSink.Close(); err != nil {
				log.Printf("Kafka writer close error: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// applyFlags lets explicitly set command-line flags win over the config file
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "metrics-port":
			cfg.Server.MetricsPort = *metricsPort
		}
	})
}

// buildRegistry resolves the catalog source: database, then YAML file, then built-ins
func buildRegistry(cfg *config.Config) (*models.Registry, error) {
	switch {
	case cfg.Catalog.Driver != "":
		if err := database.InitDB(cfg.Catalog.Driver, cfg.Catalog.DSN); err != nil {
			return nil, err
		}
		// The registry is immutable once built, so the connection is not kept
		defer database.CloseDB()

		db := database.GetDB()
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		if cfg.Catalog.Seed {
			if err := database.SeedDefaults(db); err != nil {
				return nil, err
			}
		}
		return database.LoadRegistry(db)
	case cfg.Catalog.File != "":
		return models.LoadCatalogFile(cfg.Catalog.File)
	default:
		return models.DefaultRegistry(), nil
	}
}

func newMetricsServer(port int, collector *monitoring.MetricsCollector) *http.Server {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(collector.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}
}

func printReport(report *models.Report) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
