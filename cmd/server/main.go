package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"distance-matrix-service/internal/adapters/events"
	"distance-matrix-service/internal/adapters/rawstore"
	"distance-matrix-service/internal/adapters/routing"
	"distance-matrix-service/internal/adapters/store"
	"distance-matrix-service/internal/api"
	"distance-matrix-service/internal/config"
	"distance-matrix-service/internal/platform/db"
	"distance-matrix-service/internal/ports"
	"distance-matrix-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Google routing, raw archive, SQL store, Kafka)
// behind ports and starts the HTTP server.
func main() {
	config.LoadEnv()

	apiKey := config.MustGet("GOOGLE_MAPS_API_KEY")
	exportDir := config.Get("EXPORT_DIR", "data/processed")
	port := config.Get("PORT", "8080")

	provider, err := routing.NewClient(apiKey)
	if err != nil {
		log.Fatal(err)
	}

	responses, err := buildResponseStore()
	if err != nil {
		log.Fatal(err)
	}

	matrixStore, closeDB, err := buildMatrixStore()
	if err != nil {
		log.Fatal(err)
	}
	if closeDB != nil {
		defer closeDB()
	}

	publisher, err := buildPublisher()
	if err != nil {
		log.Fatal(err)
	}
	if publisher != nil {
		defer publisher.Close()
	}

	pipeline := &services.Pipeline{
		Provider:  provider,
		Responses: responses,
		Store:     matrixStore,
		Publisher: eventPublisher(publisher),
		ExportDir: exportDir,
	}

	router := api.NewRouter(pipeline, responses, exportDir)

	// Timeouts are tuned for cold-cache matrix fetches (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildResponseStore selects the raw response archive backend:
// RAW_STORE=file (default) keeps JSON files on disk, RAW_STORE=s3 uses an
// S3-compatible bucket.
func buildResponseStore() (ports.ResponseStore, error) {
	switch backend := config.Get("RAW_STORE", "file"); backend {
	case "s3":
		return rawstore.NewS3Store(context.Background(), rawstore.S3Config{
			Endpoint:  config.MustGet("MINIO_ENDPOINT"),
			AccessKey: config.MustGet("MINIO_ACCESS_KEY"),
			SecretKey: config.MustGet("MINIO_SECRET_KEY"),
			Bucket:    config.Get("MINIO_BUCKET", "distance-matrix"),
			UseSSL:    config.Get("MINIO_USE_SSL", "false") == "true",
		})
	case "file":
		return rawstore.NewFSStore(config.Get("DATA_DIR", "data/raw"))
	default:
		log.Fatalf("unsupported RAW_STORE %q (want file or s3)", backend)
		return nil, nil
	}
}

// buildMatrixStore opens the relational store when DB_ENGINE is configured.
// Without one the server runs fetch-and-export only.
func buildMatrixStore() (ports.MatrixStore, func() error, error) {
	engine := config.Get("DB_ENGINE", "")
	if engine == "" {
		log.Println("DB_ENGINE not set, relational sync disabled")
		return nil, nil, nil
	}

	sqlDB, err := db.Open(engine, config.MustGet("DB_DSN"))
	if err != nil {
		return nil, nil, err
	}

	var s ports.MatrixStore
	switch engine {
	case db.EnginePostgres:
		s = store.NewPostgresStore(sqlDB)
	case db.EngineSQLite:
		s = store.NewSqliteStore(sqlDB)
	case db.EngineMySQL:
		s = store.NewMySQLStore(sqlDB)
	}

	return s, sqlDB.Close, nil
}

// buildPublisher opens the Kafka writer when brokers are configured.
func buildPublisher() (*events.KafkaPublisher, error) {
	brokers := config.Get("KAFKA_BROKERS", "")
	if brokers == "" {
		log.Println("KAFKA_BROKERS not set, event publishing disabled")
		return nil, nil
	}

	return events.NewKafkaPublisher(
		strings.Split(brokers, ","),
		config.Get("KAFKA_TOPIC", "distance-matrix.built"),
	)
}

// eventPublisher avoids handing the pipeline a non-nil interface wrapping a
// nil publisher.
func eventPublisher(p *events.KafkaPublisher) ports.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
