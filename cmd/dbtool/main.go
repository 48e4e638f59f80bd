package main

import (
	"log"

	"distance-matrix-service/internal/adapters/store"
	"distance-matrix-service/internal/config"
	"distance-matrix-service/internal/platform/db"
)

// dbtool creates or migrates the relational schema for the configured engine.
// Schema setup is an operator action, not a server startup side effect.
func main() {
	config.LoadEnv()

	engine := config.MustGet("DB_ENGINE")
	dsn := config.MustGet("DB_DSN")

	sqlDB, err := db.Open(engine, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if err := store.InitSchema(sqlDB, engine); err != nil {
		log.Fatal(err)
	}

	log.Printf("Schema ready engine=%s", engine)
}
