// @title           StudyShare API
// @version         1.0
// @host            localhost:8080
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"studyshare/internal/api"
	"studyshare/internal/config"
	"studyshare/internal/database"
	"studyshare/internal/foldertree"
	"studyshare/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"

	_ "studyshare/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Cannot connect to the database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Cannot ping the database: %v", err)
	}
	log.Println("Connected to the database")

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Cannot initialize local storage: %v", err)
	}
	log.Printf("Resource blobs will be stored in: %s", cfg.Storage.Path)

	store := database.NewStore(dbpool)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	folders, err := foldertree.NewService(store.Queries, logger)
	if err != nil {
		log.Fatalf("Cannot initialize folder service: %v", err)
	}

	server := api.NewServer(cfg, store, localStorage, folders)

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, server.Routes()); err != nil {
		log.Fatalf("Cannot start server: %v", err)
	}
}
