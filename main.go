package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rxcheck/internal/api"
	"rxcheck/internal/config"
	"rxcheck/internal/container"
	"rxcheck/internal/errors"
	"rxcheck/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL when DATABASE_URL is set
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if db != nil {
		if err := appContainer.InitWithDatabase(context.Background(), db); err != nil {
			log.Fatalf("Failed to initialize database components: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, run persistence disabled")
	}

	gin.SetMode(appConfig.Server.GinMode)
	handler := api.NewValidationHandler(appContainer.Validation, appContainer.Batch, appContainer.RunRepo, appContainer.UsageService)
	apiServer := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: api.NewRouter(handler, appContainer.Logger),
	}

	console, err := ui.NewApp(appContainer.Validation, appContainer.RunRepo)
	if err != nil {
		log.Fatalf("Failed to initialize console: %v", err)
	}
	uiServer := &http.Server{
		Addr:    ":" + appConfig.Server.UIPort,
		Handler: console.Handler(),
	}

	for _, srv := range []*http.Server{apiServer, uiServer} {
		go func(srv *http.Server) {
			log.Printf("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server on %s failed: %v", srv.Addr, err)
			}
		}(srv)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, srv := range []*http.Server{apiServer, uiServer} {
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}
	if err := appContainer.Shutdown(ctx); err != nil {
		log.Printf("Container shutdown error: %v", err)
	}
}
