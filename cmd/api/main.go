package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dishlens/visionchef/backend/config"
	"github.com/dishlens/visionchef/backend/internal/api"
	"github.com/dishlens/visionchef/backend/internal/database"
	"github.com/dishlens/visionchef/backend/internal/router"
	"github.com/dishlens/visionchef/backend/internal/server"
	"github.com/dishlens/visionchef/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Load all models up front. A model that cannot be loaded is fatal:
	// every pipeline stage depends on one, so there is no degraded mode.
	registry := service.NewModelRegistry(cfg.Models, cfg.Generation)
	if err := registry.LoadAll(ctx); err != nil {
		log.Fatalf("Failed to load models: %v", err)
	}
	defer registry.Close()

	captioner, _ := registry.Captioner(ctx)
	classifier, _ := registry.Classifier(ctx)
	generator, _ := registry.Generator(ctx)

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// S3 archiving is optional; without credentials the service still runs
	var imageService *service.ImageService
	if s3Cfg, err := config.NewS3Config(ctx); err != nil {
		log.Printf("S3 archiving disabled: %v", err)
		imageService = service.NewImageService(nil)
	} else {
		imageService = service.NewImageService(s3Cfg)
	}

	nutrition, err := service.NewNutritionService(cfg.NutritionTablePath)
	if err != nil {
		log.Fatalf("Failed to load nutrition table: %v", err)
	}

	validator := service.NewImageValidator(cfg.Image)
	pipeline := service.NewPipelineService(validator, captioner, classifier, generator, nutrition, cfg.Recipe, redisClient)
	history := service.NewHistoryService(db)

	recipeHandler := api.NewRecipeHandler(pipeline, history, imageService)
	healthHandler := api.NewHealthHandler(registry, db)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.SetupRouter(recipeHandler, healthHandler)
	srv := server.New(engine, fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort))

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
