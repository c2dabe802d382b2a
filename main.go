package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/swaggo/swag" // swag runtime

	"museum_recommender/config"
	"museum_recommender/db"
	_ "museum_recommender/docs" // swagger docs
	"museum_recommender/handlers"
	"museum_recommender/logger"
	"museum_recommender/models"
	"museum_recommender/repository"
	"museum_recommender/scheduler"
	"museum_recommender/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("logging initialized", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	if err := db.Init(cfg); err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connected",
		"driver", cfg.DB.Driver,
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns)

	// Reference data is loaded once; the catalog and the author
	// registry are immutable and shared by reference.
	artworks, err := repository.LoadCatalog()
	if err != nil {
		logger.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	authors, err := repository.LoadAuthors()
	if err != nil {
		logger.Error("author load failed", "error", err)
		os.Exit(1)
	}
	catalog := models.NewCatalog(artworks)
	registry := models.NewAuthorRegistry(authors)
	logger.Info("reference data loaded", "artworks", catalog.Len(), "authors", len(authors))

	classifier := services.NewClusterService(cfg)
	var embedder services.TextSimilarity
	if cfg.Embedding.URL != "" {
		embedder = services.NewEmbeddingService(cfg)
	}

	matcher := services.NewMatcherService(catalog, registry)
	cbr := services.NewCBRService(cfg, matcher, catalog, registry, embedder, classifier)
	cf := services.NewCFService(cfg, catalog)
	rec := services.NewRecommenderService(cbr, cf, classifier)
	maint := services.NewMaintenanceService(cfg, cbr, cfg.Maintenance.SampleSeed)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handlers.RegisterRoutes(r, cfg, rec, maint)

	scheduler.Start(cfg, maint)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", serverAddr)
	logger.Info("swagger docs available", "url", fmt.Sprintf("http://%s/swagger/index.html", serverAddr))
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port), r))
}
