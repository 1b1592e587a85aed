package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"perundhu/internal/config"
	"perundhu/internal/controllers"
	"perundhu/internal/geocoding"
	"perundhu/internal/logger"
	"perundhu/internal/middleware"
	"perundhu/internal/repository"
	"perundhu/internal/routes"
	"perundhu/internal/services"
	"perundhu/internal/vision"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	settings := config.LoadSettings()

	locations := repository.NewLocationRepo(config.DB)
	buses := repository.NewBusRepo(config.DB)
	contributions := repository.NewContributionRepo(config.DB)
	images := repository.NewImageRepo(config.DB)

	geocoder := geocoding.NewNominatimClient(settings.GeocodeInterval)
	resolver := services.NewResolver(locations, geocoder)
	validator := services.NewRouteValidator(settings.MaxRouteDistanceKm)
	duplicates := services.NewDuplicateDetector(settings.DuplicateWindow)
	pipeline := services.NewPipeline(contributions, resolver, validator, duplicates, settings)
	integrator := services.NewIntegrator(contributions, buses, locations, resolver)
	finder := services.NewConnectingRouteFinder(buses, settings.MinConnectionTime)
	ocr := services.NewOCRProcessor(images, vision.NewClient(), pipeline, duplicates, settings.OCRWorkers)

	hub := controllers.NewTrackingHub()
	r := routes.SetupRouter(routes.Deps{
		Bus:          controllers.NewBusController(config.DB, finder),
		Contribution: controllers.NewContributionController(config.DB, pipeline, ocr),
		Admin:        controllers.NewAdminController(config.DB, integrator, duplicates),
		Tracking:     controllers.NewTrackingController(settings.SightingFreshness, hub),
		Hub:          hub,
	})

	addr := "0.0.0.0:" + envOr("PORT", "8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: middleware.EnableCORS(r),
	}

	go func() {
		log.Infof("server running at %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}

	// let queued image extractions finish before exiting
	ocr.Shutdown(settings.OCRShutdownGrace)
	log.Info("bye")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
