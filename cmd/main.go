package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/config"
	"github.com/ukydev/insightsphere/internal/dataset"
	"github.com/ukydev/insightsphere/internal/db"
	"github.com/ukydev/insightsphere/internal/handlers"
	"github.com/ukydev/insightsphere/internal/middleware"
	"github.com/ukydev/insightsphere/internal/refresh"
)

func main() {
	cfg := config.Load(".env")
	cfg.ConfigureLogger()

	if err := run(cfg); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, closeSources, err := buildSources(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSources()

	store := dataset.NewStore(sources)
	if err := store.Load(ctx); err != nil {
		// keep serving what did load, /ready reports the rest
		log.WithError(err).Warn("Some artifacts failed to load")
	}

	if cfg.MQTT.Broker != "" {
		sub := refresh.NewSubscriber(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, store)
		if err := sub.Start(); err != nil {
			log.WithError(err).WithField("broker", cfg.MQTT.Broker).Error("Artifact refresh disabled")
		} else {
			defer sub.Stop()
		}
	}

	limiter := middleware.NewRateLimitMiddleware(cfg.RateLimit.TrustProxyHeaders)
	go pruneLoop(ctx, limiter, cfg.RateLimit.WindowSeconds)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(store, limiter, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"service": cfg.App.Name,
			"env":     cfg.App.Environment,
			"port":    cfg.Server.Port,
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildSources wires the artifact loaders selected by the configuration.
// The returned func releases any connection they hold.
func buildSources(ctx context.Context, cfg *config.Config) (dataset.Sources, func(), error) {
	sources := dataset.Sources{
		Properties: dataset.CSVProperties{Path: cfg.Artifacts.PropertiesPath},
		Pipeline:   dataset.PipelineFile{Path: cfg.Artifacts.PipelinePath},
	}

	switch cfg.Artifacts.TableSource {
	case config.SourceFile:
		sources.Table = dataset.TableFile(cfg.Artifacts.TablePath, cfg.Artifacts.TableSheet)
		return sources, func() {}, nil
	case config.SourceMongo:
		client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return sources, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")
		database := client.Database(cfg.Mongo.Database)
		sources.Table = db.DistanceTableSource{
			Collection: &db.MongoCollection{Collection: database.Collection(cfg.Mongo.DistanceCollection)},
		}
		sources.Properties = db.PropertySource{
			Collection: &db.MongoCollection{Collection: database.Collection(cfg.Mongo.PropertiesCollection)},
		}
		return sources, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("MongoDB disconnect failed")
			}
		}, nil
	default:
		return sources, nil, fmt.Errorf("unknown DISTANCE_TABLE_SOURCE %q", cfg.Artifacts.TableSource)
	}
}

func newRouter(store *dataset.Store, limiter *middleware.RateLimitMiddleware, cfg *config.Config) http.Handler {
	system := handlers.NewSystemHandler(store)
	recommendHandler := handlers.NewRecommendHandler(store)
	analyticsHandler := handlers.NewAnalyticsHandler(store)
	predictHandler := handlers.NewPredictHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger, middleware.Metrics, chimw.Recoverer)

	r.Get("/", system.Home)
	r.Get("/health", system.Health)
	r.Get("/ready", system.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds))

		r.Get("/recommend/locations", recommendHandler.Locations)
		r.Get("/recommend", recommendHandler.Recommend)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/geomap", analyticsHandler.Geomap)
			r.Get("/sectors", analyticsHandler.Sectors)
			r.Get("/features", analyticsHandler.Features)
			r.Get("/scatter", analyticsHandler.Scatter)
			r.Get("/bhk", analyticsHandler.BHK)
			r.Get("/bhk-prices", analyticsHandler.BHKPrices)
			r.Get("/price-distribution", analyticsHandler.PriceDistribution)
		})

		r.Get("/predict/options", predictHandler.Options)
		r.Post("/predict", predictHandler.Predict)
	})
	return r
}

func pruneLoop(ctx context.Context, limiter *middleware.RateLimitMiddleware, windowSeconds int) {
	if windowSeconds < 1 {
		return
	}
	ticker := time.NewTicker(time.Duration(windowSeconds) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune(windowSeconds)
		}
	}
}
