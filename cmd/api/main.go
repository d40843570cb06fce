//	@title			NKE Admin API
//	@version		1.0
//	@description	Administrative backend for the NKE business site: product catalog, category catalogues, gallery, client/partner logos, and customer enquiries.
//
//	@host		localhost:5000
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/nke/backend/internal/auth"
	"github.com/nke/backend/internal/config"
	"github.com/nke/backend/internal/db"
	"github.com/nke/backend/internal/enquiry"
	"github.com/nke/backend/internal/gallery"
	"github.com/nke/backend/internal/logo"
	appMiddleware "github.com/nke/backend/internal/middleware"
	"github.com/nke/backend/internal/product"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/response"
	"github.com/nke/backend/internal/storage"

	_ "github.com/nke/backend/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalw("database migration failed", "error", err)
	}

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalw("object storage init failed", "error", err)
	}

	records := recordstore.NewPostgres(pool)

	// Wire dependencies: store → service → handler
	productSvc := product.NewService(records, store, log)
	productHandler := product.NewHandler(productSvc)

	gallerySvc := gallery.NewService(records, store, log)
	galleryHandler := gallery.NewHandler(gallerySvc)

	clientsSvc := logo.NewService(records, store, log, "clients", "clients", "client")
	clientsHandler := logo.NewHandler(clientsSvc, "Client")

	partnersSvc := logo.NewService(records, store, log, "partners", "partners", "partner")
	partnersHandler := logo.NewHandler(partnersSvc, "Partner")

	enquirySvc := enquiry.NewService(records, log)
	enquiryHandler := enquiry.NewHandler(enquirySvc)

	authSvc := auth.NewService(cfg)
	authHandler := auth.NewHandler(authSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:5000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/verify", authHandler.Verify)
		})
		r.Post("/enquiry", enquiryHandler.Submit)

		r.Get("/products", productHandler.List)
		r.Get("/products/{id}", productHandler.Get)
		r.Get("/products/category/{category}", productHandler.ByCategory)
		r.Get("/products/catalogue/{category}", productHandler.GetCatalogue)
		r.Get("/user/products", productHandler.Grouped)

		r.Get("/clients", clientsHandler.List)
		r.Get("/partners", partnersHandler.List)

		// Protected admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(appMiddleware.RequireAdmin(cfg.JWTSecret, cfg.AdminEmail))

			r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
				response.OKMessage(w, "Welcome to the admin dashboard")
			})

			r.Post("/products/add", productHandler.Add)
			r.Put("/products-edit/{id}", productHandler.Update)
			r.Delete("/products-del/{id}", productHandler.Delete)

			r.Post("/category-catalogue/upload", productHandler.UploadCatalogue)
			r.Delete("/category-catalogue/{category}", productHandler.DeleteCatalogue)

			r.Post("/gallery", galleryHandler.Upload)
			r.Get("/gallery", galleryHandler.List)
			r.Put("/gallery/{id}", galleryHandler.Update)
			r.Delete("/gallery/{id}", galleryHandler.Delete)

			r.Post("/clients", clientsHandler.Upload)
			r.Delete("/clients/{id}", clientsHandler.Delete)

			r.Post("/partners", partnersHandler.Upload)
			r.Delete("/partners/{id}", partnersHandler.Delete)

			r.Get("/enquiries", enquiryHandler.List)
			r.Put("/enquiries/{id}/status", enquiryHandler.UpdateStatus)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infow("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
