package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/config"
	"github.com/siravitrin-eng/the-pos-67079349/controllers"
	"github.com/siravitrin-eng/the-pos-67079349/database"
	"github.com/siravitrin-eng/the-pos-67079349/logger"
	"github.com/siravitrin-eng/the-pos-67079349/repository"
	"github.com/siravitrin-eng/the-pos-67079349/routes"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync()

	// --- Backing stores ---
	mongoClient, db, err := database.Connect(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			log.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	// --- Service wiring ---
	productRepo := repository.NewMongoProductRepository(mongoClient, db, cfg.ProductsCollection)
	userRepo := repository.NewMongoUserRepository(db, cfg.UsersCollection)
	cartRepo := repository.NewCartRepository(redisClient, cfg.CartTTL)

	catalogStore := services.NewCatalogStore(productRepo, log)
	catalogStore.Start(context.Background())
	defer catalogStore.Stop()

	identityProvider := services.NewGoogleIdentityProvider(cfg.GoogleClientID)
	authService := services.NewAuthService(userRepo, identityProvider, cfg.JWTSecret, log)
	cartService := services.NewCartService(cartRepo, catalogStore, log)
	inventoryService := services.NewInventoryService(productRepo, catalogStore, log)
	flowRegistry := services.NewConfirmFlowRegistry(inventoryService, log)

	uploader, err := services.NewCloudinaryUploader(cfg.CloudinaryUploadPreset, cfg.CloudinaryFolder, log)
	if err != nil {
		log.Fatal("Cloudinary init failed", zap.Error(err))
	}

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r,
		authService,
		controllers.NewAuthController(authService),
		controllers.NewCatalogController(catalogStore),
		controllers.NewCartController(cartService),
		controllers.NewInventoryController(inventoryService, catalogStore, flowRegistry),
		controllers.NewUploadController(uploader),
	)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Info("SparkPOS server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down SparkPOS server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("SparkPOS server stopped gracefully")
}
