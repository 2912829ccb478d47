package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"inventory-catalog/internal/cache"
	"inventory-catalog/internal/config"
	"inventory-catalog/internal/database"
	"inventory-catalog/internal/handlers"
	"inventory-catalog/internal/logging"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/routes"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.Init(logging.Options{Mode: cfg.LogMode, Level: cfg.LogLevel, Filename: cfg.LogFile})
	defer logger.Sync()
	log := logger.Sugar()

	if cfg.EnvFileErr != nil {
		log.Warnw("env_file_unreadable", "error", cfg.EnvFileErr)
	}
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := routes.Dependencies{
		Cache:         cache.New(5*time.Minute, 5*time.Minute),
		Uploads:       &handlers.Uploads{FS: afero.NewOsFs(), Dir: cfg.UploadDir, PublicBase: cfg.PublicBaseURL},
		CORSOrigins:   cfg.CORSOrigins,
		LoginAttempts: cfg.LoginAttempts,
	}
	defer deps.Cache.Close()

	if cfg.MongoURI != "" {
		client, err := database.Connect(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatalw("mongo_unavailable", "error", err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.MongoDB)
		deps.Products = repository.NewMongoRepository(db.Collection("products"))
		deps.PriceList = repository.NewMongoRepository(db.Collection("pricelists"))
		deps.SoldProducts = repository.NewMongoRepository(db.Collection("soldproducts"))
	} else {
		log.Warnw("mongo_uri_missing", "fallback", "memory")
		deps.Products = repository.NewMemoryRepository()
		deps.PriceList = repository.NewMemoryRepository()
		deps.SoldProducts = repository.NewMemoryRepository()
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warnw("jwt_secret_missing", "hint", "tokens will not survive a restart")
	}
	if cfg.AdminPasswordHash == "" {
		log.Warnw("admin_password_hash_missing", "hint", "login is disabled")
	}
	deps.Auth = handlers.NewAuthHandler(secret, cfg.AdminEmail, cfg.AdminPasswordHash)

	router := routes.NewRouter(deps)
	log.Infow("server_starting", "port", cfg.Port, "upload_dir", cfg.UploadDir)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server_stopped", "error", err)
	}
}
