package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"inventory-catalog/internal/cache"
	"inventory-catalog/internal/handlers"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/repository"
)

// Dependencies are the collaborators the API is built from.
type Dependencies struct {
	Products     repository.Repository
	PriceList    repository.Repository
	SoldProducts repository.Repository
	Cache        *cache.Cache
	Uploads      *handlers.Uploads
	Auth         *handlers.AuthHandler

	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins   []string
	// LoginAttempts caps login calls per client per minute; 0 disables the cap.
	LoginAttempts int
}

type catalogRoutes interface {
	Kind() models.Kind
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Uploads != nil {
		router.StaticFS("/uploads", afero.NewHttpFs(deps.Uploads.FS).Dir(deps.Uploads.Dir))
	}

	api := router.Group("/api")
	login := []gin.HandlerFunc{deps.Auth.Login}
	if deps.LoginAttempts > 0 && deps.Cache != nil {
		login = append([]gin.HandlerFunc{RateLimiter(deps.Cache, deps.LoginAttempts, time.Minute)}, login...)
	}
	api.POST("/auth/login", login...)

	secured := api.Group("")
	secured.Use(deps.Auth.RequireToken())
	for _, h := range []catalogRoutes{
		handlers.NewCatalogHandler(deps.Products, deps.Cache, deps.Uploads, handlers.ProductSpec()),
		handlers.NewCatalogHandler(deps.PriceList, deps.Cache, nil, handlers.PriceListSpec()),
		handlers.NewCatalogHandler(deps.SoldProducts, deps.Cache, nil, handlers.SoldProductSpec()),
	} {
		g := secured.Group("/" + string(h.Kind()))
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}
