package router

import (
	"context"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/config"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/handler"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/middleware"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers into the HTTP engine. ctx
// bounds the background goroutines the router spawns (rate limiter purge).
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	cashRepo := repository.NewCashRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	productRepo := repository.NewProductRepository(db)
	priceListRepo := repository.NewPriceListRepository(db)
	priceChangeRepo := repository.NewPriceChangeRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	cacheTTL := time.Duration(cfg.PriceCacheTTLSeconds) * time.Second
	pricingSvc := service.NewPricingService(productRepo, priceListRepo, rdb, cacheTTL)
	cashSvc := service.NewCashService(cashRepo, ledgerRepo, dispatcher)
	priceListSvc := service.NewPriceListService(priceListRepo, pricingSvc)
	catalogSvc := service.NewCatalogService(productRepo, priceChangeRepo, pricingSvc)
	authSvc := service.NewAuthService(userRepo, cfg)

	// Handlers
	cashH := handler.NewCashHandler(cashSvc)
	priceH := handler.NewPriceHandler(pricingSvc)
	priceListH := handler.NewPriceListHandler(priceListSvc)
	productH := handler.NewProductHandler(catalogSvc)
	authH := handler.NewAuthHandler(authSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.CORS())

	r.GET("/health", healthH.Check)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")

	// Auth routes are public but rate limited against brute force.
	loginLimiter := middleware.NewRateLimiter(ctx, 10, time.Minute)
	auth := v1.Group("/auth", loginLimiter.Middleware())
	{
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	protected := v1.Group("", middleware.JWTAuth(cfg.JWTSecret))

	anyRole := middleware.RequireRole(model.RoleCashier, model.RoleSupervisor, model.RoleAdmin)
	supervisorUp := middleware.RequireRole(model.RoleSupervisor, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	cash := protected.Group("/cash", anyRole)
	{
		cash.POST("/open", cashH.Open)
		cash.POST("/movement", cashH.Movement)
		cash.POST("/close", cashH.Close)
		cash.GET("/active", cashH.Active)
		cash.GET("/history", cashH.History)
		cash.GET("/:id", cashH.Report)
		cash.GET("/:id/balance", cashH.Balance)
	}

	protected.GET("/price/:barcode", anyRole, priceH.Check)
	protected.GET("/expenses", supervisorUp, cashH.Expenses)

	priceLists := protected.Group("/price-lists")
	{
		priceLists.GET("", supervisorUp, priceListH.List)
		priceLists.GET("/:id", supervisorUp, priceListH.Get)
		priceLists.POST("", adminOnly, priceListH.Create)
		priceLists.PUT("/:id", adminOnly, priceListH.Update)
		priceLists.DELETE("/:id", adminOnly, priceListH.Delete)
	}

	products := protected.Group("/products")
	{
		products.GET("", anyRole, productH.List)
		products.GET("/:id", anyRole, productH.Get)
		products.GET("/:id/price-history", supervisorUp, productH.PriceHistory)
		products.POST("", supervisorUp, productH.Create)
		products.POST("/bulk-price", supervisorUp, productH.BulkPriceChange)
	}

	return r
}
