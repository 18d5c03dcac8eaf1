package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/server/http/dto"
	"github.com/polkiloo/bazaar/internal/server/http/handlers"
	"github.com/polkiloo/bazaar/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/admin/payouts/export"})))

	authHandler := handlers.NewAuthHandler(facade, middleware.CookiePolicy{Secure: cfg.CookieSecure, MaxAge: cfg.TokenTTL})
	userHandler := handlers.NewUserHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	payoutHandler := handlers.NewPayoutHandler(facade)

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "bazaar is running")
	})

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/logout", authHandler.Logout)

	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)

	private := api.Group("")
	private.Use(middleware.AuthRequired(facade))
	private.GET("/user/me", userHandler.Me)
	private.PUT("/user", userHandler.Update)
	private.POST("/user/seller-request", userHandler.RequestSeller)
	private.POST("/orders", orderHandler.Place)
	private.GET("/orders", orderHandler.List)

	vendor := private.Group("/vendor")
	vendor.Use(middleware.RequireRole(facade, model.RoleSeller))
	vendor.POST("/products", productHandler.Create)
	vendor.GET("/orders", orderHandler.VendorList)
	vendor.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	vendor.GET("/payouts", payoutHandler.VendorPayouts)
	vendor.GET("/transfers", payoutHandler.VendorTransfers)
	vendor.GET("/revenue", payoutHandler.Revenue)
	vendor.POST("/payout-account", payoutHandler.Onboard)

	admin := private.Group("/admin")
	admin.Use(middleware.RequireRole(facade, model.RoleAdmin))
	admin.GET("/payouts", payoutHandler.List)
	admin.GET("/payouts/export", payoutHandler.Export)
	admin.POST("/payouts/generate", payoutHandler.Generate)
	admin.POST("/payouts/disburse", payoutHandler.Disburse)
	admin.PATCH("/users/:id/role", userHandler.SetRole)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

	return engine, nil
}
