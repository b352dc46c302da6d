package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the route handlers
type Handlers struct {
	Auth      *handler.AuthHandler
	Trade     *handler.TradeHandler
	Watchlist *handler.WatchlistHandler
	Health    *handler.HealthHandler
}

// SetupRoutes configures all the routes. requireSession guards every page
// except login, logout, register and the health probe.
func SetupRoutes(router *gin.Engine, h Handlers, requireSession gin.HandlerFunc) {
	router.GET("/healthz", h.Health.Check)

	router.GET("/login", h.Auth.LoginForm)
	router.POST("/login", h.Auth.Login)
	router.GET("/logout", h.Auth.Logout)
	router.GET("/register", h.Auth.RegisterForm)
	router.POST("/register", h.Auth.Register)

	pages := router.Group("/", requireSession)
	{
		pages.GET("/", h.Trade.Index)
		pages.GET("/buy", h.Trade.BuyForm)
		pages.POST("/buy", h.Trade.Buy)
		pages.GET("/sell", h.Trade.SellForm)
		pages.POST("/sell", h.Trade.Sell)
		pages.GET("/history", h.Trade.History)
		pages.GET("/quote", h.Trade.QuoteForm)
		pages.POST("/quote", h.Trade.Quote)
		pages.GET("/add_cash", h.Trade.AddCashForm)
		pages.POST("/add_cash", h.Trade.AddCash)

		pages.GET("/change_password", h.Auth.ChangePasswordForm)
		pages.POST("/change_password", h.Auth.ChangePassword)

		pages.GET("/watchlist", h.Watchlist.List)
		pages.POST("/watchlist", h.Watchlist.Create)
		pages.GET("/watchlist/edit/:id", h.Watchlist.EditForm)
		pages.POST("/watchlist/edit/:id", h.Watchlist.Edit)
		pages.POST("/watchlist/delete/:id", h.Watchlist.Delete)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.NoCache())
	router.Use(middleware.Flash())
}

// NewRouter builds an engine with the page renderer, middlewares and routes
func NewRouter(renderer render.HTMLRender, h Handlers, requireSession gin.HandlerFunc, logger coreport.Logger) *gin.Engine {
	router := gin.New()
	router.HTMLRender = renderer
	SetupMiddlewares(router, logger)
	SetupRoutes(router, h, requireSession)
	return router
}
