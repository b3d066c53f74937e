package server

import (
	"context"
	"net/http"

	"cardapiopro-backend/internal/config"
	"cardapiopro-backend/internal/handler"
	mw "cardapiopro-backend/internal/middleware"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

type Services struct {
	Auth         service.AuthService
	Subscription service.SubscriptionService
	Restaurant   service.RestaurantService
	Product      service.ProductService
	Order        service.OrderService
	Billing      service.BillingService
}

type Server struct {
	echo              *echo.Echo
	cfg               *config.Config
	rdb               *redis.Client
	subscriptions     service.SubscriptionService
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	merchantHandler   *handler.MerchantHandler
	storefrontHandler *handler.StorefrontHandler
	productHandler    *handler.ProductHandler
	orderHandler      *handler.OrderHandler
	billingHandler    *handler.BillingHandler
}

// NewServer wires the HTTP surface. rdb may be nil, in which case order
// intake is not rate limited.
func NewServer(cfg *config.Config, logger *log.Logger, rdb *redis.Client, svc Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warnj(log.JSON{"method": v.Method, "uri": v.URI, "status": v.Status, "latency": v.Latency.String(), "ip": v.RemoteIP, "error": v.Error.Error()})
				return nil
			}
			logger.Infoj(log.JSON{"method": v.Method, "uri": v.URI, "status": v.Status, "latency": v.Latency.String(), "ip": v.RemoteIP})
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		echo:              e,
		cfg:               cfg,
		rdb:               rdb,
		subscriptions:     svc.Subscription,
		authHandler:       handler.NewAuthHandler(svc.Auth),
		userHandler:       handler.NewUserHandler(svc.Restaurant),
		merchantHandler:   handler.NewMerchantHandler(svc.Restaurant),
		storefrontHandler: handler.NewStorefrontHandler(svc.Restaurant),
		productHandler:    handler.NewProductHandler(svc.Product),
		orderHandler:      handler.NewOrderHandler(svc.Order),
		billingHandler:    handler.NewBillingHandler(svc.Billing, svc.Subscription),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := mw.JWTAuth(s.cfg.Auth.JWTSecret)
	gate := mw.RequireActiveSubscription(s.subscriptions)
	limit := mw.NewTokenBucket(s.cfg.RateLimit, s.rdb)

	// -------- auth --------
	a := e.Group("/auth")
	a.POST("/register", s.authHandler.Register)
	a.POST("/login", s.authHandler.Login)
	a.POST("/forgot-password", s.authHandler.ForgotPassword, limit)
	a.GET("/reset-password/validate", s.authHandler.ValidateResetToken)
	a.POST("/reset-password", s.authHandler.ResetPassword)

	// -------- account --------
	me := e.Group("/me", auth)
	me.GET("", s.userHandler.Me)
	me.POST("/push-token", s.userHandler.SetPushToken)

	// -------- merchant restaurant --------
	merchant := e.Group("/merchant/restaurants", auth)
	merchant.POST("", s.merchantHandler.CreateRestaurant)
	merchant.GET("/me", s.merchantHandler.GetRestaurant, gate)
	merchant.PATCH("/me", s.merchantHandler.UpdateRestaurant, gate)

	// -------- catalog --------
	products := e.Group("/products", auth, gate)
	products.GET("", s.productHandler.List)
	products.POST("", s.productHandler.Create)
	products.GET("/:id", s.productHandler.Get)
	products.PATCH("/:id", s.productHandler.Update)
	products.PUT("/:id", s.productHandler.Update)
	products.DELETE("/:id", s.productHandler.Delete)

	// -------- storefront --------
	e.GET("/restaurants", s.storefrontHandler.ListRestaurants)
	e.GET("/restaurants/:id", s.storefrontHandler.GetRestaurant)
	e.GET("/restaurants/:id/products", s.storefrontHandler.ListProducts)

	// -------- orders --------
	e.POST("/public/orders", s.orderHandler.PlaceOrder, limit)
	e.GET("/public/orders/:id", s.orderHandler.GetPublic)
	e.POST("/orders", s.orderHandler.PlaceOrderLegacy, limit)
	e.GET("/orders", s.orderHandler.List, auth)
	e.PATCH("/orders/:id/status", s.orderHandler.UpdateStatus, auth)

	// -------- billing --------
	billing := e.Group("/billing")
	billing.GET("/whatsapp", s.billingHandler.WhatsApp)
	billing.POST("/activate", s.billingHandler.Activate, auth)

	admin := billing.Group("/admin", mw.RequireAdminSecret(s.cfg.Auth.AdminSecret))
	admin.POST("/generate", s.billingHandler.GenerateCodes)
	admin.POST("/backfill-trials", s.billingHandler.BackfillTrials)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
