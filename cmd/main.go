package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/handler"
	"github.com/jonmorleyjones/hrportal-sub001/internal/middleware"
	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/service"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/config"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/database"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// Paths that skip tenant resolution: health and docs surfaces, the
// resolution probe itself, and the consultant auth flow (consultants carry
// no request tenant).
var tenantExemptPaths = []string{
	"/health",
	"/metrics",
	"/docs",
	"/auth/tenant",
	"/auth/consultant",
}

func main() {
	// Load configuration from .env file and environment variables. Missing
	// signing secret is fatal here, not a per-request failure.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting hrportal auth service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Tenant{},
		&model.TenantUser{},
		&model.Consultant{},
		&model.ConsultantTenantAssignment{},
		&model.RefreshToken{},
		&model.RequestType{},
		&model.RequestTypeVersion{},
		&model.FormResponse{},
		&model.Invitation{},
		&model.AuditLog{},
		&model.UploadedFile{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	jwt := jwtutil.New(&cfg.JWT)

	// Stores
	tenants := store.NewTenantStore(db)
	users := store.NewUserStore(db)
	consultants := store.NewConsultantStore(db)
	assignments := store.NewAssignmentStore(db)
	refreshTokens := store.NewRefreshTokenStore(db)
	audit := store.NewAuditStore(db)
	invitations := store.NewInvitationStore(db)

	// Services
	registry := service.NewRegistry(assignments, tenants, audit, log)
	userAuth := service.NewUserAuthService(users, refreshTokens, audit, jwt, cfg.JWT.AccessTokenLifetime, cfg.JWT.RefreshTokenTTL, log)
	consultantAuth := service.NewConsultantAuthService(consultants, refreshTokens, registry, jwt, cfg.JWT.AccessTokenLifetime, cfg.JWT.RefreshTokenTTL, log)

	resolver := tenant.NewResolver(tenants, tenantExemptPaths)

	// Handlers
	authHandler := handler.NewAuthHandler(userAuth)
	consultantHandler := handler.NewConsultantHandler(consultantAuth, registry, audit)
	tenantHandler := handler.NewTenantHandler(resolver, users, invitations)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes. Tenant resolution runs here too: user login is
	// tenant-scoped, while the probe and consultant paths are exempt.
	auth := e.Group("/auth", middleware.TenantMiddleware(resolver))
	auth.GET("/tenant", tenantHandler.ResolveTenant)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/consultant/login", consultantHandler.Login)
	auth.POST("/consultant/refresh", consultantHandler.Refresh)
	auth.POST("/consultant/logout", consultantHandler.Logout)

	// API routes - all require a valid access token; tenant-user requests
	// are then pinned to their resolved tenant.
	api := e.Group("/api", middleware.AuthMiddleware(jwt), middleware.TenantMiddleware(resolver))
	api.GET("/me", tenantHandler.Me)

	userAdmin := api.Group("/users", middleware.RequireRole("admin"))
	userAdmin.GET("", tenantHandler.ListUsers)

	invites := api.Group("/invitations", middleware.RequireRole("admin"))
	invites.POST("", tenantHandler.CreateInvitation)
	invites.GET("", tenantHandler.ListInvitations)

	// Consultant routes - cross-tenant reach is granted per tenant by the
	// assignment registry, never by the request.
	consultant := api.Group("/consultant", middleware.RequireConsultant)
	consultant.GET("/tenants", consultantHandler.ListTenants)
	consultant.GET("/tenants/:slug/overview", consultantHandler.TenantOverview)
	consultant.GET("/tenants/:slug/audit",
		consultantHandler.TenantAuditLog,
		middleware.RequireCapability(registry, model.CapManageSettings))

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
