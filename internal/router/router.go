package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/creche-api/internal/handler"
	"github.com/noah-isme/creche-api/internal/middleware"
	"github.com/noah-isme/creche-api/internal/service"
	"github.com/noah-isme/creche-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/creche-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/creche-api/pkg/middleware/requestid"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Students *handler.StudentHandler
	Reports  *handler.ReportHandler
	Metrics  *handler.MetricsHandler
}

// Options carries the cross-cutting pieces the router wires in.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Sessions       middleware.SessionAuthenticator
}

// New builds the gin engine with middleware and every route.
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.Session(opts.Sessions))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)

	students := secured.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/export", h.Students.Export)
	students.GET("/:id", h.Students.Get)
	students.GET("/:id/form", h.Students.Form)
	students.PUT("/:id", h.Students.Update)

	reports := secured.Group("/reports")
	reports.GET("/stats", h.Reports.Stats)
	reports.GET("/recent", h.Reports.Recent)
	reports.GET("/export", h.Reports.Export)

	secured.GET("/metrics/snapshot", h.Metrics.Snapshot)

	return r
}
