package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/academic-records-api/api/swagger"
	"github.com/noah-isme/academic-records-api/internal/handler"
	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/query"
	"github.com/noah-isme/academic-records-api/internal/rbac"
	"github.com/noah-isme/academic-records-api/internal/resource"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/internal/store"
	"github.com/noah-isme/academic-records-api/pkg/config"
	"github.com/noah-isme/academic-records-api/pkg/database"
	"github.com/noah-isme/academic-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/requestid"
)

// @title Academic Records API
// @version 1.0.0
// @description Admin-facing academic records service with uniform, descriptor-driven CRUD resources
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	registry, err := resource.DefaultRegistry()
	if err != nil {
		logr.Sugar().Fatalw("invalid resource registry", "error", err)
	}

	policy := rbac.DefaultPolicy()
	if err := policy.Validate(registry); err != nil {
		logr.Sugar().Fatalw("invalid permission table", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	pg := store.NewPostgres(db, registry)
	executor := query.NewExecutor(query.SourceFunc(func(name string) (query.Collection, bool) {
		coll, ok := pg.Collection(name)
		if !ok {
			return nil, false
		}
		return coll, true
	}))

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := middleware.NewMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Actor(cfg.JWT.Secret))

	for _, name := range registry.Names() {
		desc, _ := registry.Get(name)
		coll, ok := pg.Collection(name)
		if !ok {
			logr.Sugar().Fatalw("no collection for resource", "resource", name)
		}
		svc := service.NewCRUD(desc, coll, executor, policy, logr)
		handler.NewResourceHandler(desc, svc).Mount(api)
		logr.Sugar().Infow("resource mounted", "resource", name, "collection", desc.Collection)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
