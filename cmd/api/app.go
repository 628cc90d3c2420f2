package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hugohenrick/erp-estoque/internal/adapter/api/docs"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/route"
	"github.com/hugohenrick/erp-estoque/internal/adapter/repository"
	"github.com/hugohenrick/erp-estoque/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-estoque/internal/config"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/internal/infrastructure/database"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
	"github.com/hugohenrick/erp-estoque/pkg/auth"
	"github.com/hugohenrick/erp-estoque/pkg/idempotency"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
	"github.com/hugohenrick/erp-estoque/pkg/metrics"
	"github.com/hugohenrick/erp-estoque/pkg/pkcs12"
)

// App representa a aplicação e suas dependências
type App struct {
	cfg     *config.Config
	log     logger.Logger
	router  *gin.Engine
	server  *http.Server
	db      *database.PostgresDB
	redis   *redis.Client
	tenancy *tenancy.Service
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	st, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	// Métricas em registry próprio para não misturar com o default global
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	jwtService, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		app.Close()
		return nil, err
	}

	var guard idempotency.Guard
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("erro ao conectar ao Redis: %w", err)
		}
		guard = idempotency.NewRedisGuard(app.redis, cfg.Redis.IdempotencyTTL)
		log.Info("proteção por Idempotency-Key ativada", "addr", cfg.Redis.Addr)
	}

	app.tenancy = tenancy.NewService(st, log)
	ledgerSvc := ledger.NewService(st, log, ledgerMetrics)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware(log))
	router.Use(httpMetrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", idempotency.Header, logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", app.health)
	router.GET("/metrics", metrics.Handler(registry))

	docs.SwaggerInfo.BasePath = cfg.Server.BasePath
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	route.SetupRoutes(router.Group(cfg.Server.BasePath), route.Dependencies{
		Tenancy:    app.tenancy,
		Ledger:     ledgerSvc,
		JWTService: jwtService,
		Guard:      guard,
		Logger:     log,
	})

	app.router = router
	return app, nil
}

// openStore escolhe o armazenamento configurado
func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.Storage.Driver == "memory" {
		a.log.Warn("usando armazenamento em memória; os dados não sobrevivem ao reinício")
		return memory.NewStore(), nil
	}

	if a.cfg.Storage.AutoMigrate {
		migrator, err := database.NewMigrator(a.cfg.Postgres.ConnectionString(), a.log)
		if err != nil {
			return nil, err
		}
		err = migrator.Up()
		migrator.Close()
		if err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresDB(ctx, a.cfg.Postgres, a.log)
	if err != nil {
		return nil, err
	}
	a.db = db
	return repository.NewPostgresStore(db), nil
}

// Bootstrap cria o desenvolvedor inicial quando configurado
func (a *App) Bootstrap(ctx context.Context) error {
	b := a.cfg.Bootstrap
	if b.Username == "" {
		return nil
	}

	_, created, err := a.tenancy.EnsureDeveloper(ctx, user.Profile{
		Username: b.Username,
		IDNumber: b.IDNumber,
	}, b.Password)
	if err != nil {
		return fmt.Errorf("erro ao criar desenvolvedor inicial: %w", err)
	}
	if !created {
		a.log.Debug("desenvolvedor inicial já existe", "username", b.Username)
	}
	return nil
}

func (a *App) health(c *gin.Context) {
	status := gin.H{"status": "ok", "version": "1.0.0", "storage": a.cfg.Storage.Driver}

	if a.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}

	c.JSON(http.StatusOK, status)
}

// Start sobe o servidor HTTP, ou HTTPS quando há certificado PFX configurado.
// Retorna http.ErrServerClosed após Shutdown.
func (a *App) Start() error {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	if a.cfg.TLS.PFXPath == "" {
		a.log.Info("servidor HTTP iniciado", "port", a.cfg.Server.Port, "base_path", a.cfg.Server.BasePath)
		return a.server.ListenAndServe()
	}

	cert, err := pkcs12.LoadTLSCertificate(a.cfg.TLS.PFXPath, a.cfg.TLS.PFXPassword)
	if err != nil {
		return err
	}
	a.server.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	a.log.Info("servidor HTTPS iniciado", append([]interface{}{"port", a.cfg.Server.Port}, pkcs12.Describe(cert.Leaf)...)...)
	return a.server.ListenAndServeTLS("", "")
}

// Shutdown encerra o servidor aguardando as requisições em andamento
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("erro ao fechar conexão com o Redis", "error", err.Error())
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
