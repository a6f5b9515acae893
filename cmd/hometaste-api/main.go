package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hometaste/hometaste-api/docs"
	"github.com/hometaste/hometaste-api/internal/admin"
	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/config"
	"github.com/hometaste/hometaste-api/internal/cook"
	"github.com/hometaste/hometaste-api/internal/httpx"
	"github.com/hometaste/hometaste-api/internal/menu"
	"github.com/hometaste/hometaste-api/internal/message"
	"github.com/hometaste/hometaste-api/internal/order"
	"github.com/hometaste/hometaste-api/internal/user"
)

//	@title						HomeTaste API
//	@version					1.0.0
//	@description				Marketplace backend connecting home cooks with local buyers.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[main] connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("[main] ping postgres: %v", err)
	}
	log.Println("[main] connected to postgres")

	users := user.NewPGRepo(pool)
	cooks := cook.NewPGRepo(pool)
	items := menu.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	messages := message.NewPGRepo(pool)
	stats := admin.NewPGStats(pool)

	tokens := auth.NewTokenService(cfg.JWTSecretKey, cfg.AccessTokenMinutes)
	mw := auth.NewMiddleware(users, tokens)

	router := gin.New()
	router.Use(httpx.RequestID(), httpx.Logger(), httpx.Recovery(), httpx.CORS())

	router.GET("/", rootHandler)
	router.GET("/health", healthHandler)
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth.RegisterRoutes(router.Group("/auth"), users, tokens, cfg)
	cook.RegisterRoutes(router.Group("/cooks"), cooks, mw)
	menu.RegisterRoutes(router.Group("/menu"), items, cooks, mw)
	order.RegisterRoutes(router.Group("/orders"), orders, items, cooks, mw)
	message.RegisterRoutes(router.Group("/messages"), messages, orders, cooks, mw)
	admin.RegisterRoutes(router.Group("/admin"), users, orders, messages, stats, mw)

	log.Printf("[main] listening on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}

// rootHandler reports service identity and liveness.
//
//	@Summary	Service info
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/ [get]
func rootHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "Welcome to HomeTaste API",
		"version": "1.0.0",
		"status":  "healthy",
	})
}

// healthHandler is the bare liveness probe.
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy"})
}
