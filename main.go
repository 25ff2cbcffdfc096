package main

import (
	"log"
	"net/http"

	"price-engine/internal/api"
	"price-engine/internal/config"
	"price-engine/internal/database"
	"price-engine/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	engineCfg := pricing.DefaultEngineConfig()
	if err := engineCfg.Apply(cfg); err != nil {
		log.Fatal("Invalid engine configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	store := pricing.NewGormStore(db, engineCfg)
	engine := pricing.NewEngine(store, engineCfg)

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, db, engine, store)

	log.Printf("Server starting on port %s (mode=%s)", cfg.Port, engineCfg.Mode)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
