package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	paymentControllers "github.com/btttrangcfm09/e-commerce-website-sub000/controllers/payment"
	"github.com/btttrangcfm09/e-commerce-website-sub000/logging"
	"github.com/btttrangcfm09/e-commerce-website-sub000/middleware"
	"github.com/btttrangcfm09/e-commerce-website-sub000/models"
	"github.com/btttrangcfm09/e-commerce-website-sub000/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	log := logging.Init("ecommerce-api", "./logs/app.log")
	log.Info("starting application")

	// Init DB
	db := initDatabase()

	// Schema setup runs once, before any request is served
	if err := models.SetupDatabase(db); err != nil {
		log.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	// Payment gateway client
	gw, err := paymentControllers.NewGatewayFromEnv()
	if err != nil {
		log.Error("payment gateway setup failed", "error", err)
		os.Exit(1)
	}

	// Gin setup
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(log))
	r.Use(middleware.MetricsMiddleware())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup routes
	routes.SetupRoutes(r, db, gw)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("server listening", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	log := logging.New("db")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return db
}
