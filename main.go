package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmalakhov/service-center-api/config"
	"github.com/vmalakhov/service-center-api/controllers"
	"github.com/vmalakhov/service-center-api/models"
	"github.com/vmalakhov/service-center-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Service Center API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed photo storage when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPhotoService(s3Service)
		log.Printf("Photo storage initialized (bucket %s)", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set, order photo endpoints are disabled")
	}

	router := setupRouter(db)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the full API route table over the given database handle
func setupRouter(db *gorm.DB) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	orderService := services.NewOrderService(db)

	customerController := controllers.NewCustomerController(db)
	employeeController := controllers.NewEmployeeController(db)
	modelController := controllers.NewRepairableModelController(db)
	faultTypeController := controllers.NewFaultTypeController(db)
	carController := controllers.NewCarController(db)
	orderController := controllers.NewOrderController(orderService)
	photoController := controllers.NewPhotoController(db)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus(db))

		customers := v1.Group("/customers")
		{
			customers.POST("", customerController.Create)
			customers.GET("", customerController.List)
			customers.GET("/:id", customerController.Get)
			customers.PUT("/:id", customerController.Update)
			customers.DELETE("/:id", customerController.Delete)
		}

		employees := v1.Group("/employees")
		{
			employees.POST("", employeeController.Create)
			employees.GET("", employeeController.List)
			employees.GET("/positions", employeeController.Positions)
			employees.GET("/:id", employeeController.Get)
			employees.PUT("/:id", employeeController.Update)
			employees.DELETE("/:id", employeeController.Delete)
		}

		repairableModels := v1.Group("/models")
		{
			repairableModels.POST("", modelController.Create)
			repairableModels.GET("", modelController.List)
			repairableModels.GET("/:id", modelController.Get)
			repairableModels.PUT("/:id", modelController.Update)
			repairableModels.DELETE("/:id", modelController.Delete)
		}

		faultTypes := v1.Group("/fault-types")
		{
			faultTypes.POST("", faultTypeController.Create)
			faultTypes.GET("", faultTypeController.List)
			faultTypes.GET("/:id", faultTypeController.Get)
			faultTypes.PUT("/:id", faultTypeController.Update)
			faultTypes.DELETE("/:id", faultTypeController.Delete)
		}

		cars := v1.Group("/cars")
		{
			cars.POST("", carController.Create)
			cars.GET("", carController.List)
			cars.GET("/:id", carController.Get)
			cars.PUT("/:id", carController.Update)
			cars.DELETE("/:id", carController.Delete)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", orderController.Create)
			orders.GET("", orderController.List)
			orders.GET("/faults-by-car", orderController.FaultsByCar)
			orders.GET("/:id", orderController.Get)
			orders.PUT("/:id", orderController.Update)
			orders.DELETE("/:id", orderController.Delete)
			orders.POST("/:id/photo", photoController.Upload)
			orders.DELETE("/:id/photo", photoController.Delete)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service Center API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		var tables []string
		if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
