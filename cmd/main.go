package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"workero/internal/handlers"
	"workero/internal/jobs"
	"workero/internal/jobs/background"
	"workero/internal/middleware"
	"workero/internal/repositories"
	"workero/internal/services"
	"workero/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// MinIO configuration for quote PDF archiving; optional.
	var objectStore services.ObjectStore
	if minioEndpoint := os.Getenv("MINIO_ENDPOINT"); minioEndpoint != "" {
		minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
		if minioAccessKey == "" {
			minioAccessKey = "minioadmin" // Default for development
		}
		minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
		if minioSecretKey == "" {
			minioSecretKey = "minioadmin" // Default for development
		}
		useSSL := os.Getenv("MINIO_USE_SSL") == "true"

		objectStore, err = services.NewMinioStore(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
		if err != nil {
			log.Fatalf("Failed to initialize object store: %v", err)
		}
	}

	// Create repositories
	userRepo := repositories.NewUserRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	quoteRepo := repositories.NewQuoteRepository(pool)
	jobRepo := repositories.NewJobRepository(pool)
	scheduleRepo := repositories.NewScheduleRepository(pool)
	messageRepo := repositories.NewMessageRepository(pool)

	// Create services
	quoteSvc := services.NewQuoteService(quoteRepo, clientRepo, userRepo, jobRepo)
	jobSvc := services.NewJobService(jobRepo)
	scheduleSvc := services.NewScheduleService(scheduleRepo)
	messageSvc := services.NewMessageService(messageRepo)
	pdfSvc := services.NewQuotePDFService(objectStore)

	// Create handlers
	quoteHandlers := handlers.NewQuoteHandlers(quoteSvc, pdfSvc)
	jobHandlers := handlers.NewJobHandlers(jobSvc)
	scheduleHandlers := handlers.NewScheduleHandlers(scheduleSvc)
	messageHandlers := handlers.NewMessageHandlers(messageSvc)

	// Background reminder sweep
	reminderSvc := jobs.NewJobReminderService(companyRepo, jobRepo, messageRepo)
	scheduler, err := background.NewScheduler(reminderSvc)
	if err != nil {
		log.Fatalf("Failed to create background scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck)
	e.GET("/health/detailed", func(c echo.Context) error {
		return handlers.HealthCheckDetailed(c, pool)
	})

	// API routes
	v1 := e.Group("/v1")

	// JWT middleware configuration
	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}

	// Protected routes (require JWT; company scope resolved from the token)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))
	protected.Use(middleware.CompanyScope(userRepo))

	// Quote routes
	protected.GET("/quotes", quoteHandlers.ListQuotes)
	protected.POST("/quotes", quoteHandlers.CreateQuote)
	protected.GET("/quotes/:id", quoteHandlers.GetQuote)
	protected.PUT("/quotes/:id", quoteHandlers.UpdateQuote)
	protected.DELETE("/quotes/:id", quoteHandlers.DeleteQuote)
	protected.POST("/quotes/:id/send", quoteHandlers.SendQuote)
	protected.POST("/quotes/:id/accept", quoteHandlers.AcceptQuote)
	protected.POST("/quotes/:id/reject", quoteHandlers.RejectQuote)
	protected.POST("/quotes/:id/convert-to-job", quoteHandlers.ConvertQuoteToJob)
	protected.GET("/quotes/:id/pdf", quoteHandlers.DownloadQuotePDF)
	protected.GET("/quotes/:id/pdf/stream", quoteHandlers.StreamQuotePDF)

	// Job routes
	protected.GET("/jobs", jobHandlers.ListJobs)
	protected.GET("/jobs/:id", jobHandlers.GetJob)

	// Schedule routes
	protected.GET("/schedule/events", scheduleHandlers.ListEvents)
	protected.GET("/schedule/availability", scheduleHandlers.Availability)
	protected.GET("/schedule/conflicts", scheduleHandlers.Conflicts)

	// Message routes
	protected.GET("/messages", messageHandlers.ListMessages)
	protected.GET("/messages/threads", messageHandlers.ListThreads)
	protected.GET("/messages/templates", messageHandlers.ListTemplates)
	protected.POST("/messages/send", messageHandlers.SendMessage)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Workero server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
