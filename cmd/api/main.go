package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jmoncada/servitec-api/docs" // Swagger docs
	"github.com/jmoncada/servitec-api/internal/config"
	"github.com/jmoncada/servitec-api/internal/database"
	"github.com/jmoncada/servitec-api/internal/handlers"
	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/middleware"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
	"github.com/jmoncada/servitec-api/internal/storage"
	"github.com/jmoncada/servitec-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Servitec API
// @version 1.0
// @description REST API for the Servitec back-office: sales, installment collections, maintenance and invoicing

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Receipts and reminders will only be logged.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, nil)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Staff account management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.DELETE("/users/:user_id", h.User.Delete)

				// Destructive ledger and sale operations
				admin.POST("/sales/:sale_id/cancel", h.Sale.Cancel)
				admin.DELETE("/installments/:entry_id", h.Installment.Delete)
				admin.POST("/invoices/:invoice_id/void", h.Invoice.Void)
				admin.DELETE("/customers/:customer_id", h.Customer.Delete)

				// Catalog management
				admin.POST("/equipment", h.Equipment.Create)
				admin.PUT("/equipment/:equipment_id", h.Equipment.Update)
				admin.POST("/equipment/:equipment_id/restock", h.Equipment.Restock)
				admin.POST("/service_items", h.ServiceItem.Create)
				admin.PUT("/service_items/:item_id", h.ServiceItem.Update)
				admin.POST("/suppliers", h.Supplier.Create)
				admin.PUT("/suppliers/:supplier_id", h.Supplier.Update)

				// Staff roster
				admin.POST("/employees", h.Employee.Create)
				admin.PUT("/employees/:employee_id", h.Employee.Update)
				admin.DELETE("/employees/:employee_id", h.Employee.Delete)

				// Audit trail and background jobs
				admin.GET("/audits", h.Audit.Index)
				admin.GET("/jobs/stats", h.Job.Stats)
				admin.POST("/jobs/check_overdue", h.Job.RunOverdueCheck)
				admin.POST("/jobs/send_reminders", h.Job.RunMaintenanceReminders)
				admin.POST("/jobs/charge_subscriptions", h.Job.RunSubscriptionCharges)
			}

			// Front desk routes (admin and cashier)
			frontDesk := protected.Group("")
			frontDesk.Use(middleware.RequireRole("admin", "cashier"))
			{
				// Customers
				frontDesk.GET("/customers", h.Customer.Index)
				frontDesk.POST("/customers", h.Customer.Create)
				frontDesk.GET("/customers/:customer_id", h.Customer.Show)
				frontDesk.PUT("/customers/:customer_id", h.Customer.Update)

				// Sales
				frontDesk.GET("/sales", h.Sale.Index)
				frontDesk.GET("/sales/stats", h.Sale.Stats)
				frontDesk.POST("/sales", h.Sale.Create)
				frontDesk.GET("/sales/:sale_id", h.Sale.Show)
				frontDesk.POST("/sales/:sale_id/invoice", h.Sale.Invoice)

				// Installment ledger
				frontDesk.GET("/installments", h.Installment.Index)
				frontDesk.GET("/installments/:entry_id", h.Installment.Show)
				frontDesk.POST("/installments/:entry_id/collect", h.Installment.Collect)
				frontDesk.GET("/plans/:plan_id", h.Installment.ShowPlan)
				frontDesk.GET("/plans/:plan_id/summary", h.Installment.Summary)
				frontDesk.GET("/plans/:plan_id/schedule", h.Installment.Schedule)
				frontDesk.POST("/plans/:plan_id/entries", h.Installment.OpenLedger)

				// Invoices
				frontDesk.GET("/invoices", h.Invoice.Index)
				frontDesk.GET("/invoices/:invoice_id", h.Invoice.Show)
				frontDesk.GET("/invoices/:invoice_id/pdf", h.Invoice.DownloadPDF)

				// Subscriptions
				frontDesk.GET("/subscriptions", h.Subscription.Index)
				frontDesk.POST("/subscriptions", h.Subscription.Create)
				frontDesk.GET("/subscriptions/:subscription_id", h.Subscription.Show)
				frontDesk.POST("/subscriptions/:subscription_id/pause", h.Subscription.Pause)
				frontDesk.POST("/subscriptions/:subscription_id/resume", h.Subscription.Resume)
				frontDesk.POST("/subscriptions/:subscription_id/cancel", h.Subscription.Cancel)

				// Maintenance scheduling
				frontDesk.POST("/maintenance", h.Maintenance.Schedule)
				frontDesk.POST("/maintenance/:order_id/assign", h.Maintenance.Assign)
				frontDesk.POST("/maintenance/:order_id/cancel", h.Maintenance.Cancel)

				// Reports
				frontDesk.GET("/reports/plan_statement_pdf", h.Report.PlanStatementPDF)
				frontDesk.GET("/reports/collections_csv", h.Report.CollectionsCSV)
				frontDesk.GET("/reports/sales_csv", h.Report.SalesCSV)
				frontDesk.GET("/reports/portfolio_xlsx", h.Report.PortfolioXLSX)
			}

			// Field routes (admin and technician)
			field := protected.Group("")
			field.Use(middleware.RequireRole("admin", "technician"))
			{
				field.GET("/maintenance/agenda", h.Maintenance.Agenda)
				field.POST("/maintenance/:order_id/in_route", h.Maintenance.InRoute)
				field.POST("/maintenance/:order_id/complete", h.Maintenance.Complete)
				field.POST("/maintenance/:order_id/evidence", h.Maintenance.UploadEvidence)
			}

			// All authenticated users
			protected.GET("/maintenance", h.Maintenance.Index)
			protected.GET("/maintenance/:order_id", h.Maintenance.Show)
			protected.GET("/equipment", h.Equipment.Index)
			protected.GET("/equipment/:equipment_id", h.Equipment.Show)
			protected.GET("/service_items", h.ServiceItem.Index)
			protected.GET("/service_items/:item_id", h.ServiceItem.Show)
			protected.GET("/suppliers", h.Supplier.Index)
			protected.GET("/suppliers/:supplier_id", h.Supplier.Show)
			protected.GET("/employees", h.Employee.Index)
			protected.GET("/employees/technicians", h.Employee.Technicians)
			protected.GET("/employees/:employee_id", h.Employee.Show)
			protected.GET("/users/:user_id", h.User.Show)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

			// Notifications (users manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Flag overdue installments and notify once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue installments...")
		count, err := svcs.Installment.CheckOverdueEntries(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Overdue check finished", "overdue_count", count)
		return nil
	})

	// Maintenance visit reminders for the next 24 hours
	worker.ScheduleEvery(12*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending maintenance reminders...")
		_, err := svcs.Maintenance.SendReminders(ctx)
		return err
	})

	// Monthly subscription charges; ChargeMonthly skips subscriptions
	// whose next charge date has not arrived
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Charging active subscriptions...")
		count, err := svcs.Subscription.ChargeMonthly(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Subscription charges finished", "invoiced_count", count)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
