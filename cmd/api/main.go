package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"saveandplay/internal/analytics"
	"saveandplay/internal/config"
	"saveandplay/internal/currency"
	"saveandplay/internal/database"
	_ "saveandplay/internal/docs" // Import swagger docs
	"saveandplay/internal/handlers"
	"saveandplay/internal/logger"
	"saveandplay/internal/middleware"
	"saveandplay/internal/services"
	"saveandplay/internal/store"
	"saveandplay/internal/tips"
	"saveandplay/internal/validator"
)

// @title           Save & Play API
// @version         1.0
// @description     Save & Play tracks savings goals, debts, incomes and expenses in dollars and Dominican pesos.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("closing database", "error", err)
		}
	}()
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	normalizer, err := currency.NewNormalizer(
		currency.Code(appConfig.CanonicalCurrency),
		map[currency.Code]float64{currency.Code(appConfig.DisplayCurrency): appConfig.ExchangeRate},
	)
	if err != nil {
		return fmt.Errorf("invalid currency configuration: %w", err)
	}

	tracker, err := analytics.NewTracker(appConfig.PosthogAPIKey, appConfig.PosthogEndpoint)
	if err != nil {
		return fmt.Errorf("failed to create analytics tracker: %w", err)
	}
	defer tracker.Close()

	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var generator tips.Generator
	if appConfig.TipsAPIURL != "" {
		generator = tips.NewClient(appConfig.TipsAPIURL, appConfig.TipsAPIKey, appConfig.TipsTimeout, nil)
	} else {
		log.Warn("TIPS_API_URL is empty, serving the default savings tip")
	}

	router, cleanup, err := newRouter(appConfig, dbManager.DB(), normalizer, generator, tracker)
	if err != nil {
		return err
	}
	defer cleanup()

	log.Infof("Starting Save & Play server on port %s (%s database)", appConfig.Port, dbManager.Driver())
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newRouter wires the services and handlers over db. The returned cleanup
// detaches the activity trail from the store.
func newRouter(
	appConfig *config.Config,
	db *gorm.DB,
	normalizer *currency.Normalizer,
	generator tips.Generator,
	tracker *analytics.Tracker,
) (*gin.Engine, func(), error) {
	// Initialize services
	st := store.New(db)
	categoryService := services.NewCategoryService(st)
	userService := services.NewUserService(st, categoryService)
	goalService := services.NewGoalService(st, normalizer)
	debtService := services.NewDebtService(st, normalizer)
	ledgerService := services.NewLedgerService(st, normalizer)
	dashboardService := services.NewDashboardService(st)
	tipService := services.NewTipService(st, generator)
	auditService := services.NewAuditService(db)
	detachAudit := auditService.Attach(st)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tracker)
	goalHandler := handlers.NewGoalHandler(goalService, userService, tracker)
	debtHandler := handlers.NewDebtHandler(debtService, userService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, tipService, userService, normalizer)
	activityHandler := handlers.NewActivityHandler(auditService)
	exportHandler := handlers.NewExportHandler(dashboardService, userService, normalizer)

	rateLimiter, err := middleware.NewRateLimiter(appConfig.RateLimit)
	if err != nil {
		detachAudit()
		return nil, nil, fmt.Errorf("invalid rate limit %q: %w", appConfig.RateLimit, err)
	}

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(appConfig.CORSOrigins)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(rateLimiter))

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.Use(middleware.Analytics(tracker))

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contributions", goalHandler.Contribute)
	goals.GET("/:id/contributions", goalHandler.ListContributions)
	protected.GET("/contributions", goalHandler.ListAllContributions)

	debts := protected.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.ListDebts)
	debts.GET("/:id", debtHandler.GetDebt)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)
	debts.POST("/:id/payments", debtHandler.Pay)
	debts.GET("/:id/payments", debtHandler.ListPayments)

	incomes := protected.Group("/incomes")
	incomes.POST("", ledgerHandler.CreateIncome)
	incomes.GET("", ledgerHandler.ListIncomes)
	incomes.PUT("/:id", ledgerHandler.UpdateIncome)
	incomes.DELETE("/:id", ledgerHandler.DeleteIncome)

	expenses := protected.Group("/expenses")
	expenses.POST("", ledgerHandler.CreateExpense)
	expenses.GET("", ledgerHandler.ListExpenses)
	expenses.PUT("/:id", ledgerHandler.UpdateExpense)
	expenses.DELETE("/:id", ledgerHandler.DeleteExpense)

	categories := protected.Group("/categories/:kind")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.POST("/reorder", categoryHandler.Reorder)
	categories.GET("/details", categoryHandler.Details)

	protected.GET("/dashboard", dashboardHandler.Summary)
	protected.GET("/dashboard/report", dashboardHandler.Report)
	protected.GET("/tips", dashboardHandler.Tip)
	protected.GET("/currency/format", dashboardHandler.Format)
	protected.GET("/activity", activityHandler.ListActivity)
	protected.GET("/export", exportHandler.Export)

	return router, detachAudit, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Disposition"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
