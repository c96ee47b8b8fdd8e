package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homehelp_backend/database"
	"homehelp_backend/internal/config"
	"homehelp_backend/internal/handlers"
	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/middleware"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/repositories"
	"homehelp_backend/internal/routes"
	"homehelp_backend/internal/services"
	"homehelp_backend/internal/validator"
	"homehelp_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serviceContainer := initializeServices(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paymentWorker := workers.NewPaymentWorker(serviceContainer.PaymentService)
	paymentWorker.Start(ctx)

	ginRouter := SetupRouter(cfg, serviceContainer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	repos := repositories.NewRepositoryContainer(gormDB)

	var gateway mpesa.Gateway
	if cfg.Payments.DevMode {
		logger.Warn("Payments running in simulated mode. No real gateway calls will be made.")
		gateway = mpesa.NewSimulatedGateway()
	} else {
		gateway = mpesa.NewDarajaClient(mpesa.DarajaConfig{
			ConsumerKey:    cfg.Payments.Mpesa.ConsumerKey,
			ConsumerSecret: cfg.Payments.Mpesa.ConsumerSecret,
			Shortcode:      cfg.Payments.Mpesa.Shortcode,
			Passkey:        cfg.Payments.Mpesa.Passkey,
			CallbackURL:    cfg.Payments.Mpesa.CallbackURL,
			Environment:    cfg.Payments.Mpesa.Environment,
		})
	}

	return services.NewServiceContainer(cfg, repos, gateway)
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())
	return ginRouter
}

// seedFirstAdmin creates the bootstrap admin account on first start. A
// no-op when unconfigured or when the account already exists.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password not configured. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        adminEmail,
		PasswordHash: string(hashed),
		FirstName:    "Admin",
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
