package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/skyward/accountd/internal/config"
	"github.com/skyward/accountd/internal/db"
	"github.com/skyward/accountd/internal/repository"
	"github.com/skyward/accountd/internal/service"
	"github.com/skyward/accountd/internal/storage"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	AuthService  *service.AuthService
	UserService  *service.UserService
	ImageService *service.ImageService
	EmailService *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	imageRepository := repository.NewImageRepository(database)

	// Storage
	imageStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	userService := service.NewUserService(userRepository, emailService, cfg.AppURL, cfg.VerifyTokenExpiry)
	authService := service.NewAuthService(userRepository, cfg.AuthVerifyBypass)
	imageService := service.NewImageService(imageRepository, imageStorage)

	return &App{
		Cfg:          cfg,
		DB:           database,
		AuthService:  authService,
		UserService:  userService,
		ImageService: imageService,
		EmailService: emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
