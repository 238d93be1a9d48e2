package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"tasknest/internal/cache"
	"tasknest/internal/config"
	"tasknest/internal/db"
	"tasknest/internal/handler"
	"tasknest/internal/model"
	"tasknest/internal/repository"
	"tasknest/internal/router"
	"tasknest/internal/service"
	"tasknest/internal/session"
	"tasknest/internal/storage"
)

// @title TaskNest API
// @version 1.0
// @description Personal task manager with categories, priorities, dashboard statistics and profiles.
// @host localhost:8080
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := openDB(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Task{},
			&model.Category{},
			&model.UserProfile{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Category{},
		&model.Task{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	avatarStore, err := storage.NewDiskAvatarStore(cfg.AvatarDir)
	if err != nil {
		log.Fatalf("avatar store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize session components
	sessionManager := session.NewManager(cfg.SessionSecret)
	sessionStore := session.NewRedisStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionManager, sessionStore)
	taskService := service.NewTaskService(taskRepo, categoryRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo)
	profileService := service.NewProfileService(userRepo, profileRepo, avatarStore)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService, categoryService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	profileHandler := handler.NewProfileHandler(profileService)

	// Register routes
	router.Register(
		e,
		cfg,
		sessionStore,
		authHandler,
		taskHandler,
		categoryHandler,
		profileHandler,
	)

	// Serve uploaded avatars
	e.Static("/media/avatars", cfg.AvatarDir)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return db.NewSQLite(cfg.SQLitePath)
	}
	return db.NewMySQL(cfg.MySQLDSN)
}
