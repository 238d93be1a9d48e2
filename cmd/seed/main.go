package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tasknest/internal/config"
	"tasknest/internal/db"
	"tasknest/internal/model"
	"tasknest/internal/repository"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoPassword = "demo-password"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := openDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Category{},
		&model.Task{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	if _, err := userRepo.FindByUsername(ctx, demoUsername); err == nil {
		log.Println("Demo user already exists, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user, _, err := userRepo.CreateWithProfile(ctx, &model.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created demo user %q (id=%d)", user.Username, user.ID)

	categories := []model.Category{
		{UserID: &user.ID, Name: "Work", Color: "#0d6efd"},
		{UserID: &user.ID, Name: "Home", Color: "#198754"},
		{UserID: &user.ID, Name: "Errands", Color: model.DefaultCategoryColor},
	}
	for i := range categories {
		if err := categoryRepo.Create(ctx, &categories[i]); err != nil {
			log.Fatalf("Failed to create category %q: %v", categories[i].Name, err)
		}
	}
	log.Printf("Created %d categories", len(categories))

	yesterday := time.Now().Add(-24 * time.Hour)
	nextWeek := time.Now().Add(7 * 24 * time.Hour)
	tasks := []model.Task{
		{UserID: &user.ID, CategoryID: &categories[0].ID, Title: "Prepare quarterly report", Priority: model.PriorityHigh, DueDate: &nextWeek},
		{UserID: &user.ID, CategoryID: &categories[1].ID, Title: "Fix the kitchen tap", Priority: model.PriorityMedium, DueDate: &yesterday},
		{UserID: &user.ID, CategoryID: &categories[2].ID, Title: "Buy milk", Priority: model.PriorityLow},
		{UserID: &user.ID, Title: "Book dentist appointment", Priority: model.PriorityMedium, Completed: true},
	}
	for i := range tasks {
		if err := taskRepo.Create(ctx, &tasks[i]); err != nil {
			log.Fatalf("Failed to create task %q: %v", tasks[i].Title, err)
		}
	}
	log.Printf("Created %d tasks", len(tasks))

	log.Println("Seed completed")
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return db.NewSQLite(cfg.SQLitePath)
	}
	return db.NewMySQL(cfg.MySQLDSN)
}
