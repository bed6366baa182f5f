package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const (
	demoEmail    = "demo@taskhub.local"
	demoPassword = "password123"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}, &model.TaskComment{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	user, err := userRepo.FindByEmail(ctx, demoEmail)
	if err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = &model.User{
			Name:         "Demo User",
			Email:        demoEmail,
			PasswordHash: string(hashed),
			Role:         model.RoleUser,
			Preferences:  model.DefaultPreferences(),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s", demoEmail)
	} else if err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	} else {
		log.Printf("Demo user %s already exists", demoEmail)
	}

	existing, err := taskRepo.CountOwned(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to count tasks: %v", err)
	}
	if existing > 0 {
		log.Printf("Demo user already has %d tasks, nothing to do", existing)
		return
	}

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	tasks := []model.Task{
		{
			Title:     "Ship quarterly report",
			Status:    model.StatusInProgress,
			Priority:  model.PriorityHigh,
			Category:  model.CategoryWork,
			DueDate:   &nextWeek,
			Tags:      []string{"report", "q3"},
			CreatedBy: user.ID,
		},
		{
			Title:       "Renew gym membership",
			Description: "Ask about the annual plan discount",
			Status:      model.StatusTodo,
			Priority:    model.PriorityLow,
			Category:    model.CategoryHealth,
			DueDate:     &yesterday,
			CreatedBy:   user.ID,
		},
		{
			Title:     "Buy groceries",
			Status:    model.StatusDone,
			Priority:  model.PriorityMedium,
			Category:  model.CategoryShopping,
			CreatedBy: user.ID,
		},
		{
			Title:      "Read the distributed systems paper",
			Status:     model.StatusReview,
			Priority:   model.PriorityMedium,
			Category:   model.CategoryEducation,
			Tags:       []string{"reading"},
			CreatedBy:  user.ID,
			IsArchived: true,
		},
	}

	created := 0
	for i := range tasks {
		if tasks[i].Status == model.StatusDone {
			done := now
			tasks[i].CompletedAt = &done
		}
		if err := taskRepo.Create(ctx, &tasks[i]); err != nil {
			log.Printf("Failed to create task %q: %v", tasks[i].Title, err)
			continue
		}
		created++
	}

	log.Printf("Seed completed: %d tasks created for %s", created, demoEmail)
}
