package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/tastebase/tastebase-backend/config"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/db"
	"github.com/tastebase/tastebase-backend/pkg/util"
	"gorm.io/gorm"
)

// Bootstraps the first admin account. Usage:
//
//	go run cmd/seed/main.go <email> <password> [username]
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <email> <password> [username]")
	}

	email := os.Args[1]
	password := os.Args[2]
	username := "admin"
	if len(os.Args) > 3 {
		username = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	existing, err := userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to check existing user:", err)
	}

	if existing != nil {
		if existing.Role == model.RoleAdmin {
			fmt.Printf("Admin account already exists: %s\n", email)
			return
		}

		// Promote the existing account instead of creating a duplicate
		fmt.Printf("User %s exists with role %s. Promote to admin? (yes/no): ", email, existing.Role)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Seed cancelled.")
			return
		}

		if err := userRepo.UpdateRole(existing.ID, model.RoleAdmin); err != nil {
			log.Fatal("Failed to promote user:", err)
		}
		fmt.Printf("User %s promoted to admin.\n", email)
		return
	}

	hashed, err := util.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FullName:     "Administrator",
		Role:         model.RoleAdmin,
	}

	if err := userRepo.Create(admin); err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	fmt.Printf("Admin account created: %s (id=%d)\n", email, admin.ID)
}
