// Package main provides admin management utilities for Chirp.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/service"

	"golang.org/x/term"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go createsuperuser <email> <name>  - Create a superuser account")
		fmt.Println("  go run ./cmd/admin/main.go list-staff                      - List all staff users")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "createsuperuser":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin/main.go createsuperuser <email> <name>")
			os.Exit(1)
		}
		createSuperuser(db, os.Args[2], os.Args[3])

	case "list-staff":
		listStaff(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createSuperuser(db *gorm.DB, email, name string) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}

	svc := service.NewUserService(repository.NewUserRepository(db))
	user, err := svc.CreateSuperuser(context.Background(), service.RegisterInput{
		Email:    email,
		Name:     name,
		Password: string(password),
	})
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	fmt.Printf("Superuser %s (ID %d) created\n", user.Email, user.ID)
}

func listStaff(db *gorm.DB) {
	var users []models.User
	if err := db.Where("is_staff = ?", true).Order("id").Find(&users).Error; err != nil {
		log.Fatalf("Failed to list staff users: %v", err)
	}

	if len(users) == 0 {
		fmt.Println("No staff users found")
		return
	}
	for _, u := range users {
		fmt.Printf("%d\t%s\t%s\tsuperuser=%v\n", u.ID, u.Email, u.Name, u.IsSuperuser)
	}
}
