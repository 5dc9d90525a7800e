// scripts/create_admin.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/config"
	"github.com/ristinalapbulan-create/sipandusd/database"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage/mongodb"
)

func main() {
	// muat config dan koneksi DB persis seperti main.go
	cfg := config.Load()
	database.Connect(cfg)
	defer database.Disconnect(context.Background())

	username := "admin@" + cfg.HandleDomain
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	store := mongodb.New(database.DB)
	ctx := context.Background()

	// cek dulu supaya tidak dobel
	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		fmt.Println("admin user already exists:", username)
		os.Exit(0)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		log.Fatalf("failed to query users: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Name:         "Operator Dinas",
	}
	if err := store.UpsertUser(ctx, u); err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("admin user created")
	fmt.Println("  username:", username)
	fmt.Println("  password:", password, "(plain, ganti setelah login!)")
}
