package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
	"github.com/fleetcrm/fleetcrm/infrastructure/adapter/postgres"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/password"
)

func main() {
	email := flag.String("email", "admin@fleetcrm.local", "login email")
	pass := flag.String("password", "", "initial password (min 8 characters)")
	name := flag.String("name", "Administrator", "display name")
	role := flag.String("role", entity.RoleAdmin, "staff role: admin, director, driver or owner")
	flag.Parse()

	if *pass == "" {
		log.Fatal("-password is required")
	}
	if !entity.IsValidRole(*role) {
		log.Fatalf("invalid role %q", *role)
	}
	credentials, err := valueobject.NewCredentials(*email, *pass)
	if err != nil {
		log.Fatalf("invalid credentials: %v", err)
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	exists, err := userRepo.ExistsByEmail(ctx, credentials.Email())
	if err != nil {
		log.Fatalf("Failed to check email: %v", err)
	}
	if exists {
		log.Fatalf("A user with email %s already exists", credentials.Email())
	}

	hashed, err := password.NewBcryptPasswordService(10).HashPassword(*pass)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := entity.NewUserWithDefaults(uuid.New().String(), *name, credentials.Email(), hashed, *role)
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created %s %s <%s> id=%s\n", user.Role, user.Name, user.Email, user.ID)
}
