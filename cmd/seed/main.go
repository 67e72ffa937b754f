package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/adapter/postgres"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/password"
)

type seedUser struct {
	name  string
	email string
	role  string
}

type seedVehicle struct {
	registration string
	make         string
	model        string
	year         int
	dailyRate    float64
	ownedBy      string
}

var (
	demoUsers = []seedUser{
		{"Demo Director", "director@fleetcrm.local", entity.RoleDirector},
		{"Demo Driver", "driver@fleetcrm.local", entity.RoleDriver},
		{"Demo Owner", "owner@fleetcrm.local", entity.RoleOwner},
	}
	demoVehicles = []seedVehicle{
		{"KDA 123A", "Toyota", "Axio", 2018, 4500, "owner@fleetcrm.local"},
		{"KDB 456B", "Toyota", "Prado", 2020, 12000, "owner@fleetcrm.local"},
		{"KDC 789C", "Nissan", "Note", 2017, 3500, ""},
	}
	demoCustomers = []*entity.Customer{
		entity.NewCustomer("", "Wanjiku Mwangi", "wanjiku@example.com", "254712345678", "12345678", "DL-0001"),
		entity.NewCustomer("", "Otieno Ochieng", "otieno@example.com", "254722000111", "23456789", "DL-0002"),
	}
)

// Seeds demo staff, vehicles and customers. Existing rows are left alone so
// the command can be re-run.
func main() {
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pass := os.Getenv("SEED_USER_PASSWORD")
	if pass == "" {
		pass = "Demo1234!"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	hashed, err := password.NewBcryptPasswordService(10).HashPassword(pass)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	userIDs := map[string]string{}
	for _, u := range demoUsers {
		existing, err := userRepo.FindByEmail(ctx, u.email)
		if err == nil {
			userIDs[u.email] = existing.ID
			fmt.Printf("user %s exists\n", u.email)
			continue
		}
		if !errors.Is(err, outbound.ErrUserNotFound) {
			log.Fatalf("failed to look up %s: %v", u.email, err)
		}

		user := entity.NewUserWithDefaults(uuid.New().String(), u.name, u.email, hashed, u.role)
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		userIDs[u.email] = user.ID
		fmt.Printf("user %s created (%s)\n", u.email, u.role)
	}

	for _, v := range demoVehicles {
		var ownerID *string
		if id, ok := userIDs[v.ownedBy]; ok {
			ownerID = &id
		}
		vehicle := entity.NewVehicle(uuid.New().String(), v.registration, v.make, v.model, v.year, v.dailyRate, ownerID)
		err := vehicleRepo.Create(ctx, vehicle)
		switch {
		case errors.Is(err, outbound.ErrDuplicateVehicle):
			fmt.Printf("vehicle %s exists\n", v.registration)
		case err != nil:
			log.Fatalf("failed to seed vehicle %s: %v", v.registration, err)
		default:
			fmt.Printf("vehicle %s created\n", v.registration)
		}
	}

	for _, c := range demoCustomers {
		if _, err := customerRepo.FindByEmail(ctx, c.Email); err == nil {
			fmt.Printf("customer %s exists\n", c.Email)
			continue
		} else if !errors.Is(err, outbound.ErrCustomerNotFound) {
			log.Fatalf("failed to look up customer %s: %v", c.Email, err)
		}
		c.ID = uuid.New().String()
		if err := customerRepo.Create(ctx, c); err != nil {
			log.Fatalf("failed to seed customer %s: %v", c.Email, err)
		}
		fmt.Printf("customer %s created\n", c.Email)
	}

	fmt.Printf("Seeded demo data. Staff password: %s\n", pass)
}
