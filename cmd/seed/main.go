package main

import (
	"context"
	"errors"
	"log"

	"pawhaven/internal/auth"
	"pawhaven/internal/config"
	"pawhaven/internal/db"
	apperrors "pawhaven/internal/errors"
	"pawhaven/internal/model"
	"pawhaven/internal/notify"
	"pawhaven/internal/repository"
	"pawhaven/internal/service"
)

// seedAccount is one demo registration.
type seedAccount struct {
	role  model.Role
	input service.RegisterInput
}

var seedAccounts = []seedAccount{
	{
		role: model.RoleAdopter,
		input: service.RegisterInput{
			Email:           "maria.santos@example.com",
			Password:        "adopter-demo-1",
			FirstName:       "Maria",
			LastName:        "Santos",
			Phone:           "+63-912-555-0101",
			LivingSituation: "own_house",
			PetExperience:   []string{"dogs", "cats"},
			Consents:        []string{"agreed_terms", "wants_updates"},
		},
	},
	{
		role: model.RoleVolunteer,
		input: service.RegisterInput{
			Email:        "jose.reyes@example.com",
			Password:     "volunteer-demo-1",
			FirstName:    "Jose",
			LastName:     "Reyes",
			Phone:        "+63-912-555-0102",
			Availability: []string{"Weekend", "Morning"},
			Activities:   []string{"dog_care", "event_management"},
			Consents:     []string{"agreed_terms", "consent_background_check"},
		},
	},
	{
		role: model.RoleStaff,
		input: service.RegisterInput{
			Email:      "ana.cruz@example.com",
			Password:   "staff-demo-1",
			FirstName:  "Ana",
			LastName:   "Cruz",
			Phone:      "+63-912-555-0103",
			Department: "Operations",
			Position:   model.StaffPositionManager,
			Consents:   []string{"agreed_terms"},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	for _, role := range model.ResetLookupOrder {
		if err := gormDB.Table(role.TableName()).AutoMigrate(&model.Account{}); err != nil {
			log.Fatalf("Failed to run migrations for %s: %v", role.TableName(), err)
		}
	}
	log.Println("Database migrations completed")

	accountRepo := repository.NewAccountRepository(gormDB)
	hasher, err := auth.NewPasswordHasher()
	if err != nil {
		log.Fatalf("password hasher init: %v", err)
	}
	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service init: %v", err)
	}
	authService := service.NewAuthService(accountRepo, hasher, tokenService, auth.NewResetTokenStore(nil), notify.NewLogNotifier())

	ctx := context.Background()
	created, skipped := 0, 0
	for _, seed := range seedAccounts {
		account, err := authService.Register(ctx, seed.role, seed.input)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicateEmail) {
				log.Printf("Skipping %s %s: already registered", seed.role, seed.input.Email)
				skipped++
				continue
			}
			log.Fatalf("Failed to seed %s %s: %v", seed.role, seed.input.Email, err)
		}
		log.Printf("Created %s account %s (%s)", seed.role, account.Email, account.ID)
		created++
	}

	log.Printf("Seed complete: %d created, %d skipped", created, skipped)
}
