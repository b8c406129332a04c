package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/logger"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const demoPassword = "password123"

type seedUser struct {
	Name     string
	Email    string
	Listings []seedListing
}

type seedListing struct {
	Title       string
	Description string
	Price       string
	Category    model.Category
	Condition   model.Condition
	Location    string
	Images      []string
}

var seedData = []seedUser{
	{
		Name:  "Alice Martin",
		Email: "alice@example.com",
		Listings: []seedListing{
			{
				Title:       "Smartphone in great condition",
				Description: "128GB, unlocked, battery health 91%. Comes with charger and case.",
				Price:       "299.99",
				Category:    model.CategoryElectronics,
				Condition:   model.ConditionLikeNew,
				Location:    "Berlin",
				Images:      []string{"https://i.ibb.co/demo/phone.jpg"},
			},
			{
				Title:       "Oak dining table",
				Description: "Seats six. A few scratches on the top, solid and sturdy.",
				Price:       "180.00",
				Category:    model.CategoryHomeFurniture,
				Condition:   model.ConditionGood,
				Location:    "Berlin",
			},
		},
	},
	{
		Name:  "Bob Chen",
		Email: "bob@example.com",
		Listings: []seedListing{
			{
				Title:       "City bike",
				Description: "Seven gears, new tyres last spring.",
				Price:       "120.00",
				Category:    model.CategoryVehicles,
				Condition:   model.ConditionUsed,
			},
			{
				Title:       "Intro to Algorithms",
				Description: "Third edition, some highlighting.",
				Price:       "35.50",
				Category:    model.CategoryBooksEducation,
				Condition:   model.ConditionFair,
				Location:    "Hamburg",
			},
		},
	},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer func() { _ = log.Sync() }()

	log.Info("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash demo password", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	listings := repository.NewListingRepository(gormDB)

	createdUsers, createdListings := 0, 0
	for _, su := range seedData {
		user, created, err := ensureUser(ctx, users, su, string(hash))
		if err != nil {
			log.Fatal("seed user", zap.String("email", su.Email), zap.Error(err))
		}
		if !created {
			log.Info("user already present, skipping its listings", zap.String("email", su.Email))
			continue
		}
		createdUsers++

		for _, sl := range su.Listings {
			listing, err := sl.toModel(user.ID)
			if err != nil {
				log.Fatal("build listing", zap.String("title", sl.Title), zap.Error(err))
			}
			if err := listings.Create(ctx, listing); err != nil {
				log.Fatal("create listing", zap.String("title", sl.Title), zap.Error(err))
			}
			createdListings++
		}
	}

	log.Info("seed completed",
		zap.Int("users_created", createdUsers),
		zap.Int("listings_created", createdListings),
		zap.String("demo_password", demoPassword),
	)
}

// ensureUser creates the user unless one with the same email exists.
func ensureUser(ctx context.Context, repo repository.UserRepository, su seedUser, hash string) (*model.User, bool, error) {
	existing, err := repo.FindByEmail(ctx, su.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	user := &model.User{Name: su.Name, Email: su.Email, PasswordHash: hash}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func (sl seedListing) toModel(ownerID uint) (*model.Listing, error) {
	price, err := decimal.NewFromString(sl.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", sl.Price, err)
	}

	listing := &model.Listing{
		OwnerID:     ownerID,
		Title:       sl.Title,
		Description: sl.Description,
		Price:       price,
		Images:      model.StringList(sl.Images),
		Category:    sl.Category,
		Condition:   sl.Condition,
	}
	if sl.Location != "" {
		loc := sl.Location
		listing.Location = &loc
	}
	return listing, nil
}
