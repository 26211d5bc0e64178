package main

import (
	"context"
	"errors"
	"time"

	"camerastore/internal/config"
	"camerastore/internal/database"
	"camerastore/internal/domain"
	"camerastore/internal/logger"
	"camerastore/internal/repository"
	"camerastore/internal/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedProduct struct {
	name        string
	description string
	features    []string
	category    string
	subcategory string
	featured    bool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithDefaults()
	defer log.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userRepo := repository.NewUserRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())
	catalog := service.NewCatalogService(productRepo, categoryRepo)

	seedUsers(ctx, log, userRepo)
	seedCategories(ctx, log, categoryRepo)
	seedProducts(ctx, log, catalog, productRepo)

	log.Info("Seed complete")
}

func seedUsers(ctx context.Context, log *zap.Logger, users repository.UserRepository) {
	accounts := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		role      string
	}{
		{"admin@camerastore.local", "admin-password", "Store", "Admin", domain.RoleAdmin},
		{"moderator@camerastore.local", "moderator-password", "Review", "Moderator", domain.RoleModerator},
		{"customer@camerastore.local", "customer-password", "Demo", "Customer", domain.RoleUser},
	}

	for _, account := range accounts {
		if _, err := users.FindByEmail(ctx, account.email); err == nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash password", zap.Error(err))
		}

		now := time.Now()
		user := &domain.User{
			ID:            uuid.New(),
			Email:         account.email,
			PasswordHash:  string(hash),
			FirstName:     account.firstName,
			LastName:      account.lastName,
			Role:          account.role,
			IsActive:      true,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatal("Failed to seed user", zap.String("email", account.email), zap.Error(err))
		}
		log.Info("Seeded user", zap.String("email", account.email), zap.String("role", account.role))
	}
}

func seedCategories(ctx context.Context, log *zap.Logger, categories repository.CategoryRepository) {
	seed := []*domain.Category{
		{
			Name: "Filters",
			Submenu: []domain.SubmenuItem{
				{Name: "52mm Filters", Key: "52mm"},
				{Name: "67mm Filters", Key: "67mm"},
				{Name: "77mm Filters", Key: "77mm"},
			},
		},
		{
			Name: "Tripods",
			Submenu: []domain.SubmenuItem{
				{Name: "Travel Tripods", Key: "travel"},
				{Name: "Studio Tripods", Key: "studio"},
			},
		},
		{Name: "Bags"},
		{Name: "Batteries"},
		{
			Name: "Lighting",
			Submenu: []domain.SubmenuItem{
				{Name: "LED Panels", Key: "led"},
				{Name: "Flashes", Key: "flash"},
			},
		},
	}

	for _, category := range seed {
		category.ID = uuid.New()
		category.IsActive = true
		category.CreatedAt = time.Now()

		err := categories.Create(ctx, category)
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			continue
		}
		if err != nil {
			log.Fatal("Failed to seed category", zap.String("name", category.Name), zap.Error(err))
		}
		log.Info("Seeded category", zap.String("name", category.Name))
	}
}

func seedProducts(ctx context.Context, log *zap.Logger, catalog service.CatalogService, products repository.ProductRepository) {
	existing, _, err := products.List(ctx, repository.ProductFilter{PageSize: 1})
	if err != nil {
		log.Fatal("Failed to check existing products", zap.Error(err))
	}
	if len(existing) > 0 {
		log.Info("Products already seeded, skipping")
		return
	}

	seed := []seedProduct{
		{
			name:        "CPL Circular Polarizer 67mm",
			description: "Multi-coated circular polarizing filter that cuts glare and deepens skies.",
			features:    []string{"18-layer multi-coating", "Slim brass frame", "Water repellent"},
			category:    "Filters",
			subcategory: "67mm",
			featured:    true,
		},
		{
			name:        "ND1000 Neutral Density 67mm",
			description: "10-stop neutral density filter for long exposures in daylight.",
			features:    []string{"10 stops", "No color cast", "Includes pouch"},
			category:    "Filters",
			subcategory: "67mm",
		},
		{
			name:        "UV Protector 77mm",
			description: "Clear protective filter for 77mm front threads.",
			features:    []string{"99.6% transmission", "Scratch resistant"},
			category:    "Filters",
			subcategory: "77mm",
		},
		{
			name:        "Carbon Travel Tripod",
			description: "1.1 kg carbon fiber tripod that folds to 42 cm.",
			features:    []string{"Carbon fiber legs", "Ball head included", "Load 8 kg"},
			category:    "Tripods",
			subcategory: "travel",
			featured:    true,
		},
		{
			name:        "Studio Column Tripod",
			description: "Heavy duty studio tripod with geared center column.",
			features:    []string{"Load 15 kg", "Geared column", "Spiked feet"},
			category:    "Tripods",
			subcategory: "studio",
		},
		{
			name:        "Everyday Sling 6L",
			description: "Compact sling bag for a mirrorless body and two lenses.",
			features:    []string{"Weatherproof shell", "Quick side access"},
			category:    "Bags",
			featured:    true,
		},
		{
			name:        "NP-FZ100 Battery Twin Pack",
			description: "Two replacement batteries with a dual USB-C charger.",
			features:    []string{"2280 mAh", "USB-C charger included"},
			category:    "Batteries",
		},
		{
			name:        "Bi-Color LED Panel",
			description: "30W bi-color LED panel with barn doors and app control.",
			features:    []string{"2700K-6500K", "CRI 96", "App controlled"},
			category:    "Lighting",
			subcategory: "led",
		},
	}

	for _, item := range seed {
		product := &domain.Product{
			Name:        item.name,
			Description: item.description,
			Features:    item.features,
			Category:    item.category,
			IsActive:    true,
			IsFeatured:  item.featured,
		}
		if item.subcategory != "" {
			sub := item.subcategory
			product.Subcategory = &sub
		}

		if err := catalog.CreateProduct(ctx, product); err != nil {
			log.Fatal("Failed to seed product", zap.String("name", item.name), zap.Error(err))
		}
		log.Info("Seeded product", zap.String("name", item.name))
	}
}
