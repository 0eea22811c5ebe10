package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/config"
	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	repo "github.com/oksasatya/go-pizza-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-pizza-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
)

var sizes = []entity.Size{
	{Name: "Small", Multiplier: decimal.RequireFromString("1.0")},
	{Name: "Medium", Multiplier: decimal.RequireFromString("1.5")},
	{Name: "Large", Multiplier: decimal.RequireFromString("2.0")},
}

var pizzas = []entity.Pizza{
	{
		Name:        "Margherita",
		Description: "Fresh tomatoes, mozzarella, basil",
		BasePrice:   decimal.RequireFromString("10.0"),
		Image:       "https://images.unsplash.com/photo-1604068549290-dea0e4a305ca?w=800&auto=format&fit=crop",
	},
	{
		Name:        "Pepperoni",
		Description: "Pepperoni, cheese, tomato sauce",
		BasePrice:   decimal.RequireFromString("12.0"),
		Image:       "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=800&auto=format&fit=crop",
	},
	{
		Name:        "Veggie Supreme",
		Description: "Bell peppers, mushrooms, onions, olives, and tomatoes",
		BasePrice:   decimal.RequireFromString("11.0"),
		Image:       "https://images.unsplash.com/photo-1571066811602-716dc70c3644?w=800&auto=format&fit=crop",
	},
	{
		Name:        "BBQ Chicken",
		Description: "Grilled chicken, BBQ sauce, red onions, and cilantro",
		BasePrice:   decimal.RequireFromString("13.0"),
		Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=800&auto=format&fit=crop",
	},
}

var toppings = []entity.Topping{
	{Name: "Extra Cheese", Price: decimal.RequireFromString("2.0"), Icon: "🧀"},
	{Name: "Mushrooms", Price: decimal.RequireFromString("1.5"), Icon: "🍄"},
	{Name: "Olives", Price: decimal.RequireFromString("1.0"), Icon: "🫒"},
	{Name: "Pepperoni", Price: decimal.RequireFromString("2.5"), Icon: "🍖"},
	{Name: "Onions", Price: decimal.RequireFromString("1.0"), Icon: "🧅"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	menu := pginfra.NewMenuRepository(pool)
	tx := pginfra.NewTxManager(pool)
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		for i := range sizes {
			if err := menu.UpsertSize(ctx, &sizes[i]); err != nil {
				return err
			}
		}
		for i := range pizzas {
			if err := menu.UpsertPizza(ctx, &pizzas[i]); err != nil {
				return err
			}
		}
		for i := range toppings {
			if err := menu.UpsertTopping(ctx, &toppings[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("failed to seed menu: %v", err)
	}
	logger.WithFields(logrus.Fields{"sizes": len(sizes), "pizzas": len(pizzas), "toppings": len(toppings)}).Info("menu seeded")

	if cfg.SeedAdminEmail != "" {
		if err := seedAdmin(ctx, cfg, pginfra.NewUserRepository(pool), logger); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; skipping index")
			return
		}
		svc := application.NewMenuService(menu, nil, 0, es, cfg.ESPizzasIndex, nil, logger)
		if err := svc.IndexPizzas(ctx); err != nil {
			logger.WithError(err).Warn("pizza indexing failed")
		}
	}
}

// seedAdmin creates an ACTIVE admin, or promotes and activates an existing account.
func seedAdmin(ctx context.Context, cfg *config.Config, users repo.UserRepository, logger *logrus.Logger) error {
	email := entity.NormalizeEmail(cfg.SeedAdminEmail)
	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		u.Role = entity.RoleAdmin
		if !u.IsActive() {
			if err := u.Activate(); err != nil {
				return err
			}
		}
		if err := users.Update(ctx, u); err != nil {
			return err
		}
		logger.WithField("user_id", u.ID).Info("existing user promoted to admin")
		return nil
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}

	if err := application.CheckPassword(cfg.SeedAdminPassword); err != nil {
		return err
	}
	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	u = &entity.User{
		Email:           email,
		SecretHash:      hash,
		FirstName:       "Admin",
		IsVerifiedEmail: true,
		Role:            entity.RoleAdmin,
		Status:          entity.StatusActive,
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	logger.WithField("user_id", u.ID).Info("admin user created")
	return nil
}
