package main

import (
	"context"
	_ "embed"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/localdeals/internal/adapters/cache"
	"github.com/zatekoja/localdeals/internal/adapters/database"
	"github.com/zatekoja/localdeals/internal/adapters/providers/geolocation"
	"github.com/zatekoja/localdeals/internal/adapters/storage"
	"github.com/zatekoja/localdeals/internal/application/loaders"
	"github.com/zatekoja/localdeals/internal/application/services"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	"github.com/zatekoja/localdeals/pkg/config"
	"github.com/zatekoja/localdeals/pkg/datetime"
	"github.com/zatekoja/localdeals/pkg/validator"
)

//go:embed schema.sql
var schema string

var categories = []struct {
	name  string
	color string
}{
	{"Lebensmittel", "#4caf50"},
	{"Elektronik", "#2196f3"},
	{"Mode", "#e91e63"},
	{"Gastronomie", "#ff9800"},
	{"Freizeit", "#9c27b0"},
}

var dealers = []entities.Registration{
	{Email: "baeckerei@example.com", Username: "Bäckerei Sonne", Street: "Alexanderplatz", HouseNumber: "1", Zip: "10178", City: "Berlin"},
	{Email: "technik@example.com", Username: "Technik Hafen", Street: "Jungfernstieg", HouseNumber: "7", Zip: "20354", City: "Hamburg"},
	{Email: "biergarten@example.com", Username: "Biergarten am See", Street: "Marienplatz", HouseNumber: "3", Zip: "80331", City: "München"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("localdeals-seed", cfg.Server.Environment, "info")

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	db := pgClient.DB()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := db.ExecContext(ctx, `
			TRUNCATE TABLE hot_deals, dealer_ratings, deals, accounts, categories
			RESTART IDENTITY CASCADE
		`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// 1. Seed categories
	for _, c := range categories {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO categories (name, color) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			c.name, c.color,
		); err != nil {
			log.Error().Err(err).Str("category", c.name).Msg("Failed to create category")
		}
	}

	loc, err := datetime.LoadLocation(cfg.Deals.TimeZone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load time zone")
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	v := validator.New()
	images := storage.NewNoopImageStorage()
	accountService := services.NewAccountService(
		database.NewAccountAdapter(pgClient),
		geolocation.NewMockGeolocationProvider(),
		images,
		v,
	)
	dealService := services.NewDealService(
		database.NewDealAdapter(pgClient),
		database.NewHotDealAdapter(pgClient),
		cache.NewNoopAdapter(),
		loaders.NewEnricher(images, cfg.Deals.ImageFanOut),
		v,
		metrics,
		services.DealServiceConfig{Location: loc},
	)

	// 2. Seed dealers with one running and one upcoming deal each
	now := time.Now().In(loc)
	for i, reg := range dealers {
		reg := reg
		reg.Dealer = true
		reg.Password = "localdeals-demo"

		account, err := accountService.Register(ctx, &reg)
		if err != nil {
			log.Error().Err(err).Str("email", reg.Email).Msg("Failed to create dealer")
			continue
		}

		categoryID := int64(i%len(categories) + 1)
		deals := []*entities.Deal{
			{
				Title:       "Tagesangebot bei " + account.Username,
				Description: "Nur heute, solange der Vorrat reicht.",
				CategoryID:  categoryID,
				Duration:    8,
				Start:       now.Add(-time.Hour).Format(datetime.NaiveLayout),
				Location:    account.Location,
			},
			{
				Title:       "Wochenendaktion bei " + account.Username,
				Description: "Zwei zum Preis von einem.",
				CategoryID:  categoryID,
				Duration:    48,
				Start:       now.Add(72 * time.Hour).Format(datetime.NaiveLayout),
				Location:    account.Location,
			},
		}

		for j, deal := range deals {
			if _, err := dealService.UpsertDeal(ctx, account.ID, deal, j == 0); err != nil {
				log.Error().Err(err).Str("dealer", account.Username).Str("title", deal.Title).Msg("Failed to create deal")
			}
		}
	}

	log.Info().Int("categories", len(categories)).Int("dealers", len(dealers)).Msg("Seeding complete")
}
