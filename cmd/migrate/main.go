package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"givehub/internal/datastore"
	"givehub/internal/models"
	"givehub/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandSeedCategories(),
			commandSeedRewards(),
			commandSeedConfig(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUser(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCategory(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableDonationRequest(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableDonation(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableVolunteerApplication(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableFavorite(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableInteraction(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePointsTransaction(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableReward(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandSeedCategories() *cli.Command {
	return &cli.Command{
		Name:        "seed-categories",
		Description: "Insert the category catalog and relatedness pairs",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			categories := []models.Category{
				{Slug: "education", Name: "Education"},
				{Slug: "children", Name: "Children"},
				{Slug: "health", Name: "Health"},
				{Slug: "elderly", Name: "Elderly Care"},
				{Slug: "disaster-relief", Name: "Disaster Relief"},
				{Slug: "environment", Name: "Environment"},
				{Slug: "animals", Name: "Animal Welfare"},
				{Slug: "food", Name: "Food Security"},
				{Slug: "housing", Name: "Housing"},
				{Slug: "community", Name: "Community Development"},
			}

			for _, category := range categories {
				err = datastore.InsertCategory(ctx, db, &category)
				if err != nil {
					log.Println(err)
				}
			}

			relations := []models.CategoryRelation{
				{Category: "education", Related: "children"},
				{Category: "children", Related: "education"},
				{Category: "health", Related: "elderly"},
				{Category: "elderly", Related: "health"},
				{Category: "disaster-relief", Related: "food"},
				{Category: "disaster-relief", Related: "housing"},
				{Category: "food", Related: "disaster-relief"},
				{Category: "housing", Related: "community"},
				{Category: "environment", Related: "animals"},
				{Category: "animals", Related: "environment"},
				{Category: "community", Related: "housing"},
			}

			for _, relation := range relations {
				err = datastore.InsertCategoryRelation(ctx, db, &relation)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

func commandSeedRewards() *cli.Command {
	return &cli.Command{
		Name:        "seed-rewards",
		Description: "Insert the default reward catalog",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			rewards := []models.Reward{
				{Name: "Golden Frame", Description: "Golden avatar frame", Category: models.RewardCategoryProfile, Cost: 100, Active: true},
				{Name: "Helper Badge", Description: "Badge for active helpers", Category: models.RewardCategoryBadge, Cost: 250, Active: true, MinLevel: intPtr(2)},
				{Name: "Feed Spotlight", Description: "Your profile featured for 30 days", Category: models.RewardCategoryFeature, Cost: 500, Active: true, MinLevel: intPtr(3)},
				{Name: "Tote Bag", Description: "Limited canvas tote", Category: models.RewardCategoryPhysical, Cost: 1000, Active: true, Quantity: intPtr(100), Remaining: intPtr(100), MinDonations: intPtr(5)},
				{Name: "Saint Badge", Description: "Badge for saints of giving", Category: models.RewardCategoryBadge, Cost: 800, Active: true, MinLevel: intPtr(4)},
			}

			for _, reward := range rewards {
				err = datastore.InsertReward(ctx, db, &reward)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

// insert default configs to db
func commandSeedConfig() *cli.Command {
	return &cli.Command{
		Name:        "seed-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: services.SERVER_MODE_PRODUCTION},
				{Key: services.CONFIG_FEED_LIMIT, Value: "10"},
				{Key: services.CONFIG_BROWSE_LIMIT, Value: "20"},
				{Key: services.CONFIG_GRANT_EXPIRY_DAYS, Value: "30"},
				{Key: services.CONFIG_BASELINE_NUDGE, Value: "2.0"},
				{Key: services.CONFIG_FEED_RATE_PER_MIN, Value: "30"},
			}

			for _, config := range configs {
				err = datastore.SetConfig(ctx, db, &config)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}

func intPtr(v int) *int {
	return &v
}
