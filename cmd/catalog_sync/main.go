// Package main copies the exercises of the default workout plan into the exercise index.
// Rows are matched by name, so running it again only adds what is missing.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/gymflow/internal/config"
	"github.com/2beens/gymflow/internal/db"
	"github.com/2beens/gymflow/internal/exerciseindex"
	"github.com/2beens/gymflow/internal/workout/catalog"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	dryRun := flag.Bool("dry-run", false, "only report what would be added")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("GYMFLOW_POSTGRES_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	added, skipped, err := syncItems(ctx, exerciseindex.NewRepo(dbPool), catalog.SyncItems(), *dryRun)
	if err != nil {
		log.Fatalf("catalog sync: %s", err)
	}
	log.Printf("catalog sync done, added: %d, already present: %d, dry run: %t", added, skipped, *dryRun)
}

type itemsRepo interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Add(ctx context.Context, item exerciseindex.Item) (*exerciseindex.Item, error)
}

func syncItems(ctx context.Context, repo itemsRepo, items []catalog.SyncItem, dryRun bool) (added, skipped int, err error) {
	for _, item := range items {
		exists, err := repo.ExistsByName(ctx, item.Name)
		if err != nil {
			return added, skipped, err
		}
		if exists {
			skipped++
			continue
		}

		if dryRun {
			log.Printf("would add [%s] %s", item.Category, item.Name)
			added++
			continue
		}

		if _, err := repo.Add(ctx, exerciseindex.Item{
			Name:         item.Name,
			Category:     item.Category,
			Subcategory:  exerciseindex.OtherSubcategory,
			Tier:         item.Tier,
			VideoURL:     item.VideoURL,
			Instructions: item.Instructions,
		}); err != nil {
			return added, skipped, err
		}
		log.Debugf("added [%s] %s", item.Category, item.Name)
		added++
	}
	return added, skipped, nil
}
