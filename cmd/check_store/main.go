package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"tradingagent/backend/internal/config"
	"tradingagent/backend/internal/repository"
	"tradingagent/backend/pkg/database"

	"github.com/joho/godotenv"
)

// check_store prints what the reporting API would see in the configured store.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, database.Config{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN(),
		ConnectRetries: cfg.Database.ConnectRetries,
	})
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected: %s\n", db)

	snapshots := repository.NewSnapshotRepository(db)
	operations := repository.NewOperationRepository(db)

	latest, found, err := snapshots.Latest(ctx)
	if err != nil {
		log.Fatalf("Failed to read latest snapshot: %v", err)
	}
	if found {
		fmt.Printf("Latest snapshot #%d at %s: %s USD\n", latest.ID, latest.CreatedAt.Format(time.RFC3339), latest.BalanceUSD.StringFixed(2))
	} else {
		fmt.Println("No account snapshots yet")
	}

	points, err := snapshots.ListBalancesAsc(ctx)
	if err != nil {
		log.Fatalf("Failed to read snapshots: %v", err)
	}
	fmt.Printf("Snapshots: %d\n", len(points))

	counts, err := operations.CountByType(ctx)
	if err != nil {
		log.Fatalf("Failed to count operations: %v", err)
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Printf("Operation types: %d\n", len(labels))
	for _, label := range labels {
		fmt.Printf("- %s: %d\n", label, counts[label])
	}
}
