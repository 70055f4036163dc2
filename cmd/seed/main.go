// cmd/seed populates the configured store with demo classes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"classbook/internal/config"
	"classbook/internal/database"
	"classbook/internal/model"
	"classbook/internal/repository"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	classes := repository.NewClassRepository(pool)

	// Demo schedule anchored to the configured display timezone.
	loc, err := time.LoadLocation(cfg.Timezone.Default)
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)

	seed := []model.CreateClassRequest{
		{Name: "Yoga", ScheduledAt: now.AddDate(0, 0, 1), Instructor: "Anita", AvailableSlots: 1},
		{Name: "Zumba", ScheduledAt: now.AddDate(0, 0, 2), Instructor: "Ravi", AvailableSlots: 8},
		{Name: "HIIT", ScheduledAt: now.AddDate(0, 0, 3), Instructor: "Sneha", AvailableSlots: 10},
	}

	for _, req := range seed {
		class, err := classes.Create(ctx, req)
		if err != nil {
			log.Fatal("seed class", zap.String("name", req.Name), zap.Error(err))
		}
		log.Info("seeded class",
			zap.Int64("id", class.ID),
			zap.String("name", class.Name),
			zap.Int("available_slots", class.AvailableSlots),
		)
	}

	log.Info("seeding complete", zap.Int("classes", len(seed)))
}
