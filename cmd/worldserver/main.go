package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikatholic/dragonflight/internal/catalog"
	"github.com/mikatholic/dragonflight/internal/config"
	"github.com/mikatholic/dragonflight/internal/db"
	"github.com/mikatholic/dragonflight/internal/lock"
	"github.com/mikatholic/dragonflight/internal/worldclock"
)

const WorldConfigPath = "config/worldserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := WorldConfigPath
	if p := os.Getenv("DRAGONFLIGHT_WORLD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadWorldServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading world config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	slog.Info("world server starting", "bind", cfg.BindAddress, "port", cfg.Port)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	cat := loadCatalog()

	repo := db.NewLockRepository(database.Pool())
	allocator := catalog.NewIDAllocator(0)
	mgr := lock.NewManager(cat, worldclock.SystemClock{}, repo,
		cfg.ResetSchedule.DailyHour, cfg.ResetSchedule.WeeklyDay, allocator, slog.Default())

	if err := mgr.Load(ctx); err != nil {
		return fmt.Errorf("loading instance locks: %w", err)
	}
	slog.Info("instance lock manager loaded")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err = g.Wait()
	slog.Info("unloading instance lock manager")
	mgr.Unload()
	return err
}

// loadCatalog registers the dungeon/raid descriptors the lock manager
// resolves against. Production deployments would source this from the
// same map data the world loads; a literal table is the teacher's own
// internal/data pattern for reference tables without an external feed.
func loadCatalog() *catalog.Catalog {
	cat := catalog.New()

	register := func(id int32, name string, diffs ...*catalog.MapDifficultyEntry) {
		if err := cat.Register(&catalog.MapEntry{ID: id, Name: name}, diffs...); err != nil {
			slog.Error("registering map in catalog", "map_id", id, "error", err)
		}
	}

	register(100, "Naxxramas",
		&catalog.MapDifficultyEntry{
			MapID: 100, DifficultyID: 1, LockID: 100,
			Reset: catalog.ResetWeekly, RaidDuration: int64(7 * 24 * time.Hour / time.Second),
		},
	)
	register(200, "Karazhan",
		&catalog.MapDifficultyEntry{
			MapID: 200, DifficultyID: 1, LockID: 200,
			Reset: catalog.ResetWeekly, RaidDuration: int64(7 * 24 * time.Hour / time.Second),
		},
	)
	register(300, "The Deadmines", // flex-locking 5-man, no shared instance
		&catalog.MapDifficultyEntry{
			MapID: 300, DifficultyID: 1, LockID: 300,
			Reset: catalog.ResetDaily, FlexLocking: true,
		},
	)

	return cat
}
