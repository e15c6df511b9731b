package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"marketsync_api/config"
	"marketsync_api/internal/engine"
	"marketsync_api/internal/history"
	ozonapp "marketsync_api/internal/ozon/app"
	"marketsync_api/internal/stock"
	yandexapp "marketsync_api/internal/yandex/app"
	"marketsync_api/metrics"
	"marketsync_api/pkg/dbconnect"
	"marketsync_api/pkg/dbconnect/migration"
	"marketsync_api/pkg/dbconnect/postgres"
	"marketsync_api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("sync failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", cfgPath, err)
	}

	writer := os.Stdout
	_log := logger.NewLogger(writer, "[marketsync]")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.MetricsHandler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				_log.Log("metrics endpoint stopped: %s", err)
			}
		}()
	}

	var hist *history.Repository
	if cfg.Postgres != nil {
		var connector dbconnect.Database = postgres.NewPgConnector(*cfg.Postgres)
		db, err := connector.Connect()
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer db.Close()

		migrations := []migration.MigrationInterface{
			&history.CreateHistorySchema{},
		}
		for _, m := range migrations {
			if err := m.UpMigration(db); err != nil {
				return fmt.Errorf("history migration: %w", err)
			}
		}
		hist = history.NewRepository(db)
	}

	reader := stock.NewReader(
		cfg.Source.ArchiveURL,
		stock.NewHTTPFetcher(),
		stock.NewProcessor(cfg.Source.HeaderOffset),
		writer,
	)
	local, inputSkips, err := reader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading source catalog: %w", err)
	}

	type pipelineResult struct {
		platform string
		summary  engine.RunSummary
		err      error
	}
	results := make(chan pipelineResult, 2)

	var wg sync.WaitGroup
	if cfg.Ozon.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			server := ozonapp.NewOzonServer(cfg.Ozon, cfg.Source, cfg.Dispatch, hist, writer)
			summary, err := server.Run(ctx, cloneItems(local), cloneSkips(inputSkips))
			results <- pipelineResult{platform: "ozon", summary: summary, err: err}
		}()
	}
	if cfg.YandexMarket.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			server := yandexapp.NewYandexServer(cfg.YandexMarket, cfg.Source, cfg.Dispatch, hist, writer)
			summary, err := server.Run(ctx, cloneItems(local), cloneSkips(inputSkips))
			results <- pipelineResult{platform: "yandex_market", summary: summary, err: err}
		}()
	}
	wg.Wait()
	close(results)

	failed := false
	for r := range results {
		if r.err != nil {
			_log.Log("%s pipeline error: %s", r.platform, r.err)
			failed = true
			continue
		}
		reportSummary(_log, r.summary)
		if !r.summary.Ok() {
			failed = true
		}
	}
	if failed {
		return errors.New("sync finished with failures")
	}
	return nil
}

func reportSummary(_log logger.Logger, s engine.RunSummary) {
	_log.Log("%s run %s: applied=%d failed=%d skipped=%d",
		s.Platform, s.RunID, s.Applied, len(s.Failed), len(s.Skipped))
	for _, issue := range s.Failed {
		_log.Log("%s FAILED %s: %s %s", s.Platform, issue.SKU, issue.Reason, issue.Detail)
	}
	for _, issue := range s.Skipped {
		_log.Log("%s skipped %s: %s %s", s.Platform, issue.SKU, issue.Reason, issue.Detail)
	}
}

// Каждый пайплайн работает с собственной копией каталога: общий срез
// никем не мутируется даже при дозаполнении нулевых остатков.
func cloneItems(items []engine.LocalItem) []engine.LocalItem {
	return append([]engine.LocalItem(nil), items...)
}

func cloneSkips(skips []engine.Skip) []engine.Skip {
	return append([]engine.Skip(nil), skips...)
}
