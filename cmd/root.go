package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/vapor/internal/cache"
	"github.com/lepinkainen/vapor/internal/catalog"
	"github.com/lepinkainen/vapor/internal/config"
	"github.com/lepinkainen/vapor/internal/datastore"
	"github.com/lepinkainen/vapor/internal/fileutil"
	"github.com/lepinkainen/vapor/internal/pipeline"
	"github.com/lepinkainen/vapor/internal/steam"
)

// CLI represents the complete command structure for the vapor application
type CLI struct {
	// Global flags
	Overwrite bool `help:"Overwrite existing output files"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Enrich  EnrichCmd  `cmd:"" help:"Enrich game names with appid, install size and review ratio"`
	Catalog CatalogCmd `cmd:"" help:"Manage the local name-to-appid lookup table"`
	Cache   CacheCmd   `cmd:"" help:"Manage the response cache"`
}

// EnrichCmd runs the enrichment pipeline for a batch of game names.
type EnrichCmd struct {
	Input       string   `short:"f" help:"Path to JSON file holding an array of game names"`
	Names       []string `arg:"" optional:"" help:"Game names to enrich (alternative to --input)"`
	Output      string   `short:"o" help:"Path to JSON output file (defaults to json/games.json)"`
	Concurrency int      `help:"Maximum in-flight requests per pipeline stage" default:"10"`
	Datasette   bool     `help:"Also write records to a SQLite database for Datasette"`
	DatasetteDB string   `help:"Path to Datasette SQLite database file" default:"./vapor.db"`
}

// CatalogCmd groups lookup-table subcommands.
type CatalogCmd struct {
	Refresh CatalogRefreshCmd `cmd:"" help:"Rebuild the lookup table from the bulk app listing"`
	Sample  CatalogSampleCmd  `cmd:"" help:"Print random game names from the lookup table"`
}

// CatalogRefreshCmd rebuilds the lookup table from the storefront listing.
type CatalogRefreshCmd struct{}

// CatalogSampleCmd prints random names, handy as pipeline smoke-test input.
type CatalogSampleCmd struct {
	N int `short:"n" help:"Number of names to print" default:"10"`
}

// CacheCmd groups cache management subcommands.
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Invalidate cached responses for one source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("vapor"),
		kong.Description("Enrich game names with storefront facts: appid, install size, review ratio."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("catalog.file", "./data/app_id_list.json")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Datasette defaults
	viper.SetDefault("datasette.mode", "local")
	viper.SetDefault("datasette.remote_url", "")
	viper.SetDefault("datasette.api_token", "")

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("steam.apikey", "STEAM_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetOverwriteFiles(cli.Overwrite)

	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// Run methods for each command

func (e *EnrichCmd) Run() error {
	names, err := e.loadNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no game names given (provide names as arguments or via --input)")
	}

	output := e.Output
	if output == "" {
		output = filepath.Join(config.JSONOutputDir, "games.json")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := steam.NewClient()

	table, err := catalog.LoadOrFetch(ctx, config.CatalogFile, client)
	if err != nil {
		return fmt.Errorf("failed to prepare lookup table: %w", err)
	}

	enricher := pipeline.NewEnricher(client, table, pipeline.WithConcurrency(e.Concurrency))

	records, err := enricher.Run(ctx, names)
	if err != nil {
		return err
	}

	if _, err := fileutil.WriteJSONFile(records, output, config.OverwriteFiles); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if e.Datasette {
		if err := writeDatasette(records, e.DatasetteDB); err != nil {
			return err
		}
	}

	return nil
}

func (e *EnrichCmd) loadNames() ([]string, error) {
	if e.Input == "" {
		return e.Names, nil
	}
	if len(e.Names) > 0 {
		return nil, fmt.Errorf("provide either --input or name arguments, not both")
	}

	var names []string
	if err := fileutil.ReadJSONFile(e.Input, &names); err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}
	return names, nil
}

const gameFactsSchema = `CREATE TABLE IF NOT EXISTS game_facts (
	appid INTEGER,
	name TEXT,
	size REAL,
	review_ratio REAL
)`

func writeDatasette(records []pipeline.Record, dbFile string) error {
	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = map[string]any{
			"appid":        record.AppID,
			"name":         record.Name,
			"size":         record.SizeGB,
			"review_ratio": record.ReviewRatio,
		}
	}

	mode := viper.GetString("datasette.mode")

	switch mode {
	case "local":
		slog.Info("Writing records to SQLite database", "dbfile", dbFile)

		store := datastore.NewSQLiteStore(dbFile)
		if err := store.Connect(); err != nil {
			return fmt.Errorf("failed to connect to SQLite database: %w", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.CreateTable(gameFactsSchema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}

		if err := store.BatchInsert("vapor", "game_facts", rows); err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
	case "remote":
		client := datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("failed to connect to remote Datasette: %w", err)
		}
		defer func() { _ = client.Close() }()

		if err := client.BatchInsert("vapor", "game_facts", rows); err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
	default:
		return fmt.Errorf("unknown datasette mode %q (expected local or remote)", mode)
	}

	slog.Info("Wrote records to Datasette", "mode", mode, "count", len(rows))
	return nil
}

func (c *CatalogRefreshCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := steam.NewClient()

	table := catalog.New()
	if fileutil.FileExists(config.CatalogFile) {
		loaded, err := catalog.Load(config.CatalogFile)
		if err != nil {
			slog.Warn("Existing lookup table unreadable, rebuilding from scratch", "error", err)
		} else {
			table = loaded
		}
	}

	before := table.Len()
	if err := table.Refresh(ctx, client); err != nil {
		return err
	}

	if err := table.Save(config.CatalogFile); err != nil {
		return err
	}

	slog.Info("Lookup table refreshed", "file", config.CatalogFile, "added", table.Len()-before, "total", table.Len())
	return nil
}

func (c *CatalogSampleCmd) Run() error {
	table, err := catalog.Load(config.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load lookup table (run 'vapor catalog refresh' first): %w", err)
	}

	for _, name := range table.Sample(c.N) {
		fmt.Println(name)
	}
	return nil
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
