package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/milovmv/larek/internal/config"
	"github.com/milovmv/larek/internal/database"
	"github.com/milovmv/larek/internal/events"
	"github.com/milovmv/larek/internal/larek"
	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/tui"
	"github.com/milovmv/larek/internal/wizard"
)

const migrationsPath = "internal/database/migrations"

var rootCmd = &cobra.Command{
	Use:          "larek",
	Short:        "Terminal storefront: browse the catalog, fill a cart, check out",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run a headless end-to-end checkout against a throwaway database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidation(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("validation passed")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(seedCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var src wizard.CatalogSource
	var gw wizard.OrderGateway
	if cfg.API.BaseURL != "" {
		client := larek.NewClient(cfg.API.BaseURL, cfg.API.CDNURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
		src, gw = client, client
	} else {
		db, err := openLocalDB(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		local := database.NewLocalGateway(db)
		src, gw = local, local
	}

	bus := events.New()
	st := store.New(bus)
	cart := store.NewCart(st, bus)

	app := tui.New(ctx, cfg, bus, st, src, gw)
	presenter, err := wizard.New(bus, st, cart, app, app)
	if err != nil {
		return fmt.Errorf("wire presenter: %w", err)
	}
	app.SetPresenter(presenter)
	presenter.Bind()

	// log.Printf would scribble over the alt screen
	logFile, err := tea.LogToFile(filepath.Join(filepath.Dir(cfg.Database.Path), "larek.log"), "larek")
	if err == nil {
		defer logFile.Close()
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func openLocalDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path, migrationsPath); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return db, nil
}

func runSeed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := openLocalDB(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Reseed(ctx, db); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}
	log.Printf("seeded demo catalog into %s", cfg.Database.Path)
	return nil
}
