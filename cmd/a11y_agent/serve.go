package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/cache"
	"github.com/jonathan/a11y-toolkit/internal/config"
	"github.com/jonathan/a11y-toolkit/internal/db"
	"github.com/jonathan/a11y-toolkit/internal/llm"
	"github.com/jonathan/a11y-toolkit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API for contrast, validation, typography, checklist, PDF
extraction and LLM analysis. Reports are stored in PostgreSQL when
DATABASE_URL is set and in memory otherwise.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	servePort      int
	serveStaticDir string
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static", "", "Directory of frontend assets to serve at /")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveStaticDir != "" {
		cfg.StaticDir = serveStaticDir
	}

	srvCfg, err := serverConfig(ctx, cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(srvCfg)
	if err != nil {
		srvCfg.Store.Close()
		if srvCfg.Cache != nil {
			_ = srvCfg.Cache.Close()
		}
		return err
	}
	return srv.Start(ctx)
}

// serverConfig opens the report store and cache and collects the provider keys.
func serverConfig(ctx context.Context, cfg *config.Config) (server.Config, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return server.Config{}, err
	}

	var store db.ReportStore
	if cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return server.Config{}, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return server.Config{}, fmt.Errorf("failed to prepare report schema: %w", err)
		}
		log.Printf("[serve] storing reports in PostgreSQL")
		store = pg
	} else {
		log.Printf("[serve] DATABASE_URL not set, storing reports in memory")
		store = db.NewMemoryStore()
	}

	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("[serve] cache unavailable, continuing without it: %v", err)
	}

	keys := make(map[llm.Provider]string)
	for _, p := range llm.Providers() {
		if key := cfg.APIKey(p); key != "" {
			keys[p] = key
		}
	}

	return server.Config{
		Port:           cfg.Port,
		StaticDir:      cfg.StaticDir,
		CORSOrigin:     cfg.CORSOrigin,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		LLM:            llmCfg,
		APIKeys:        keys,
		CacheTTL:       cfg.CacheTTL,
		Store:          store,
		Cache:          c,
	}, nil
}
