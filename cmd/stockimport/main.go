package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/JonMunkholm/stockimport/internal/catalog"
	"github.com/JonMunkholm/stockimport/internal/config"
	"github.com/JonMunkholm/stockimport/internal/logging"
	"github.com/JonMunkholm/stockimport/internal/report"
	"github.com/JonMunkholm/stockimport/internal/store"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	testMode := flag.Bool("test", false, "Run in test mode without inserting data")
	file := flag.String("file", "", "CSV file to import (overrides IMPORT_SOURCE_PATH)")
	flag.Parse()

	// Load .env file if it exists; real environment variables win
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	// Flags take precedence over the environment
	getenv := func(key string) string {
		switch {
		case key == "IMPORT_DRY_RUN" && *testMode:
			return strconv.FormatBool(true)
		case key == "IMPORT_SOURCE_PATH" && *file != "":
			return *file
		}
		return os.Getenv(key)
	}

	cfg, err := config.LoadFrom(getenv)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	runID := uuid.New().String()
	ctx := logging.WithRunID(context.Background(), runID)
	logger := logging.FromContext(ctx)
	logger.Debug("configuration loaded", "config", cfg.String())

	normalizer, err := catalog.NewNormalizer(cfg.Import.SourceEncoding)
	if err != nil {
		logger.Error("invalid source encoding", "error", err)
		return 1
	}

	src, err := catalog.OpenSource(cfg.Import.SourcePath, catalog.SourceOptions{
		Delimiter:  cfg.Import.DelimiterRune(),
		Normalizer: normalizer,
	})
	if err != nil {
		logger.Error("CSV file not found or unreadable", "path", cfg.Import.SourcePath, "error", err)
		return 1
	}
	defer src.Close()
	logger.Info("source opened",
		"path", cfg.Import.SourcePath,
		"encoding", normalizer.Name(),
	)

	var writer catalog.Writer
	if !cfg.Import.DryRun {
		st, err := store.Open(ctx, store.Options{
			Driver:          cfg.Store.Driver,
			URL:             cfg.Store.URL,
			MaxConns:        cfg.Store.MaxConns,
			MinConns:        cfg.Store.MinConns,
			MaxConnLifetime: cfg.Store.MaxConnLifetime,
			MaxConnIdleTime: cfg.Store.MaxConnIdleTime,
			InsertTimeout:   cfg.Store.InsertTimeout,
		})
		if err != nil {
			logger.Error("failed to open catalog store", "driver", cfg.Store.Driver, "error", err)
			return 1
		}
		defer st.Close()
		writer = st
	}

	rep := catalog.NewReport(runID, cfg.Import.SourcePath, cfg.Import.DryRun)
	importer := catalog.NewImporter(writer, catalog.Options{DryRun: cfg.Import.DryRun})

	runErr := importer.Run(ctx, src, rep)

	if err := rep.WriteSummary(os.Stdout); err != nil {
		logger.Warn("failed to print summary", "error", err)
	}

	if cfg.Report.HTMLPath != "" {
		if err := report.WriteHTML(ctx, cfg.Report.HTMLPath, rep); err != nil {
			logger.Warn("failed to write HTML report", "path", cfg.Report.HTMLPath, "error", err)
		} else {
			logger.Info("HTML report written", "path", cfg.Report.HTMLPath)
		}
	}

	if runErr != nil {
		logger.Error("import stopped early", "error", runErr)
		return 1
	}

	// Row-level skips and failures do not change the exit status
	return 0
}
