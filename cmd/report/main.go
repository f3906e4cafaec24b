// Package main provides the catalog report command-line tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"catalogreport/internal/aggregator"
	"catalogreport/internal/config"
	"catalogreport/internal/formatter"
	"catalogreport/internal/logger"
	"catalogreport/internal/models"
	"catalogreport/internal/parser"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to YAML configuration file (default: "+config.DefaultPath+" if present)")
	envFile := fs.String("env", ".env", "Path to optional .env file with CATALOG_* overrides")
	inputPath := fs.String("input", "", "Path to catalog file (may also be given as the first argument)")
	format := fs.String("format", "", "Report format: text, json or yaml (overrides config)")
	outputPath := fs.String("output", "", "Write the report to this file instead of stdout")
	writeConfig := fs.String("write-config", "", "Write the effective configuration to this YAML file")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *inputPath == "" {
		*inputPath = fs.Arg(0)
	}

	if *inputPath == "" && *writeConfig == "" {
		fmt.Fprintln(stderr, "Please provide a file name as an argument.")
		printUsage(fs, stderr)

		return exitUsage
	}

	log := logger.New("info", stderr).With("run_id", uuid.NewString())

	cfg, err := loadConfig(*configFile, *envFile)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		return exitError
	}

	if *format != "" {
		cfg.Report.Format = *format

		if err := cfg.Validate(); err != nil {
			log.Error("invalid -format flag", "format", *format, "error", err)
			return exitUsage
		}
	}

	log.SetLevel(cfg.Logging.Level)
	log.Debug("configuration loaded", "config", cfg.String())

	if *writeConfig != "" {
		if err := cfg.SaveConfig(*writeConfig); err != nil {
			log.Error("failed to write configuration", "file", *writeConfig, "error", err)
			return exitError
		}

		log.Info("configuration written", "file", *writeConfig)

		if *inputPath == "" {
			return exitOK
		}
	}

	if err := generate(*inputPath, *outputPath, cfg, log, stdout); err != nil {
		attrs := []any{"file", *inputPath, "error", err}

		var fe *models.FormatError
		if errors.As(err, &fe) && fe.Line != models.NoLine {
			attrs = append(attrs, "line", fe.Line)
		}

		log.Error("failed to generate report", attrs...)

		return exitError
	}

	return exitOK
}

func loadConfig(path, envFile string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}

	cfg := config.Default()

	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}

	return cfg, nil
}

func generate(inputPath, outputPath string, cfg *config.Config, log *logger.Logger, stdout io.Writer) error {
	start := time.Now()

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	log.Debug("catalog read", "file", inputPath, "bytes", len(content))

	p := parser.NewParser(parser.Options{
		Logger:           log,
		RequireFieldDash: cfg.Parser.RequireFieldDash,
		RejectNegative:   cfg.Parser.RejectNegative,
	})

	catalog, err := p.ParseCatalog(string(content))
	if err != nil {
		return err
	}

	summary := aggregator.Summarize(catalog)

	opts := formatter.Options{
		Format:       cfg.Report.Format,
		Currency:     cfg.Report.Currency,
		MaxNameWidth: cfg.Report.MaxNameWidth,
	}

	if err := writeReport(outputPath, stdout, catalog, summary, opts); err != nil {
		return err
	}

	log.Info("report generated",
		"products", summary.Products,
		"unknown_quantity", summary.UnknownQuantity,
		"format", opts.Format,
		"duration", time.Since(start),
	)

	return nil
}

// writeReport renders to stdout, or to outputPath when one is given.
func writeReport(outputPath string, stdout io.Writer, catalog models.Catalog, summary aggregator.Summary, opts formatter.Options) error {
	if outputPath == "" {
		return formatter.Render(stdout, catalog, summary, opts)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := formatter.Render(f, catalog, summary, opts); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: report [OPTIONS] <catalog file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  report data/products.txt")
	fmt.Fprintln(w, "  report -format json -output report.json data/products.txt")
	fmt.Fprintln(w, "  report -write-config configs/report.yaml")
}
