// Package main provides the end-to-end pipeline command-line tool: transform
// every enabled source, then load the curated output into the database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"revagg/internal/config"
	"revagg/internal/logger"
	"revagg/internal/pipeline"
	"revagg/internal/report"
	"revagg/internal/store"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	showUsage := flag.Bool("help", false, "Show usage information")
	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)
	appLog := logger.New(cfg.Logging.Level)

	s, err := store.Open(cfg.Paths.Database, appLog)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v\n", err)
	}
	defer s.Close()

	fmt.Printf("🚀 Running pipeline for %d enabled sources...\n\n", len(cfg.GetEnabledSources()))

	stages, loads, err := pipeline.New(cfg, appLog).Run(s)
	if err != nil {
		log.Fatalf("❌ Pipeline failed: %v\n", err)
	}

	for _, stage := range stages {
		if stage.Skipped {
			fmt.Printf("⚠️  %s: raw files missing, skipped\n\n", stage.Site)

			continue
		}

		fmt.Print(report.TransformSummary(stage.Site, "restaurants", stage.RestaurantOutcome, stage.Report))
		fmt.Print(report.TransformSummary(stage.Site, "reviews", stage.ReviewOutcome, nil))
		fmt.Println()
	}

	fmt.Print(report.LoadSummary(loads, pipeline.LoadOrder))
	fmt.Println()
	fmt.Printf("✅ Pipeline complete! Database: %s\n", cfg.Paths.Database)
}

// loadConfig resolves the configuration from the flag or the default path.
func loadConfig(path string) *config.Config {
	if path == "" {
		path = "configs/pipeline.yaml"
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	fmt.Printf("✅ Configuration loaded: %s\n\n", cfg)

	return cfg
}

func printUsage() {
	fmt.Println("Pipeline - transform raw review scrapes and load the database")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pipeline [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pipeline -config configs/pipeline.yaml")
}
