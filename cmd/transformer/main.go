// Package main provides the transform command-line tool: raw scrape CSVs in,
// curated CSVs out.
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
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	site := flag.String("site", "", "Transform a single source site (opentable or yelp)")
	showUsage := flag.Bool("help", false, "Show usage information")
	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if *site != "" {
		src, ok := cfg.SourceBySite(*site)
		if !ok {
			log.Fatalf("❌ No enabled source configured for site %q\n", *site)
		}

		cfg.Sources = []config.SourceConfig{src}
	}

	appLog := logger.New(cfg.Logging.Level)

	fmt.Printf("🚀 Transforming %d enabled sources...\n\n", len(cfg.GetEnabledSources()))

	stages, err := pipeline.New(cfg, appLog).Transform()
	if err != nil {
		log.Fatalf("❌ Transform stage failed: %v\n", err)
	}

	for _, stage := range stages {
		if stage.Skipped {
			fmt.Printf("⚠️  %s: raw files missing, skipped\n\n", stage.Site)

			continue
		}

		fmt.Print(report.TransformSummary(stage.Site, "restaurants", stage.RestaurantOutcome, stage.Report))
		fmt.Print(report.TransformSummary(stage.Site, "reviews", stage.ReviewOutcome, nil))
		fmt.Printf("💾 Curated files: %s, %s\n\n", stage.RestaurantsFile, stage.ReviewsFile)
	}

	fmt.Println("✅ Transform complete!")
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
	fmt.Println("Transformer - normalize raw review-site scrapes into curated CSVs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  transformer [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  transformer -config configs/pipeline.yaml")
	fmt.Println("  transformer -config configs/pipeline.yaml -site yelp")
}
