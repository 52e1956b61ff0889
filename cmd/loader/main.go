// Package main provides the loader command-line tool: curated CSVs in,
// normalized SQLite database out.
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
	database := flag.String("db", "", "Database file path (overrides config)")
	showUsage := flag.Bool("help", false, "Show usage information")
	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)
	if *database != "" {
		cfg.Paths.Database = *database
	}

	appLog := logger.New(cfg.Logging.Level)

	s, err := store.Open(cfg.Paths.Database, appLog)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v\n", err)
	}
	defer s.Close()

	fmt.Printf("🚀 Loading curated data into %s...\n\n", cfg.Paths.Database)

	results, err := pipeline.New(cfg, appLog).Load(s)
	if err != nil {
		log.Fatalf("❌ Load stage failed: %v\n", err)
	}

	fmt.Print(report.LoadSummary(results, pipeline.LoadOrder))
	fmt.Println()
	fmt.Println("✅ Load complete!")
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
	fmt.Println("Loader - load curated review CSVs into the SQLite schema")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  loader [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  loader -config configs/pipeline.yaml")
	fmt.Println("  loader -config configs/pipeline.yaml -db ./data/reviews.db")
}
