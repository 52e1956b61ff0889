// Package main provides the query command-line tool for ad hoc reads against
// the loaded review database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"revagg/internal/config"
	"revagg/internal/logger"
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

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		printUsage()
		log.Fatal("❌ Provide a SQL query as the positional argument")
	}

	dbPath := *database
	if dbPath == "" {
		cfg, err := config.LoadConfig(defaultConfigPath(*configFile))
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		dbPath = cfg.Paths.Database
	}

	s, err := store.Open(dbPath, logger.New("error"))
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v\n", err)
	}
	defer s.Close()

	res, err := s.Query(query)
	if err != nil {
		log.Fatalf("❌ Query failed: %v\n", err)
	}

	fmt.Print(report.QueryResult(res))
	fmt.Printf("\n%d rows\n", len(res.Rows))
}

func defaultConfigPath(path string) string {
	if path == "" {
		return "configs/pipeline.yaml"
	}

	return path
}

func printUsage() {
	fmt.Println("Query - run an ad hoc SQL query against the review database")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  query [flags] \"SELECT ...\"")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  query -db ./data/reviews.db \"SELECT name, city FROM restaurant\"")
	fmt.Println("  query -config configs/pipeline.yaml \"SELECT COUNT(*) FROM review\"")
}
