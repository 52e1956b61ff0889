package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "pipeline.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
paths:
  raw_dir: "./data/raw"
  curated_dir: "./data/curated"
  database: "./data/reviews.db"
sources:
  - site: "opentable"
    restaurants_file: "opentable_restaurants_2024-07-21.csv"
    reviews_file: "opentable_reviews_2024-07-21.csv"
    enabled: true
  - site: "yelp"
    restaurants_file: "yelp_restaurants_2024-07-21.csv"
    reviews_file: "yelp_reviews_2024-07-21.csv"
    enabled: true
transform:
  on_malformed: "skip"
  price_ceiling: 200
logging:
  level: "info"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Errorf("Expected 2 sources, got %d", len(cfg.Sources))
	}

	if cfg.Sources[0].Site != "opentable" {
		t.Errorf("Expected site 'opentable', got '%s'", cfg.Sources[0].Site)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/pipeline.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	configPath := createTempConfigFile(t, `
paths:
  raw_dir: "./raw"
  curated_dir: "./curated"
  database: "./reviews.db"
sources:
  - site: "yelp"
    restaurants_file: "yelp_restaurants_2024-07-21.csv"
    reviews_file: "yelp_reviews_2024-07-21.csv"
    enabled: true
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Transform.OnMalformed != OnMalformedSkip {
		t.Errorf("Expected default on_malformed 'skip', got '%s'", cfg.Transform.OnMalformed)
	}

	if cfg.Transform.PriceCeiling != 200 {
		t.Errorf("Expected default price_ceiling 200, got %d", cfg.Transform.PriceCeiling)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default level 'info', got '%s'", cfg.Logging.Level)
	}
}

func validConfig() *Config {
	return &Config{
		Paths: PathsConfig{RawDir: "./raw", CuratedDir: "./curated", Database: "./reviews.db"},
		Sources: []SourceConfig{
			{Site: "yelp", RestaurantsFile: "r.csv", ReviewsFile: "v.csv", Enabled: true},
		},
		Transform: TransformConfig{OnMalformed: OnMalformedSkip, PriceCeiling: 200},
		Logging:   LoggingConfig{Level: "info"},
	}
}

func TestConfig_Validate_NoSources(t *testing.T) {
	cfg := validConfig()
	cfg.Sources = nil

	if err := cfg.Validate(); !errors.Is(err, ErrNoSources) {
		t.Fatalf("Expected ErrNoSources, got %v", err)
	}
}

func TestConfig_Validate_NoEnabledSources(t *testing.T) {
	cfg := validConfig()
	cfg.Sources[0].Enabled = false

	if err := cfg.Validate(); !errors.Is(err, ErrNoEnabledSources) {
		t.Fatalf("Expected ErrNoEnabledSources, got %v", err)
	}
}

func TestConfig_Validate_UnknownSite(t *testing.T) {
	cfg := validConfig()
	cfg.Sources[0].Site = "tripadvisor"

	if err := cfg.Validate(); !errors.Is(err, ErrSourceMissingSite) {
		t.Fatalf("Expected ErrSourceMissingSite, got %v", err)
	}
}

func TestConfig_Validate_DuplicateSite(t *testing.T) {
	cfg := validConfig()
	cfg.Sources = append(cfg.Sources, cfg.Sources[0])

	if err := cfg.Validate(); !errors.Is(err, ErrDuplicateSourceSite) {
		t.Fatalf("Expected ErrDuplicateSourceSite, got %v", err)
	}
}

func TestConfig_Validate_MissingFiles(t *testing.T) {
	cfg := validConfig()
	cfg.Sources[0].ReviewsFile = ""

	if err := cfg.Validate(); !errors.Is(err, ErrSourceMissingFiles) {
		t.Fatalf("Expected ErrSourceMissingFiles, got %v", err)
	}
}

func TestConfig_Validate_MissingPaths(t *testing.T) {
	for _, tc := range []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"raw", func(c *Config) { c.Paths.RawDir = "" }, ErrMissingRawDir},
		{"curated", func(c *Config) { c.Paths.CuratedDir = "" }, ErrMissingCuratedDir},
		{"database", func(c *Config) { c.Paths.Database = "" }, ErrMissingDatabasePath},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mod(cfg)

			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfig_Validate_BadPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.Transform.OnMalformed = "ignore"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidOnMalformed) {
		t.Fatalf("Expected ErrInvalidOnMalformed, got %v", err)
	}
}

func TestConfig_Validate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("Expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestConfig_SourceBySite(t *testing.T) {
	cfg := validConfig()

	src, ok := cfg.SourceBySite("yelp")
	if !ok {
		t.Fatal("Expected yelp source")
	}

	if src.RestaurantsFile != "r.csv" {
		t.Errorf("Expected restaurants file 'r.csv', got '%s'", src.RestaurantsFile)
	}

	if _, ok := cfg.SourceBySite("opentable"); ok {
		t.Error("Expected no opentable source")
	}
}
