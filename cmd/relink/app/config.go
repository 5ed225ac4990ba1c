package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hmoraleda/relink/internal/reconcile"
	"github.com/hmoraleda/relink/pkg/constants"
	"github.com/hmoraleda/relink/pkg/errors"
	"github.com/hmoraleda/relink/pkg/properties"
)

// Config holds the application configuration loaded from environment
// variables, .env files, and an optional config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Remote credentials and collections
	APIKey              string
	ContractsDatabaseID string
	PersonsDatabaseID   string

	// Property names
	ContractNameProperty     string
	ContractEmailProperty    string
	ContractCategoryProperty string
	ContractRelationProperty string
	PersonNameProperty       string
	PersonEmailProperty      string
	PersonCategoryProperty   string

	// Execution settings
	BatchSize         int
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       int
	BaseDelay         time.Duration
	DryRun            bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (handled by cobra), environment variables, .env files,
// an optional config file (~/.relink.yaml), and defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnvKeys()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".relink")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		APIKey:              viper.GetString("NOTION_API_KEY"),
		ContractsDatabaseID: viper.GetString("CONTRACTS_DB_ID"),
		PersonsDatabaseID:   viper.GetString("PERSONS_DB_ID"),

		ContractNameProperty:     stringOrDefault("CONTRACT_NAME_PROP", constants.DefaultContractNameProperty),
		ContractEmailProperty:    stringOrDefault("CONTRACT_EMAIL_PROP", constants.DefaultContractEmailProperty),
		ContractCategoryProperty: stringOrDefault("CONTRACT_CATEGORY_PROP", constants.DefaultContractCategoryProperty),
		ContractRelationProperty: stringOrDefault("CONTRACT_RELATION_PROP", constants.DefaultContractRelationProperty),
		PersonNameProperty:       stringOrDefault("PERSON_NAME_PROP", constants.DefaultPersonNameProperty),
		PersonEmailProperty:      stringOrDefault("PERSON_EMAIL_PROP", constants.DefaultPersonEmailProperty),
		PersonCategoryProperty:   stringOrDefault("PERSON_CATEGORY_PROP", constants.DefaultPersonCategoryProperty),

		BatchSize:         intOrDefault("BATCH_SIZE", constants.DefaultBatchSize),
		RequestsPerSecond: floatOrDefault("REQUESTS_PER_SECOND", constants.DefaultRequestsPerSecond),
		Burst:             intOrDefault("BURST", constants.DefaultBurst),
		MaxAttempts:       intOrDefault("MAX_ATTEMPTS", constants.DefaultMaxAttempts),
		BaseDelay:         durationOrDefault("BASE_DELAY", constants.DefaultBaseDelay),
		DryRun:            viper.GetBool("DRY_RUN"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// Validate checks that the configuration carries everything a session needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.NewConfigError("api", "NOTION_API_KEY is not set", errors.ErrAPIKeyRequired)
	}
	if c.ContractsDatabaseID == "" {
		return errors.NewConfigError("databases", "CONTRACTS_DB_ID is not set", nil)
	}
	if c.PersonsDatabaseID == "" {
		return errors.NewConfigError("databases", "PERSONS_DB_ID is not set", nil)
	}
	if c.BatchSize <= 0 {
		return errors.NewConfigError("batch", fmt.Sprintf("batch size must be positive, got %d", c.BatchSize), nil)
	}
	if c.RequestsPerSecond <= 0 {
		return errors.NewConfigError("pacing", "requests per second must be positive", nil)
	}
	return nil
}

// ReconcileConfig maps the application configuration onto the session
// configuration consumed by the reconciliation engine.
func (c *Config) ReconcileConfig() reconcile.Config {
	return reconcile.Config{
		ContractsDatabaseID:      c.ContractsDatabaseID,
		PersonsDatabaseID:        c.PersonsDatabaseID,
		ContractNameProperty:     c.ContractNameProperty,
		ContractRelationProperty: c.ContractRelationProperty,
		PersonNameProperty:       c.PersonNameProperty,
		Enrichments: []reconcile.Enrichment{
			{
				ContractProperty: c.ContractEmailProperty,
				PersonProperty:   c.PersonEmailProperty,
				Kind:             properties.KindEmail,
			},
			{
				ContractProperty: c.ContractCategoryProperty,
				PersonProperty:   c.PersonCategoryProperty,
				Kind:             properties.KindSelect,
			},
		},
		BatchSize: c.BatchSize,
		DryRun:    c.DryRun,
	}
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvKeys explicitly binds the environment variables this tool reads.
func bindEnvKeys() {
	keys := []string{
		"NOTION_API_KEY",
		"CONTRACTS_DB_ID",
		"PERSONS_DB_ID",
		"CONTRACT_NAME_PROP",
		"CONTRACT_EMAIL_PROP",
		"CONTRACT_CATEGORY_PROP",
		"CONTRACT_RELATION_PROP",
		"PERSON_NAME_PROP",
		"PERSON_EMAIL_PROP",
		"PERSON_CATEGORY_PROP",
		"BATCH_SIZE",
		"REQUESTS_PER_SECOND",
		"BURST",
		"MAX_ATTEMPTS",
		"BASE_DELAY",
		"DRY_RUN",
	}
	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

func stringOrDefault(key, defaultValue string) string {
	if value := viper.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func intOrDefault(key string, defaultValue int) int {
	if value := viper.GetInt(key); value != 0 {
		return value
	}
	return defaultValue
}

func floatOrDefault(key string, defaultValue float64) float64 {
	if value := viper.GetFloat64(key); value != 0 {
		return value
	}
	return defaultValue
}

func durationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := viper.GetDuration(key); value != 0 {
		return value
	}
	return defaultValue
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
