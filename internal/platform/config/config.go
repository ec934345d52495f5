package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// APIKeyHash is the bcrypt hash of the machine-to-machine API key.
	// Empty disables API key auth.
	APIKeyHash     string
	APIKeyClientID string

	AllowedOrigins []string

	// Tax authority connection
	HMRCBaseURL      string `mapstructure:"HMRC_BASE_URL"`
	HMRCTokenURL     string `mapstructure:"HMRC_TOKEN_URL"`
	HMRCClientID     string `mapstructure:"HMRC_CLIENT_ID"`
	HMRCClientSecret string `mapstructure:"HMRC_CLIENT_SECRET"`

	// RatesFile optionally points to a YAML file that overrides or extends
	// the built-in tax year rate tables.
	RatesFile string

	PosthogAPIKey string

	// RateLimit uses the limiter formatted syntax, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("API_KEY_HASH", "")
	viper.SetDefault("API_KEY_CLIENT_ID", "filing-software")
	viper.SetDefault("ALLOWED_ORIGINS", "")
	viper.SetDefault("HMRC_BASE_URL", "")
	viper.SetDefault("HMRC_TOKEN_URL", "")
	viper.SetDefault("HMRC_CLIENT_ID", "")
	viper.SetDefault("HMRC_CLIENT_SECRET", "")
	viper.SetDefault("RATES_FILE", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET is the default insecure key in production.")
	}

	cfg.APIKeyHash = viper.GetString("API_KEY_HASH")
	cfg.APIKeyClientID = viper.GetString("API_KEY_CLIENT_ID")

	if origins := viper.GetString("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	cfg.HMRCBaseURL = viper.GetString("HMRC_BASE_URL")
	cfg.HMRCTokenURL = viper.GetString("HMRC_TOKEN_URL")
	cfg.HMRCClientID = viper.GetString("HMRC_CLIENT_ID")
	cfg.HMRCClientSecret = viper.GetString("HMRC_CLIENT_SECRET")
	if cfg.HMRCBaseURL == "" {
		log.Println("Warning: HMRC_BASE_URL not set. Submission filing will not function.")
	}

	cfg.RatesFile = viper.GetString("RATES_FILE")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
