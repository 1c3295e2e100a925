package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full environment-driven configuration.
type Config struct {
	Port            string `envconfig:"PORT" default:"8000"`
	GinMode         string `envconfig:"GIN_MODE"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DataPath        string `envconfig:"DATA_PATH" default:"recon.db"`
	JWTSecret       string `envconfig:"JWT_SECRET"`
	APIMasterSecret string `envconfig:"API_MASTER_SECRET"`
	AdminUsername   string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword   string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	Locale          string `envconfig:"RECON_LOCALE" default:"ja"`
}

// Load reads .env if one exists near the working directory, then parses
// the environment into a Config.
func Load() (*Config, error) {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
