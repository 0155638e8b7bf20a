package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string        `mapstructure:"ENV"`
	ServerPort  string        `mapstructure:"SERVER_PORT"`
	DBConnStr   string        `mapstructure:"DB_CONN"`
	AutoMigrate bool          `mapstructure:"AUTO_MIGRATE"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`

	CartBackend   string        `mapstructure:"CART_BACKEND"`
	CartTTL       time.Duration `mapstructure:"CART_TTL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	ImageDir string `mapstructure:"IMAGE_DIR"`
}

var defaults = map[string]any{
	"ENV":            "development",
	"SERVER_PORT":    "8080",
	"DB_CONN":        "host=localhost port=5432 user=postgres dbname=holoholo sslmode=disable",
	"AUTO_MIGRATE":   true,
	"JWT_SECRET":     "",
	"TOKEN_TTL":      24 * time.Hour,
	"LOG_LEVEL":      "info",
	"CART_BACKEND":   "redis",
	"CART_TTL":       24 * time.Hour,
	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"ADMIN_USERNAME": "admin",
	"ADMIN_EMAIL":    "admin@holoholo.com",
	"ADMIN_PASSWORD": "",
	"IMAGE_DIR":      "static/uploads",
}

// LoadConfig reads the environment, after loading any of the given dotenv
// files that exist. Values already present in the environment win.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// missing files are fine, the environment alone is a valid source
		_ = godotenv.Load(f)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.CartBackend = strings.ToLower(strings.TrimSpace(cfg.CartBackend))
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set in environment")
	}
	switch c.CartBackend {
	case "redis", "memory":
	default:
		return errors.New("CART_BACKEND must be redis or memory")
	}
	if c.TokenTTL <= 0 || c.CartTTL <= 0 {
		return errors.New("TOKEN_TTL and CART_TTL must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "debug"
}
