package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Payments PaymentsConfig `yaml:"payments"`
}

// PaymentsConfig is the explicit configuration struct handed to the payment
// service: no fee amount or mode flag is read from the process environment
// at request time.
type PaymentsConfig struct {
	DevMode             bool    `yaml:"dev_mode"` // simulate gateway success synchronously
	WorkerListingFee    float64 `yaml:"worker_listing_fee"`
	CustomerUnlockFee   float64 `yaml:"customer_unlock_fee"`
	AccessDurationHours int     `yaml:"access_duration_hours"`
	PendingTTLMinutes   int     `yaml:"pending_ttl_minutes"` // stale pending attempts get cancelled after this

	Mpesa struct {
		ConsumerKey    string `yaml:"consumer_key"`
		ConsumerSecret string `yaml:"consumer_secret"`
		Shortcode      string `yaml:"shortcode"`
		Passkey        string `yaml:"passkey"`
		CallbackURL    string `yaml:"callback_url"`
		Environment    string `yaml:"environment"` // "sandbox" or "production"
	} `yaml:"mpesa"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or environment variables when DATABASE_URL
// is set (test mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyPaymentDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment variables (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	cfg.Payments.DevMode = true

	applyPaymentDefaults(&cfg)
	AppConfig = &cfg
}

func applyPaymentDefaults(cfg *Config) {
	if cfg.Payments.WorkerListingFee == 0 {
		cfg.Payments.WorkerListingFee = 300
	}
	if cfg.Payments.CustomerUnlockFee == 0 {
		cfg.Payments.CustomerUnlockFee = 500
	}
	if cfg.Payments.AccessDurationHours == 0 {
		cfg.Payments.AccessDurationHours = 48
	}
	if cfg.Payments.PendingTTLMinutes == 0 {
		cfg.Payments.PendingTTLMinutes = 120
	}
	if cfg.Payments.Mpesa.Environment == "" {
		cfg.Payments.Mpesa.Environment = "sandbox"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
