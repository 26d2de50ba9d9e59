package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		SiteURL string `yaml:"site_url"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	PayFast struct {
		MerchantID  string `yaml:"merchant_id"`
		MerchantKey string `yaml:"merchant_key"`
		ProcessURL  string `yaml:"process_url"`
		// Optional shared secret. When empty the gateway notification
		// signature is NOT verified; see README before leaving this blank
		// outside the sandbox.
		Passphrase   string `yaml:"passphrase"`
		PremiumCents int64  `yaml:"premium_cents"`
	} `yaml:"payfast"`
}

func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}
	applyEnvOverrides(&cfg)
	return cfg
}

// applyEnvOverrides lets secrets come from the environment instead of the
// checked-in config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.Server.SiteURL = v
	}
	if v := os.Getenv("PAYFAST_MERCHANT_ID"); v != "" {
		cfg.PayFast.MerchantID = v
	}
	if v := os.Getenv("PAYFAST_MERCHANT_KEY"); v != "" {
		cfg.PayFast.MerchantKey = v
	}
	if v := os.Getenv("PAYFAST_PASSPHRASE"); v != "" {
		cfg.PayFast.Passphrase = v
	}
	if v := os.Getenv("PAYFAST_PROCESS_URL"); v != "" {
		cfg.PayFast.ProcessURL = v
	}
}
