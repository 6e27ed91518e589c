package config

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	// Issuer goes into the iss claim, AppName into aud, Subject into sub.
	Issuer          string `yaml:"issuer"`
	AppName         string `yaml:"app_name"`
	Subject         string `yaml:"subject"`
	Secret          string `yaml:"secret"`
	TokenExpiryDays int    `yaml:"token_expiry_days"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
}

type EmailConfig struct {
	// Mode "file" writes .eml files into FileDir instead of dialing SMTP.
	Mode         string `yaml:"mode"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FileDir      string `yaml:"file_dir"`
}

type Config struct {
	Server struct {
		Port          int    `yaml:"port"`
		AllowedOrigin string `yaml:"allowed_origin"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth              AuthConfig  `yaml:"auth"`
	Email             EmailConfig `yaml:"email"`
	CreatePasswordURL string      `yaml:"create_password_url"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Auth.TokenExpiryDays == 0 {
		cfg.Auth.TokenExpiryDays = 1
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Email.Mode == "" {
		cfg.Email.Mode = "file"
	}
	if cfg.Email.FileDir == "" {
		cfg.Email.FileDir = os.TempDir()
	}
	return &cfg
}
