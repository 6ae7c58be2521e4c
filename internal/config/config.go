package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	SMTP    SMTPConfig
	Contact ContactConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	BodyLimit       int
	Environment     string
}

// SMTPConfig describes the outbound mail transport. Credentials come from the
// environment only.
type SMTPConfig struct {
	Host      string
	Port      int
	SSL       bool   // implicit TLS (usually port 465)
	TLSPolicy string // "mandatory", "opportunistic" or "none"; ignored when SSL is set
	Username  string
	Password  string
	From      string
	FromName  string
	Timeout   time.Duration
}

type ContactConfig struct {
	Recipient           string
	RecipientOverride   string
	StrictEmail         bool
	AttachmentAllowList bool
	MaxAttachmentSize   int64
}

type StorageConfig struct {
	TempDir string
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            loadEnv("PORT", ":8080"),
			ShutdownTimeout: time.Duration(loadEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 5)) * time.Second,
			ReadTimeout:     time.Duration(loadEnvAsInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout:    time.Duration(loadEnvAsInt("SERVER_WRITE_TIMEOUT", 60)) * time.Second,
			BodyLimit:       loadEnvAsInt("SERVER_BODY_LIMIT", 50*1024*1024), // 50MB
			Environment:     loadEnv("GO_ENV", "development"),
		},
		SMTP: SMTPConfig{
			Host:      loadEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:      loadEnvAsInt("SMTP_PORT", 587),
			SSL:       loadEnvAsBool("SMTP_SSL", false),
			TLSPolicy: loadEnv("SMTP_TLS_POLICY", "mandatory"),
			Username:  loadEnv("SMTP_USER", ""),
			Password:  loadEnv("SMTP_PASS", ""),
			From:      loadEnv("SMTP_FROM", ""),
			FromName:  loadEnv("SMTP_FROM_NAME", "Turkiye Dental Website"),
			Timeout:   time.Duration(loadEnvAsInt("SMTP_TIMEOUT", 30)) * time.Second,
		},
		Contact: ContactConfig{
			Recipient:           loadEnv("CONTACT_RECIPIENT", ""),
			RecipientOverride:   loadEnv("CONTACT_RECIPIENT_OVERRIDE", ""),
			StrictEmail:         loadEnvAsBool("CONTACT_STRICT_EMAIL", true),
			AttachmentAllowList: loadEnvAsBool("CONTACT_ATTACHMENT_ALLOWLIST", true),
			MaxAttachmentSize:   loadEnvAsInt64("CONTACT_MAX_ATTACHMENT_SIZE", 10485760), // 10MB
		},
		Storage: StorageConfig{
			TempDir: loadEnv("STORAGE_TEMP_DIR", os.TempDir()+"/second-opinion"),
		},
	}
}

// SenderAddress is the envelope and From address. Gmail requires it to match
// the authenticated user, so it defaults to SMTP_USER.
func (c *Config) SenderAddress() string {
	if c.SMTP.From != "" {
		return c.SMTP.From
	}
	return c.SMTP.Username
}

// RecipientAddress resolves override, then recipient, then the SMTP user.
func (c *Config) RecipientAddress() string {
	switch {
	case c.Contact.RecipientOverride != "":
		return c.Contact.RecipientOverride
	case c.Contact.Recipient != "":
		return c.Contact.Recipient
	default:
		return c.SMTP.Username
	}
}

// Validate reports configuration that would make every send fail.
func (c *Config) Validate() error {
	var errs []error
	if c.SMTP.Host == "" {
		errs = append(errs, errors.New("SMTP_HOST is required"))
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		errs = append(errs, errors.New("SMTP_PORT must be between 1 and 65535"))
	}
	if c.SMTP.Username != "" && c.SMTP.Password == "" {
		errs = append(errs, errors.New("SMTP_PASS is required when SMTP_USER is set"))
	}
	if c.SenderAddress() == "" {
		errs = append(errs, errors.New("SMTP_FROM or SMTP_USER is required"))
	}
	if c.RecipientAddress() == "" {
		errs = append(errs, errors.New("CONTACT_RECIPIENT is required"))
	}
	switch c.SMTP.TLSPolicy {
	case "mandatory", "opportunistic", "none":
	default:
		errs = append(errs, errors.New("SMTP_TLS_POLICY must be one of mandatory, opportunistic, none"))
	}
	return errors.Join(errs...)
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func loadEnvAsInt64(key string, defaultVal int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func loadEnvAsBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
