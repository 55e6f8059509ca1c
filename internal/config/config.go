package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Session    SessionConfig    `yaml:"session"`
	Export     ExportConfig     `yaml:"export"`
	Report     ReportConfig     `yaml:"report"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                   int    `yaml:"port"`
	Host                   string `yaml:"host"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	MaxUploadMB            int    `yaml:"max_upload_mb"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if onECS() {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// ShutdownTimeout bounds graceful shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// MaxUploadBytes caps a single table upload.
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// AWSConfig holds the AWS client settings shared by the S3 source and the
// export archive. Empty keys fall back to the default credential chain.
type AWSConfig struct {
	Region    string `yaml:"aws_region"`
	Profile   string `yaml:"aws_profile"`    // Empty string uses default credential chain (IAM role on ECS)
	AccessKey string `yaml:"aws_access_key"`
	SecretKey string `yaml:"aws_secret_key"`
	Endpoint  string `yaml:"aws_endpoint"`   // S3-compatible endpoint (MinIO, LocalStack)
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c AWSConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	if onECS() {
		return ""
	}
	return c.Profile
}

// DataSourceConfig selects where the four input tables are loaded from.
type DataSourceConfig struct {
	AWSConfig `yaml:",inline"`

	Type           string            `yaml:"type"`            // example, dir, s3, sql
	Dir            string            `yaml:"dir"`
	Files          map[string]string `yaml:"files"`           // table -> file or object name
	S3Bucket       string            `yaml:"s3_bucket"`
	S3Prefix       string            `yaml:"s3_prefix"`
	Driver         string            `yaml:"driver"`          // postgres, snowflake
	DSN            string            `yaml:"dsn"`
	Tables         map[string]string `yaml:"tables"`          // table -> SQL table name
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// Timeout bounds one full load.
func (c DataSourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig selects the snapshot store.
type SessionConfig struct {
	Type        string `yaml:"type"`         // memory, redis
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	SeedExample *bool  `yaml:"seed_example"`
}

// ShouldSeed reports whether the store is seeded with the example set at
// startup. Defaults to true.
func (c SessionConfig) ShouldSeed() bool {
	return c.SeedExample == nil || *c.SeedExample
}

// ExportConfig holds report export archive settings.
type ExportConfig struct {
	AWSConfig `yaml:",inline"`

	Type          string `yaml:"type"`           // local, aws
	LocalPath     string `yaml:"local_path"`
	S3Bucket      string `yaml:"s3_bucket"`
	S3Prefix      string `yaml:"s3_prefix"`
	DynamoDBTable string `yaml:"dynamodb_table"`
}

// ReportConfig tunes the influencer insight views.
type ReportConfig struct {
	TopN                  int     `yaml:"top_n"`
	UnderperformThreshold float64 `yaml:"underperform_threshold"`
}

// LogConfig holds structured logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Redact *bool  `yaml:"redact"`
}

// RedactEnabled reports whether secrets are masked in log fields. Defaults
// to true.
func (c LogConfig) RedactEnabled() bool {
	return c.Redact == nil || *c.Redact
}

func onECS() bool {
	return os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != ""
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// Load reads and parses the configuration file and fills defaults.
// Validation runs in LoadFromEnv once env overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 30
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.DataSource.Type == "" {
		cfg.DataSource.Type = "example"
	}
	if cfg.DataSource.Dir == "" {
		cfg.DataSource.Dir = "./data"
	}
	if cfg.DataSource.Region == "" {
		cfg.DataSource.Region = "us-west-2"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 60
	}
	if cfg.Session.Type == "" {
		cfg.Session.Type = "memory"
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "roi"
	}
	if cfg.Export.Type == "" {
		cfg.Export.Type = "local"
	}
	if cfg.Export.LocalPath == "" {
		cfg.Export.LocalPath = "./exports"
	}
	if cfg.Export.S3Prefix == "" {
		cfg.Export.S3Prefix = "exports"
	}
	if cfg.Export.Region == "" {
		cfg.Export.Region = "us-west-2"
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = 10
	}
	if cfg.Report.UnderperformThreshold == 0 {
		cfg.Report.UnderperformThreshold = 1.0
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate rejects unknown backend types and settings a backend cannot run
// without.
func (cfg *Config) Validate() error {
	switch cfg.DataSource.Type {
	case "example", "dir":
	case "s3":
		if cfg.DataSource.S3Bucket == "" {
			return fmt.Errorf("datasource: s3_bucket is required for type s3")
		}
	case "sql":
		if cfg.DataSource.DSN == "" {
			return fmt.Errorf("datasource: dsn is required for type sql")
		}
		switch cfg.DataSource.Driver {
		case "postgres", "snowflake":
		default:
			return fmt.Errorf("datasource: unsupported driver %q", cfg.DataSource.Driver)
		}
	default:
		return fmt.Errorf("datasource: unknown type %q", cfg.DataSource.Type)
	}

	switch cfg.Session.Type {
	case "memory":
	case "redis":
		if cfg.Session.RedisURL == "" {
			return fmt.Errorf("session: redis_url is required for type redis")
		}
	default:
		return fmt.Errorf("session: unknown type %q", cfg.Session.Type)
	}

	switch cfg.Export.Type {
	case "local":
	case "aws":
		if cfg.Export.S3Bucket == "" || cfg.Export.DynamoDBTable == "" {
			return fmt.Errorf("export: s3_bucket and dynamodb_table are required for type aws")
		}
	default:
		return fmt.Errorf("export: unknown type %q", cfg.Export.Type)
	}

	if cfg.Report.TopN < 0 {
		return fmt.Errorf("report: top_n must not be negative")
	}
	return nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS. An empty
// path starts from the defaults instead of a file.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ROI_DATASOURCE_TYPE"); v != "" {
		cfg.DataSource.Type = v
	}
	// Database override (critical for ECS deployment where config.yaml has local defaults)
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DataSource.DSN = v
		if cfg.DataSource.Driver == "" {
			cfg.DataSource.Driver = "postgres"
		}
	}
	if v := os.Getenv("ROI_S3_BUCKET"); v != "" {
		cfg.DataSource.S3Bucket = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.RedisURL = v
		cfg.Session.Type = "redis"
	}
	if v := os.Getenv("ROI_EXPORT_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("ROI_DYNAMODB_TABLE"); v != "" {
		cfg.Export.DynamoDBTable = v
	}
	if v := os.Getenv("ROI_AWS_ACCESS_KEY"); v != "" {
		cfg.DataSource.AccessKey = v
		cfg.Export.AccessKey = v
	}
	if v := os.Getenv("ROI_AWS_SECRET_KEY"); v != "" {
		cfg.DataSource.SecretKey = v
		cfg.Export.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
