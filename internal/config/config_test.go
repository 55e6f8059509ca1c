package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"

datasource:
  type: "s3"
  s3_bucket: "roi-inputs"
  s3_prefix: "2023/07"
  aws_region: "us-east-1"
  aws_profile: "analytics"
  files:
    tracking: "tracking_data.csv"

session:
  type: "redis"
  redis_url: "redis://localhost:6379/0"
  key_prefix: "roi-test"
  seed_example: false

export:
  type: "aws"
  s3_bucket: "roi-exports"
  dynamodb_table: "roi-export-manifest"

report:
  top_n: 5
  underperform_threshold: 1.5

log:
  level: "debug"
  redact: false
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "s3", cfg.DataSource.Type)
	assert.Equal(t, "roi-inputs", cfg.DataSource.S3Bucket)
	assert.Equal(t, "2023/07", cfg.DataSource.S3Prefix)
	assert.Equal(t, "us-east-1", cfg.DataSource.Region)
	assert.Equal(t, "analytics", cfg.DataSource.Profile)
	assert.Equal(t, "tracking_data.csv", cfg.DataSource.Files["tracking"])

	assert.Equal(t, "redis", cfg.Session.Type)
	assert.Equal(t, "roi-test", cfg.Session.KeyPrefix)
	assert.False(t, cfg.Session.ShouldSeed())

	assert.Equal(t, "aws", cfg.Export.Type)
	assert.Equal(t, "roi-exports", cfg.Export.S3Bucket)
	assert.Equal(t, "roi-export-manifest", cfg.Export.DynamoDBTable)
	assert.Equal(t, "us-west-2", cfg.Export.Region)

	assert.Equal(t, 5, cfg.Report.TopN)
	assert.Equal(t, 1.5, cfg.Report.UnderperformThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.RedactEnabled())

	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 8181
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout())
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "example", cfg.DataSource.Type)
	assert.Equal(t, 60*time.Second, cfg.DataSource.Timeout())
	assert.Equal(t, "memory", cfg.Session.Type)
	assert.Equal(t, "roi", cfg.Session.KeyPrefix)
	assert.True(t, cfg.Session.ShouldSeed())
	assert.Equal(t, "local", cfg.Export.Type)
	assert.Equal(t, "./exports", cfg.Export.LocalPath)
	assert.Equal(t, 10, cfg.Report.TopN)
	assert.Equal(t, 1.0, cfg.Report.UnderperformThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.RedactEnabled())
}

func TestDefaultMatchesEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	configPath := writeConfig(t, `
datasource:
  type: "dir"
  dir: "./fixtures"
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("ROI_DATASOURCE_TYPE", "sql")
	t.Setenv("DATABASE_URL", "postgres://roi:secret@db:5432/roi?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("ROI_EXPORT_BUCKET", "env-bucket")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "sql", cfg.DataSource.Type)
	assert.Equal(t, "postgres", cfg.DataSource.Driver)
	assert.Equal(t, "postgres://roi:secret@db:5432/roi?sslmode=disable", cfg.DataSource.DSN)
	assert.Equal(t, "redis", cfg.Session.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Session.RedisURL)
	assert.Equal(t, "env-bucket", cfg.Export.S3Bucket)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnvWithoutFile(t *testing.T) {
	cfg, err := LoadFromEnv("")
	require.NoError(t, err)
	assert.Equal(t, "example", cfg.DataSource.Type)
}

func TestLoadFromEnvBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	_, err := LoadFromEnv("")
	assert.Error(t, err)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown datasource", func(c *Config) { c.DataSource.Type = "ftp" }, true},
		{"s3 without bucket", func(c *Config) { c.DataSource.Type = "s3" }, true},
		{"sql without dsn", func(c *Config) { c.DataSource.Type = "sql"; c.DataSource.Driver = "postgres" }, true},
		{"sql with unknown driver", func(c *Config) {
			c.DataSource.Type = "sql"
			c.DataSource.DSN = "x"
			c.DataSource.Driver = "mysql"
		}, true},
		{"snowflake", func(c *Config) {
			c.DataSource.Type = "sql"
			c.DataSource.DSN = "user:pass@account/db/schema"
			c.DataSource.Driver = "snowflake"
		}, false},
		{"redis without url", func(c *Config) { c.Session.Type = "redis" }, true},
		{"unknown session", func(c *Config) { c.Session.Type = "disk" }, true},
		{"aws export without table", func(c *Config) { c.Export.Type = "aws"; c.Export.S3Bucket = "b" }, true},
		{"unknown export", func(c *Config) { c.Export.Type = "ftp" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetAWSProfile(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")

	cfg := AWSConfig{Profile: "analytics"}
	assert.Equal(t, "analytics", cfg.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "iam")
	assert.Equal(t, "", cfg.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "other")
	assert.Equal(t, "other", cfg.GetAWSProfile())
}

func TestServerAddr(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("SERVER_HOST", "")

	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "example", cfg.DataSource.Type)
	assert.Equal(t, "tracking.csv", cfg.DataSource.Files["tracking"])
	assert.True(t, cfg.Session.ShouldSeed())
}
