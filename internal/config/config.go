// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-insights/internal/ranking"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_INSIGHTS_SERVER_PORT.
const EnvPrefix = "RESUME_INSIGHTS"

// DefaultConfigName is the file looked up in the working directory when no path is given.
const DefaultConfigName = "resume-insights"

// Storage backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"gte=1,lte=65535"`
	UploadDir      string   `mapstructure:"upload_dir" validate:"required"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb" validate:"gte=1,lte=100"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects and configures the analysis store.
type StorageConfig struct {
	Backend     string   `mapstructure:"backend" validate:"oneof=file postgres s3"`
	Dir         string   `mapstructure:"dir" validate:"required_if=Backend file"`
	DatabaseURL string   `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	S3          S3Config `mapstructure:"s3"`
}

// S3Config locates the bucket used by the s3 backend.
type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Prefix string `mapstructure:"prefix"`
}

// ScoringConfig tunes the scoring engine. A nil Seed means non-reproducible runs.
type ScoringConfig struct {
	Seed        *uint64         `mapstructure:"seed"`
	CatalogPath string          `mapstructure:"catalog_path"`
	Weights     ranking.Weights `mapstructure:"weights"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8000,
			UploadDir:      "uploads",
			MaxUploadMB:    10,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     "data/analyses",
			S3:      S3Config{Prefix: "analyses/"},
		},
		Scoring: ScoringConfig{
			Weights: ranking.DefaultWeights(),
		},
	}
}

// Load reads configuration from defaults, then the YAML file at path (or
// resume-insights.yaml in the working directory when path is empty and the file exists),
// then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Storage.Backend == BackendS3 && (c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "") {
		return fmt.Errorf("config error: storage.s3.bucket and storage.s3.region are required for the s3 backend")
	}
	return nil
}

// setDefaults registers every leaf key so environment variables can override it.
func setDefaults(v *viper.Viper, def Config) error {
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.upload_dir", def.Server.UploadDir)
	v.SetDefault("server.max_upload_mb", def.Server.MaxUploadMB)
	v.SetDefault("server.allowed_origins", def.Server.AllowedOrigins)

	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.dir", def.Storage.Dir)
	v.SetDefault("storage.database_url", def.Storage.DatabaseURL)
	v.SetDefault("storage.s3.bucket", def.Storage.S3.Bucket)
	v.SetDefault("storage.s3.region", def.Storage.S3.Region)
	v.SetDefault("storage.s3.prefix", def.Storage.S3.Prefix)

	v.SetDefault("scoring.catalog_path", def.Scoring.CatalogPath)
	v.SetDefault("log.json", def.Log.JSON)
	v.SetDefault("log.debug", def.Log.Debug)

	// Weight keys share their JSON names with the mapstructure tags.
	data, err := json.Marshal(def.Scoring.Weights)
	if err != nil {
		return fmt.Errorf("failed to encode default weights: %w", err)
	}
	var weights map[string]int
	if err := json.Unmarshal(data, &weights); err != nil {
		return fmt.Errorf("failed to decode default weights: %w", err)
	}
	for key, value := range weights {
		v.SetDefault("scoring.weights."+key, value)
	}
	return nil
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"scoring.seed":           {EnvPrefix + "_SCORING_SEED"},
		"storage.database_url":   {EnvPrefix + "_STORAGE_DATABASE_URL", "DATABASE_URL"},
		"storage.s3.bucket":      {EnvPrefix + "_STORAGE_S3_BUCKET", "AWS_S3_BUCKET"},
		"storage.s3.region":      {EnvPrefix + "_STORAGE_S3_REGION", "AWS_REGION"},
		"server.allowed_origins": {EnvPrefix + "_SERVER_ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}
