package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/recstore/blobstore/minio"
	"github.com/hupe1980/recstore/codec"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration.
//
// Precedence, lowest first: defaults, YAML file, RECSTORE_* environment
// variables (optionally from a .env file), command-line flags.
type Config struct {
	Collection string       `yaml:"collection"` // "inventory" | "contacts"
	Codec      string       `yaml:"codec"`      // "json" | "go-json"
	Source     SourceConfig `yaml:"source"`
	Seeds      []string     `yaml:"seeds"`
	Log        LogConfig    `yaml:"log"`
}

// SourceConfig selects where seed dumps are read from.
type SourceConfig struct {
	Type  string       `yaml:"type"` // "local" | "s3" | "minio"
	Dir   string       `yaml:"dir"`  // for local
	S3    S3Config     `yaml:"s3"`
	Minio minio.Config `yaml:"minio"`
}

// S3Config holds S3 settings. Credentials come from the default AWS chain.
type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Collection: "inventory",
		Codec:      "go-json",
		Source:     SourceConfig{Type: "local", Dir: "."},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// LoadDotEnv loads environment files without overriding variables that are
// already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnv overrides fields from RECSTORE_* variables.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Collection, "RECSTORE_COLLECTION")
	set(&c.Codec, "RECSTORE_CODEC")
	set(&c.Source.Type, "RECSTORE_SOURCE")
	set(&c.Source.Dir, "RECSTORE_SOURCE_DIR")
	set(&c.Source.S3.Bucket, "RECSTORE_S3_BUCKET")
	set(&c.Source.S3.Prefix, "RECSTORE_S3_PREFIX")
	set(&c.Source.S3.Region, "RECSTORE_S3_REGION")
	set(&c.Source.S3.Endpoint, "RECSTORE_S3_ENDPOINT")
	set(&c.Source.Minio.Endpoint, "RECSTORE_MINIO_ENDPOINT")
	set(&c.Source.Minio.AccessKey, "RECSTORE_MINIO_ACCESS_KEY")
	set(&c.Source.Minio.SecretKey, "RECSTORE_MINIO_SECRET_KEY")
	set(&c.Source.Minio.Bucket, "RECSTORE_MINIO_BUCKET")
	set(&c.Source.Minio.Prefix, "RECSTORE_MINIO_PREFIX")
	set(&c.Log.Level, "RECSTORE_LOG_LEVEL")
	set(&c.Log.Format, "RECSTORE_LOG_FORMAT")

	if v := getenv("RECSTORE_SEEDS"); v != "" {
		c.Seeds = strings.Split(v, ",")
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := collections[c.Collection]; !ok {
		return fmt.Errorf("unsupported collection: %q (supported: inventory, contacts)", c.Collection)
	}

	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("unsupported codec: %q (supported: json, go-json)", c.Codec)
	}

	switch c.Source.Type {
	case "local":
		if c.Source.Dir == "" {
			return errors.New("source.dir is required for local source")
		}
	case "s3":
		if c.Source.S3.Bucket == "" {
			return errors.New("source.s3.bucket is required for s3 source")
		}
	case "minio":
		if c.Source.Minio.Endpoint == "" {
			return errors.New("source.minio.endpoint is required for minio source")
		}
		if c.Source.Minio.Bucket == "" {
			return errors.New("source.minio.bucket is required for minio source")
		}
	default:
		return fmt.Errorf("unsupported source type: %q (supported: local, s3, minio)", c.Source.Type)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q (supported: text, json)", c.Log.Format)
	}
	return nil
}
