// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (AWS_REGION, BEDROCK_KB_ID, ...)
//  2. Config file (~/.carekb/config.yaml)
//  3. Default values
//
// The Bedrock identifiers are deliberately optional at load time: the
// gateway reports a missing-config result instead of refusing to start, so
// the service stays inspectable while the knowledge base is being set up.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrMissingBucket indicates the S3 bucket for document ingestion is not set.
	ErrMissingBucket = errors.New("missing S3 bucket")

	// ErrMissingKnowledgeBaseID indicates the Bedrock knowledge base ID is not set.
	ErrMissingKnowledgeBaseID = errors.New("missing knowledge base ID")

	// ErrMissingDataSourceID indicates the Bedrock data source ID is not set.
	ErrMissingDataSourceID = errors.New("missing data source ID")

	// ErrInvalidHistoryCapacity indicates the conversation capacity is out of range.
	ErrInvalidHistoryCapacity = errors.New("invalid history capacity")

	// ErrInvalidConversationTTL indicates the conversation TTL is out of range.
	ErrInvalidConversationTTL = errors.New("invalid conversation TTL")
)

const (
	// DefaultHistoryCapacity is the per-conversation turn limit.
	DefaultHistoryCapacity = 12

	// DefaultConversationTTL is how long an idle conversation survives.
	DefaultConversationTTL = 6 * time.Hour

	// DefaultMaxContextChars bounds the assembled transcript sent to Bedrock.
	DefaultMaxContextChars = 4000

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = "127.0.0.1:8080"
)

// Config stores application configuration.
type Config struct {
	// AWS session configuration
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`

	// Bedrock knowledge base configuration
	KnowledgeBaseID string `mapstructure:"knowledge_base_id"`
	ModelARN        string `mapstructure:"model_arn"`
	DataSourceID    string `mapstructure:"data_source_id"`

	// Document ingestion configuration
	Bucket       string `mapstructure:"bucket"`
	BucketFolder string `mapstructure:"bucket_folder"`

	// Dry-run toggles for the ingestion pipeline. When false the pipeline
	// logs what it would do instead of calling AWS.
	UploadEnabled bool `mapstructure:"upload_enabled"`
	DeleteEnabled bool `mapstructure:"delete_enabled"`
	SyncEnabled   bool `mapstructure:"sync_enabled"`

	// Conversation store configuration
	HistoryCapacity int           `mapstructure:"history_capacity"`
	ConversationTTL time.Duration `mapstructure:"conversation_ttl"`
	MaxContextChars int           `mapstructure:"max_context_chars"`

	// HTTP server configuration
	Addr string `mapstructure:"addr"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".carekb")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("region", "us-east-1")
	v.SetDefault("bucket_folder", "")
	v.SetDefault("upload_enabled", true)
	v.SetDefault("delete_enabled", true)
	v.SetDefault("sync_enabled", true)
	v.SetDefault("history_capacity", DefaultHistoryCapacity)
	v.SetDefault("conversation_ttl", DefaultConversationTTL)
	v.SetDefault("max_context_chars", DefaultMaxContextChars)
	v.SetDefault("addr", DefaultAddr)
}

// bindEnvVariables binds the environment variables the original deployment
// already uses, so an existing .env keeps working unchanged.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("region", "AWS_REGION")
	mustBind("profile", "AWS_PROFILE")
	mustBind("knowledge_base_id", "BEDROCK_KB_ID")
	mustBind("model_arn", "BEDROCK_MODEL_ARN")
	mustBind("data_source_id", "BEDROCK_DS_ID")
	mustBind("bucket", "S3_BUCKET_NAME")
	mustBind("bucket_folder", "DEFAULT_S3_FOLDER")
	mustBind("addr", "CAREKB_ADDR")
	mustBind("upload_enabled", "CAREKB_UPLOAD_ENABLED")
	mustBind("delete_enabled", "CAREKB_DELETE_ENABLED")
	mustBind("sync_enabled", "CAREKB_SYNC_ENABLED")
}

// Validate checks ranges for the values every mode depends on.
// Bedrock identifiers are checked per command instead (see ValidateIngest);
// the chat gateway classifies their absence as a missing-config result.
func (c *Config) Validate() error {
	if c.HistoryCapacity < 2 || c.HistoryCapacity > 1000 {
		return fmt.Errorf("%w: %d (want 2-1000)", ErrInvalidHistoryCapacity, c.HistoryCapacity)
	}
	if c.ConversationTTL < time.Minute || c.ConversationTTL > 30*24*time.Hour {
		return fmt.Errorf("%w: %s (want 1m-720h)", ErrInvalidConversationTTL, c.ConversationTTL)
	}
	return nil
}

// ValidateIngest checks the identifiers the ingestion pipeline requires.
func (c *Config) ValidateIngest() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: set S3_BUCKET_NAME", ErrMissingBucket)
	}
	return nil
}

// ValidateSync checks the identifiers the reindex trigger requires.
func (c *Config) ValidateSync() error {
	if c.KnowledgeBaseID == "" {
		return fmt.Errorf("%w: set BEDROCK_KB_ID", ErrMissingKnowledgeBaseID)
	}
	if c.DataSourceID == "" {
		return fmt.Errorf("%w: set BEDROCK_DS_ID", ErrMissingDataSourceID)
	}
	return nil
}
