package config

import (
	"errors"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Region:          "us-east-1",
		HistoryCapacity: DefaultHistoryCapacity,
		ConversationTTL: DefaultConversationTTL,
		MaxContextChars: DefaultMaxContextChars,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "capacity too small",
			mutate:  func(c *Config) { c.HistoryCapacity = 1 },
			wantErr: ErrInvalidHistoryCapacity,
		},
		{
			name:    "capacity too large",
			mutate:  func(c *Config) { c.HistoryCapacity = 1001 },
			wantErr: ErrInvalidHistoryCapacity,
		},
		{
			name:    "ttl too short",
			mutate:  func(c *Config) { c.ConversationTTL = time.Second },
			wantErr: ErrInvalidConversationTTL,
		},
		{
			name:    "ttl too long",
			mutate:  func(c *Config) { c.ConversationTTL = 31 * 24 * time.Hour },
			wantErr: ErrInvalidConversationTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIngest(t *testing.T) {
	cfg := validConfig()
	if err := cfg.ValidateIngest(); !errors.Is(err, ErrMissingBucket) {
		t.Errorf("ValidateIngest() error = %v, want ErrMissingBucket", err)
	}

	cfg.Bucket = "care-docs"
	if err := cfg.ValidateIngest(); err != nil {
		t.Errorf("ValidateIngest() unexpected error: %v", err)
	}
}

func TestValidateSync(t *testing.T) {
	cfg := validConfig()
	if err := cfg.ValidateSync(); !errors.Is(err, ErrMissingKnowledgeBaseID) {
		t.Errorf("ValidateSync() error = %v, want ErrMissingKnowledgeBaseID", err)
	}

	cfg.KnowledgeBaseID = "KB123"
	if err := cfg.ValidateSync(); !errors.Is(err, ErrMissingDataSourceID) {
		t.Errorf("ValidateSync() error = %v, want ErrMissingDataSourceID", err)
	}

	cfg.DataSourceID = "DS456"
	if err := cfg.ValidateSync(); err != nil {
		t.Errorf("ValidateSync() unexpected error: %v", err)
	}
}
