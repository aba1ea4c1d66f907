package config

import (
	"errors"
	"testing"
	"time"
)

// validConfig returns the minimal configuration that passes validation.
func validConfig() *StructuredConfig {
	return &StructuredConfig{
		App:     App{TokenSignKey: "secret"},
		Server:  Server{HTTPAddress: "localhost:8080"},
		Storage: Storage{DB: DB{DSN: "postgres://localhost/speakai"}},
	}
}

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := validConfig()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{
			name:    "no DSN",
			mutate:  func(c *StructuredConfig) { c.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "no HTTP address",
			mutate:  func(c *StructuredConfig) { c.Server.HTTPAddress = "" },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "no token sign key",
			mutate:  func(c *StructuredConfig) { c.App.TokenSignKey = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown analysis provider",
			mutate:  func(c *StructuredConfig) { c.Analysis.Provider = "oracle" },
			wantErr: ErrInvalidAnalysisConfigs,
		},
		{
			name:    "mlservice provider without URL",
			mutate:  func(c *StructuredConfig) { c.Analysis.Provider = ProviderMLService },
			wantErr: ErrInvalidAnalysisConfigs,
		},
		{
			name:    "assemblyai provider without key",
			mutate:  func(c *StructuredConfig) { c.Analysis.Provider = ProviderAssemblyAI },
			wantErr: ErrInvalidAnalysisConfigs,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.applyDefaults()
			test.mutate(cfg)

			if err := cfg.validate(); !errors.Is(err, test.wantErr) {
				t.Errorf("got err %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.applyDefaults()

	if cfg.Analysis.Provider != ProviderSynthetic {
		t.Errorf("got provider %q, want %q", cfg.Analysis.Provider, ProviderSynthetic)
	}
	if cfg.Analysis.Timeout != DefaultAnalysisTimeout {
		t.Errorf("got analysis timeout %v, want %v", cfg.Analysis.Timeout, DefaultAnalysisTimeout)
	}
	if cfg.Workers.SessionTTL != 24*time.Hour {
		t.Errorf("got session TTL %v, want 24h", cfg.Workers.SessionTTL)
	}
	if cfg.Limits.MaxAudioBytes != 10<<20 {
		t.Errorf("got audio cap %d, want %d", cfg.Limits.MaxAudioBytes, 10<<20)
	}
}

func TestApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	cfg := validConfig()
	cfg.Analysis.Timeout = 5 * time.Second
	cfg.Limits.MaxAudioBytes = 1 << 20

	cfg.applyDefaults()

	if cfg.Analysis.Timeout != 5*time.Second {
		t.Errorf("timeout was overridden: %v", cfg.Analysis.Timeout)
	}
	if cfg.Limits.MaxAudioBytes != 1<<20 {
		t.Errorf("audio cap was overridden: %d", cfg.Limits.MaxAudioBytes)
	}
}

func TestBuilder_MergePriority(t *testing.T) {
	builder := newConfigBuilder()

	higher := validConfig()
	higher.Analysis.Provider = ProviderSynthetic

	lower := validConfig()
	lower.Analysis.Provider = ProviderAssemblyAI
	lower.Analysis.AssemblyAIKey = "key"
	lower.Workers.ReapInterval = 30 * time.Minute

	builder.configs = append(builder.configs, higher, lower)

	cfg, err := builder.build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Earlier sources win for fields they set; later sources fill the gaps.
	if cfg.Analysis.Provider != ProviderSynthetic {
		t.Errorf("got provider %q, want %q from higher-priority source", cfg.Analysis.Provider, ProviderSynthetic)
	}
	if cfg.Workers.ReapInterval != 30*time.Minute {
		t.Errorf("got reap interval %v, want 30m from lower-priority source", cfg.Workers.ReapInterval)
	}
}
