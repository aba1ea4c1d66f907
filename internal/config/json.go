package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly duration parsing for file-based configuration.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Analysis struct {
		Provider      string   `json:"provider"`
		MLServiceURL  string   `json:"ml_service_url"`
		AssemblyAIKey string   `json:"assemblyai_api_key"`
		Timeout       Duration `json:"timeout"`
	} `json:"analysis,omitempty"`

	Workers struct {
		ReapInterval Duration `json:"reap_interval"`
		SessionTTL   Duration `json:"session_ttl"`
	} `json:"workers,omitempty"`

	Limits struct {
		MaxAudioBytes int64 `json:"max_audio_bytes"`
	} `json:"limits,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Analysis: Analysis{
			Provider:      jsonCfg.Analysis.Provider,
			MLServiceURL:  jsonCfg.Analysis.MLServiceURL,
			AssemblyAIKey: jsonCfg.Analysis.AssemblyAIKey,
			Timeout:       time.Duration(jsonCfg.Analysis.Timeout),
		},
		Workers: Workers{
			ReapInterval: time.Duration(jsonCfg.Workers.ReapInterval),
			SessionTTL:   time.Duration(jsonCfg.Workers.SessionTTL),
		},
		Limits: Limits{
			MaxAudioBytes: jsonCfg.Limits.MaxAudioBytes,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
