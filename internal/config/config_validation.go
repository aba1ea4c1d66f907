package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	switch cfg.Analysis.Provider {
	case ProviderSynthetic:
	case ProviderMLService:
		if cfg.Analysis.MLServiceURL == "" {
			return ErrInvalidAnalysisConfigs
		}
	case ProviderAssemblyAI:
		if cfg.Analysis.AssemblyAIKey == "" {
			return ErrInvalidAnalysisConfigs
		}
	default:
		return ErrInvalidAnalysisConfigs
	}

	return nil
}
