package main

import (
	"context"
	"fmt"

	"github.com/speakai-app/speakai-server/internal/analysis"
	"github.com/speakai-app/speakai-server/internal/config"
	myHTTP "github.com/speakai-app/speakai-server/internal/handler/http"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/server"
	"github.com/speakai-app/speakai-server/internal/service"
	"github.com/speakai-app/speakai-server/internal/store"
	"github.com/speakai-app/speakai-server/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("speakai-server")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	provider, err := newAnalysisProvider(cfg.Analysis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating analysis provider")
	}

	services := service.NewServices(storages, cfg, provider, log)

	// The configured version wins over the build-time one so deployments can
	// pin what /api/version reports.
	reportedVersion := cfg.App.Version
	if reportedVersion == "" {
		reportedVersion = buildVersion
	}

	handler := myHTTP.NewHandler(services, reportedVersion, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workers.NewWorkers(ctx, storages, cfg.Workers, log).Run()

	srv.RunServer()
}

// newAnalysisProvider builds the provider selected in the config. The
// synthetic provider needs no credentials; the other two refuse to start
// without theirs so a misconfigured deployment fails loudly at boot.
func newAnalysisProvider(cfg config.Analysis, log *logger.Logger) (analysis.Provider, error) {
	switch cfg.Provider {
	case config.ProviderSynthetic:
		return analysis.NewSyntheticProvider(log), nil
	case config.ProviderMLService:
		if cfg.MLServiceURL == "" {
			return nil, fmt.Errorf("analysis provider %q requires ML_SERVICE_URL", cfg.Provider)
		}
		return analysis.NewMLServiceProvider(cfg.MLServiceURL, log), nil
	case config.ProviderAssemblyAI:
		if cfg.AssemblyAIKey == "" {
			return nil, fmt.Errorf("analysis provider %q requires ASSEMBLYAI_API_KEY", cfg.Provider)
		}
		return analysis.NewAssemblyAIProvider(cfg.AssemblyAIKey, log), nil
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", cfg.Provider)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
