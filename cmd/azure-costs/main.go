package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/adapter/driven/azure"
	configrepo "github.com/sxt-cloud/azure-costs-dashboard-go/internal/adapter/driven/config"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/adapter/driven/export"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/adapter/driven/reportdef"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/adapter/driving/cli"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/adapter/driving/web"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/application/usecase"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/logging"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/retry"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
	"github.com/sxt-cloud/azure-costs-dashboard-go/pkg/console"
	"github.com/sxt-cloud/azure-costs-dashboard-go/pkg/version"
)

func main() {
	// Variáveis de ambiente locais, se existir um .env
	_ = godotenv.Load()

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cred, err := azure.NewCredential(cfg.ManagedIdentityClientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Inicializa os repositórios
	costRepo := azure.NewCostRepository(cred, cfg, logger)
	defsRepo := reportdef.NewReportDefinitionRepository(cfg.ReportDir)
	exportRepo := export.NewExportRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	reportUseCase := usecase.NewReportUseCase(
		costRepo,
		defsRepo,
		exportRepo,
		retry.PolicyFromConfig(cfg.Retry),
		logger,
	)

	responseCache := gocache.New(cfg.CacheTTL(), 2*cfg.CacheTTL())
	server, err := web.NewServer(reportUseCase, cfg, responseCache, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Define as dependências no aplicativo CLI
	app.SetReportUseCase(reportUseCase)
	app.SetConsole(consoleImpl)
	app.SetServeFunc(cfg.ListenAddr, server.ListenAndServe)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig monta a configuração final: arquivo (quando informado via
// --config-file), sobrescrito pelas variáveis de ambiente e por fim pelas
// flags de linha de comando.
func loadConfig() (*types.Config, error) {
	cfg := types.DefaultConfig()

	if path := flagArg(os.Args[1:], "--config-file", "-C"); path != "" {
		loaded, err := configrepo.NewConfigRepository().LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()

	if v := flagArg(os.Args[1:], "--scope", "-s"); v != "" {
		cfg.Scope = v
	}
	if v := flagArg(os.Args[1:], "--report-dir", "-b"); v != "" {
		cfg.ReportDir = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagArg procura o valor de uma flag antes do cobra rodar, pois a
// configuração é necessária para montar as dependências.
func flagArg(args []string, long, short string) string {
	for i, arg := range args {
		switch {
		case arg == long || arg == short:
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, long+"="):
			return strings.TrimPrefix(arg, long+"=")
		}
	}
	return ""
}
