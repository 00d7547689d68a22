package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/application/usecase"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
	"github.com/sxt-cloud/azure-costs-dashboard-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd       *cobra.Command
	reportUseCase *usecase.ReportUseCase
	console       types.ConsoleInterface
	serveFunc     func(addr string) error
	listenAddr    string
	version       string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "azure-costs",
		Short:   "Azure Costs Dashboard CLI",
		Version: formattedVersion,
		RunE:    app.runServeCommand,
	}

	// Personaliza a template para incluir mais informações de versão
	rootCmd.SetVersionTemplate(`{{printf "Azure Costs Dashboard version: %s\n" .Version}}`)

	// Flags compartilhadas entre os comandos. Os valores são lidos no main,
	// antes do cobra rodar, porque a configuração precisa existir para
	// montar as dependências.
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("report-dir", "b", "", "Directory containing the report definition JSON files")
	rootCmd.PersistentFlags().StringP("scope", "s", "", "Azure scope to query, e.g. subscriptions/<id>")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		RunE:  app.runServeCommand,
	}
	serveCmd.Flags().StringP("listen", "l", "", "Address for the web server to listen on (default :8080)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch a report and export it to file",
		RunE:  app.runReportCommand,
	}
	reportCmd.Flags().StringP("report-name", "n", "", "Name of the report definition to fetch (required)")
	reportCmd.Flags().StringSliceP("report-type", "y", []string{"csv"}, "Export formats: csv, json, pdf")
	reportCmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	rootCmd.AddCommand(serveCmd, reportCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	listen, _ := cmd.Flags().GetString("listen")
	reportName, _ := cmd.Flags().GetString("report-name")
	reportType, _ := cmd.Flags().GetStringSlice("report-type")
	dir, _ := cmd.Flags().GetString("dir")

	// Set default directory to current working directory if not specified
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		// Convert to absolute path
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ListenAddr: listen,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
	}

	return args, nil
}

// runServeCommand inicia o servidor web do dashboard.
func (app *CLIApp) runServeCommand(cmd *cobra.Command, args []string) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	addr := app.listenAddr
	if cliArgs.ListenAddr != "" {
		addr = cliArgs.ListenAddr
	}

	if app.serveFunc == nil {
		return fmt.Errorf("web server is not configured")
	}

	app.console.LogInfo("Starting dashboard server on %s", addr)
	return app.serveFunc(addr)
}

// runReportCommand busca um relatório e exporta para os formatos pedidos.
func (app *CLIApp) runReportCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	if cliArgs.ReportName == "" {
		return fmt.Errorf("--report-name is required")
	}

	ctx := context.Background()

	status := app.console.Status(fmt.Sprintf("Fetching report %s...", cliArgs.ReportName))
	table, err := app.reportUseCase.FetchTable(ctx, cliArgs.ReportName)
	status.Stop()
	if err != nil {
		app.console.LogError("Failed to fetch report: %v", err)
		return err
	}

	app.console.Print(renderTable(app.console, table))

	files, err := app.reportUseCase.Export(table, cliArgs.ReportName, cliArgs.ReportType, cliArgs.Dir)
	if err != nil {
		app.console.LogError("Failed to export report: %v", err)
		return err
	}

	app.console.LogSuccess("Report exported: %s", strings.Join(files, ", "))
	return nil
}

// renderTable monta a tabela de terminal a partir do relatório normalizado.
func renderTable(console types.ConsoleInterface, table *entity.ReportTable) string {
	out := console.CreateTable()
	for _, header := range table.DisplayHeaders() {
		out.AddColumn(header)
	}
	for _, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		out.AddRow(cells...)
	}
	return out.Render()
}

// SetReportUseCase sets the report use case for the CLI app.
func (app *CLIApp) SetReportUseCase(useCase *usecase.ReportUseCase) {
	app.reportUseCase = useCase
}

// SetConsole sets the console used for CLI output.
func (app *CLIApp) SetConsole(console types.ConsoleInterface) {
	app.console = console
}

// SetServeFunc configures how the serve command starts the web server.
func (app *CLIApp) SetServeFunc(addr string, fn func(addr string) error) {
	app.listenAddr = addr
	app.serveFunc = fn
}
