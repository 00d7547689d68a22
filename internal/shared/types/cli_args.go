package types

// CLIArgs represents the per-command arguments. Configuration flags shared
// between commands (config file, scope, report dir) are resolved before
// command dispatch and live in Config.
type CLIArgs struct {
	ListenAddr string
	ReportName string
	ReportType []string
	Dir        string
}
