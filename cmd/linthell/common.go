package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/app"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/baseline"
	"github.com/ludo-technologies/linthell/internal/config"
	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/ludo-technologies/linthell/internal/linter"
	"github.com/ludo-technologies/linthell/internal/logger"
	"github.com/ludo-technologies/linthell/internal/parser"
	"github.com/ludo-technologies/linthell/internal/precommit"
	"github.com/ludo-technologies/linthell/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// appContext carries what every command needs after configuration is loaded
type appContext struct {
	cfg    *config.Config
	logger hclog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	files  *app.FileHelper
}

func loadAppContext(cmd *cobra.Command) (*appContext, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errorExit(domain.NewConfigError("failed to load configuration", err))
	}

	return &appContext{
		cfg:    cfg,
		logger: logger.NewLoggerWithOutput(cfg, constants.ToolName, cmd.ErrOrStderr()),
		stdin:  cmd.InOrStdin(),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
		files:  app.NewFileHelper(),
	}, nil
}

// useColor enables colored warnings when configured, not disabled through
// NO_COLOR, and stderr is a terminal
func (a *appContext) useColor() bool {
	if !a.cfg.Output.Color || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := a.stderr.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (a *appContext) formatter() *service.OutputFormatterImpl {
	return service.NewOutputFormatterWithWarnings(a.stderr, a.useColor())
}

func (a *appContext) timeout() time.Duration {
	return time.Duration(a.cfg.Performance.TimeoutSeconds) * time.Second
}

func (a *appContext) runner() *linter.Runner {
	return linter.NewRunner(
		linter.WithTimeout(a.timeout()),
		linter.WithLogger(a.logger.Named("linter")),
	)
}

func (a *appContext) baselineService() *service.BaselineServiceImpl {
	return service.NewBaselineService(baseline.NewStore(nil), parser.Options{}, a.logger.Named("baseline"))
}

func (a *appContext) lintService() *service.LintServiceImpl {
	return service.NewLintService(baseline.NewStore(nil), parser.Options{}, a.logger.Named("lint"))
}

func (a *appContext) hookResolver() *service.PreCommitHookResolver {
	return service.NewPreCommitHookResolver(".", precommit.NewGitManifestLoader(""), a.logger.Named("pre-commit"))
}

// readLinterOutput reads all of stdin
func (a *appContext) readLinterOutput() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && a.files.IsTerminal(f) {
		a.logger.Warn("reading linter output from the terminal; pipe the linter into linthell instead")
	}
	return a.files.ReadInput(a.stdin)
}

// outputFormat returns the -o flag when given, else the configured format
func (a *appContext) outputFormat(cmd *cobra.Command) (domain.OutputFormat, error) {
	format := a.cfg.Output.Format
	if cmd.Flags().Changed("output") {
		format, _ = cmd.Flags().GetString("output")
	}
	switch format {
	case constants.OutputFormatText, constants.OutputFormatJSON, constants.OutputFormatYAML:
		return domain.OutputFormat(format), nil
	}
	return "", errorExit(domain.NewUnsupportedFormatError(format))
}

// sectionFlags holds the command-line options mirrored by config sections
type sectionFlags struct {
	baselineFile    string
	lintFormat      string
	plugin          string
	linterCommand   string
	linterOutput    string
	hookName        string
	preCommitConfig string
	checkOutdated   bool
}

func (f *sectionFlags) addParserFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.baselineFile, "baseline", "b", "",
		"Path to the baseline file")
	cmd.Flags().StringVarP(&f.lintFormat, "format", "f", "",
		"Regex with path, line and message named groups to parse linter output")
	cmd.Flags().StringVarP(&f.plugin, "plugin", "p", "",
		"Registered parser to use instead of --format (see 'linthell parsers')")
	cmd.MarkFlagsMutuallyExclusive("format", "plugin")
}

func (f *sectionFlags) addLinterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.linterCommand, "linter-command", "",
		"Linter command with options; files are appended to it")
	cmd.Flags().StringVar(&f.linterOutput, "linter-output", config.DefaultLinterOutput,
		"Stream the linter writes violations to: stdout, stderr")
}

func (f *sectionFlags) addCheckOutdatedFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.checkOutdated, "check-outdated", false,
		"Fail when baseline entries no longer match any violation")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", constants.OutputFormatText,
		"Report format: text, json, yaml")
}

// resolve overlays the flags given on the command line on the config section
func (f *sectionFlags) resolve(cmd *cobra.Command, section config.SectionConfig) config.SectionConfig {
	var given config.SectionConfig
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Lookup(name) != nil && cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("baseline", &given.BaselineFile, f.baselineFile)
	set("format", &given.LintFormat, f.lintFormat)
	set("plugin", &given.Plugin, f.plugin)
	set("linter-command", &given.LinterCommand, f.linterCommand)
	set("linter-output", &given.LinterOutput, f.linterOutput)
	set("hook-name", &given.HookName, f.hookName)
	set("pre-commit-config", &given.PreCommitConfig, f.preCommitConfig)
	if cmd.Flags().Lookup("check-outdated") != nil && cmd.Flags().Changed("check-outdated") {
		v := f.checkOutdated
		given.CheckOutdated = &v
	}
	return section.Merge(given)
}

// requireBaseline checks the settings every baseline-reading command needs
func requireBaseline(s config.SectionConfig) error {
	if s.BaselineFile == "" {
		return usageExit("a baseline file is required: use --baseline or set baseline_file")
	}
	if s.LintFormat == "" && s.Plugin == "" {
		return usageExit("a parser is required: use --format or --plugin, or set lint_format or plugin")
	}
	return nil
}

func linterInvocation(s config.SectionConfig, files []string) (*domain.LinterInvocation, error) {
	if s.LinterCommand == "" {
		return nil, usageExit("a linter command is required: use --linter-command or set linter_command")
	}
	return &domain.LinterInvocation{
		Command: s.LinterCommand,
		Files:   files,
		Stream:  domain.OutputStream(s.LinterOutput),
	}, nil
}

func parserSelection(s config.SectionConfig) domain.ParserSelection {
	return domain.ParserSelection{Format: s.LintFormat, Plugin: s.Plugin}
}

func usageExit(message string) error {
	return &ExitError{Code: constants.ExitCodeError, Message: message}
}

func errorExit(err error) error {
	return &ExitError{Code: constants.ExitCodeError, Message: err.Error()}
}

// exitForReport maps a lint report to the process exit code
func exitForReport(report *domain.LintReport) error {
	if report.Failed() {
		return &ExitError{Code: constants.ExitCodeFindings}
	}
	return nil
}

func describeSection(name string) string {
	return fmt.Sprintf("Options not given on the command line are read from the [%s] section of\nthe config file, falling back to [%s].", name, constants.SectionCommon)
}
