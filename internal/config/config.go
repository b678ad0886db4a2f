package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/spf13/viper"
)

// Default settings
const (
	// DefaultLinterOutput is the linter stream parsed when none is configured
	DefaultLinterOutput = "stdout"

	// DefaultLogLevel keeps stderr quiet unless something goes wrong
	DefaultLogLevel = "warn"

	// DefaultMaxConcurrency is the number of linter jobs run at once by 'run'
	DefaultMaxConcurrency = 4

	// DefaultTimeoutSeconds bounds a whole 'run' invocation
	DefaultTimeoutSeconds = 600
)

// Config represents the main configuration structure
type Config struct {
	// Common holds defaults applied to every command
	Common SectionConfig `json:"common" mapstructure:"common" yaml:"common"`

	// Baseline holds settings of the 'baseline' command
	Baseline SectionConfig `json:"baseline" mapstructure:"baseline" yaml:"baseline"`

	// Lint holds settings of the 'lint' command
	Lint SectionConfig `json:"lint" mapstructure:"lint" yaml:"lint"`

	// PreCommit holds settings of the 'pre-commit' subcommands
	PreCommit PreCommitConfig `json:"pre-commit" mapstructure:"pre-commit" yaml:"pre-commit"`

	// Linters lists the jobs executed by 'run'
	Linters []LinterJobConfig `json:"linters" mapstructure:"linters" yaml:"linters"`

	// Output holds report formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Logger holds diagnostic logging configuration
	Logger LoggerConfig `json:"logger" mapstructure:"logger" yaml:"logger"`

	// Performance holds concurrency and timeout limits
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// SectionConfig holds the options shared by the baseline and lint commands.
// Empty values are unset and fall back to the common section.
type SectionConfig struct {
	BaselineFile    string `json:"baseline_file,omitempty" mapstructure:"baseline_file" yaml:"baseline_file,omitempty"`
	LintFormat      string `json:"lint_format,omitempty" mapstructure:"lint_format" yaml:"lint_format,omitempty"`
	Plugin          string `json:"plugin,omitempty" mapstructure:"plugin" yaml:"plugin,omitempty"`
	LinterCommand   string `json:"linter_command,omitempty" mapstructure:"linter_command" yaml:"linter_command,omitempty"`
	LinterOutput    string `json:"linter_output,omitempty" mapstructure:"linter_output" yaml:"linter_output,omitempty"`
	HookName        string `json:"hook_name,omitempty" mapstructure:"hook_name" yaml:"hook_name,omitempty"`
	CheckOutdated   *bool  `json:"check_outdated,omitempty" mapstructure:"check_outdated" yaml:"check_outdated,omitempty"`
	PreCommitConfig string `json:"pre_commit_config,omitempty" mapstructure:"pre_commit_config" yaml:"pre_commit_config,omitempty"`
}

// PreCommitConfig groups the sections of the pre-commit subcommands
type PreCommitConfig struct {
	Baseline SectionConfig `json:"baseline" mapstructure:"baseline" yaml:"baseline"`
	Lint     SectionConfig `json:"lint" mapstructure:"lint" yaml:"lint"`
}

// LinterJobConfig describes one linter run by 'linthell run'
type LinterJobConfig struct {
	Name          string   `json:"name" mapstructure:"name" yaml:"name"`
	Command       string   `json:"command" mapstructure:"command" yaml:"command"`
	Plugin        string   `json:"plugin,omitempty" mapstructure:"plugin" yaml:"plugin,omitempty"`
	LintFormat    string   `json:"lint_format,omitempty" mapstructure:"lint_format" yaml:"lint_format,omitempty"`
	BaselineFile  string   `json:"baseline_file" mapstructure:"baseline_file" yaml:"baseline_file"`
	LinterOutput  string   `json:"linter_output,omitempty" mapstructure:"linter_output" yaml:"linter_output,omitempty"`
	Files         []string `json:"files,omitempty" mapstructure:"files" yaml:"files,omitempty"`
	HookName      string   `json:"hook_name,omitempty" mapstructure:"hook_name" yaml:"hook_name,omitempty"`
	CheckOutdated bool     `json:"check_outdated,omitempty" mapstructure:"check_outdated" yaml:"check_outdated,omitempty"`
	Enabled       *bool    `json:"enabled,omitempty" mapstructure:"enabled" yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the job runs; jobs are enabled unless disabled explicitly
func (j *LinterJobConfig) IsEnabled() bool {
	return j.Enabled == nil || *j.Enabled
}

// OutputConfig holds configuration for report formatting
type OutputConfig struct {
	// Format specifies the report format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Color enables colored warnings in text output on terminals
	Color bool `json:"color" mapstructure:"color" yaml:"color"`
}

// LoggerConfig holds configuration for diagnostic logging
type LoggerConfig struct {
	// Level is one of trace, debug, info, warn, error, off
	Level string `json:"level" mapstructure:"level" yaml:"level"`
}

// PerformanceConfig holds limits for concurrent linter jobs
type PerformanceConfig struct {
	// MaxConcurrency is the number of linter jobs run at once (0 = default)
	MaxConcurrency int `json:"max_concurrency" mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// TimeoutSeconds bounds the whole run (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Common: SectionConfig{
			LinterOutput:    DefaultLinterOutput,
			PreCommitConfig: constants.PreCommitConfigFileName,
		},
		Linters: []LinterJobConfig{},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
			Color:  true,
		},
		Logger: LoggerConfig{
			Level: DefaultLogLevel,
		},
		Performance: PerformanceConfig{
			MaxConcurrency: DefaultMaxConcurrency,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// sectionKeys are the keys accepted by every command section
var sectionKeys = []string{
	"baseline_file",
	"lint_format",
	"plugin",
	"linter_command",
	"linter_output",
	"hook_name",
	"check_outdated",
	"pre_commit_config",
}

// sectionNames are the dotted paths of the command sections
var sectionNames = []string{
	constants.SectionCommon,
	constants.SectionBaseline,
	constants.SectionLint,
	constants.SectionPreCommitBaseline,
	constants.SectionPreCommitLint,
}

// ForCommand returns the common section overlaid with the section of a
// command, e.g. "lint" or "pre-commit.lint".
func (c *Config) ForCommand(section string) SectionConfig {
	merged := c.Common
	var specific SectionConfig
	switch section {
	case constants.SectionBaseline:
		specific = c.Baseline
	case constants.SectionLint:
		specific = c.Lint
	case constants.SectionPreCommitBaseline:
		specific = c.PreCommit.Baseline
	case constants.SectionPreCommitLint:
		specific = c.PreCommit.Lint
	}
	return merged.Merge(specific)
}

// Merge returns s with every value set in other taking precedence
func (s SectionConfig) Merge(other SectionConfig) SectionConfig {
	override := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	override(&s.BaselineFile, other.BaselineFile)
	override(&s.LintFormat, other.LintFormat)
	override(&s.Plugin, other.Plugin)
	override(&s.LinterCommand, other.LinterCommand)
	override(&s.LinterOutput, other.LinterOutput)
	override(&s.HookName, other.HookName)
	override(&s.PreCommitConfig, other.PreCommitConfig)
	if other.CheckOutdated != nil {
		v := *other.CheckOutdated
		s.CheckOutdated = &v
	}

	// a plugin set at a more specific level replaces an inherited format and vice versa
	if other.Plugin != "" && other.LintFormat == "" {
		s.LintFormat = ""
	}
	if other.LintFormat != "" && other.Plugin == "" {
		s.Plugin = ""
	}
	return s
}

// CheckOutdatedEnabled returns the check_outdated value, false when unset
func (s SectionConfig) CheckOutdatedEnabled() bool {
	return s.CheckOutdated != nil && *s.CheckOutdated
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration, discovering a file upward from
// targetPath when configPath is empty.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// newViper creates a viper instance honouring LINTHELL_* environment variables
func newViper() *viper.Viper {
	// a new instance per load avoids shared global state
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, section := range sectionNames {
		for _, key := range sectionKeys {
			_ = v.BindEnv(section + "." + key)
		}
	}
	for _, key := range []string{"output.format", "output.color", "logger.level", "performance.max_concurrency", "performance.timeout_seconds"} {
		_ = v.BindEnv(key)
	}
	return v
}

// loadConfigFromFile reads and parses a configuration file. An empty path
// yields the defaults with environment overrides applied.
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()
	config := DefaultConfig()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configCandidates lists the file names searched in every directory
var configCandidates = []string{
	"linthell.yaml",
	"linthell.yml",
	".linthell.yaml",
	".linthell.yml",
	".linthell.toml",
	"linthell.json",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for a configuration file from targetPath (or the
// working directory) upward, then in the XDG config directory, then in
// LINTHELL_CONFIG.
func findDefaultConfig(targetPath string) string {
	start := targetPath
	if start == "" {
		start = "."
	}

	if absPath, err := filepath.Abs(start); err == nil {
		if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
			absPath = filepath.Dir(absPath)
		}

		volume := filepath.VolumeName(absPath)
		for dir := absPath; ; dir = filepath.Dir(dir) {
			if config := searchConfigInDirectory(dir, configCandidates); config != "" {
				return config
			}

			parent := filepath.Dir(dir)
			if parent == dir ||
				dir == volume ||
				(volume != "" && dir == volume+string(filepath.Separator)) {
				break
			}
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "off": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid logger.level '%s', must be one of: trace, debug, info, warn, error, off", c.Logger.Level)
	}

	if c.Performance.MaxConcurrency < 0 {
		return fmt.Errorf("performance.max_concurrency must be >= 0, got %d", c.Performance.MaxConcurrency)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	sections := map[string]SectionConfig{
		constants.SectionCommon:            c.Common,
		constants.SectionBaseline:          c.Baseline,
		constants.SectionLint:              c.Lint,
		constants.SectionPreCommitBaseline: c.PreCommit.Baseline,
		constants.SectionPreCommitLint:     c.PreCommit.Lint,
	}
	for _, name := range sectionNames {
		if err := validateLinterOutput(name+".linter_output", sections[name].LinterOutput); err != nil {
			return err
		}
	}

	return c.validateLinters()
}

func validateLinterOutput(key, value string) error {
	if value != "" && value != "stdout" && value != "stderr" {
		return fmt.Errorf("invalid %s '%s', must be one of: stdout, stderr", key, value)
	}
	return nil
}

// validateLinters validates the job list of 'run'
func (c *Config) validateLinters() error {
	seen := make(map[string]bool)
	for i, job := range c.Linters {
		if job.Name == "" {
			return fmt.Errorf("linters[%d].name must not be empty", i)
		}
		if seen[job.Name] {
			return fmt.Errorf("duplicate linter job name '%s'", job.Name)
		}
		seen[job.Name] = true

		if job.Command == "" {
			return fmt.Errorf("linters[%d] (%s): command must not be empty", i, job.Name)
		}
		if job.BaselineFile == "" {
			return fmt.Errorf("linters[%d] (%s): baseline_file must not be empty", i, job.Name)
		}
		if (job.Plugin == "") == (job.LintFormat == "") {
			return fmt.Errorf("linters[%d] (%s): exactly one of plugin or lint_format must be set", i, job.Name)
		}
		if err := validateLinterOutput(fmt.Sprintf("linters[%d].linter_output", i), job.LinterOutput); err != nil {
			return err
		}
	}
	return nil
}

// FindLinter returns the job with the given name
func (c *Config) FindLinter(name string) (*LinterJobConfig, bool) {
	for i := range c.Linters {
		if c.Linters[i].Name == name {
			return &c.Linters[i], true
		}
	}
	return nil, false
}
