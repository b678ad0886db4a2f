package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "linthell"

	// ConfigFileName is the default config file name
	ConfigFileName = "linthell.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "LINTHELL"

	// PreCommitConfigFileName is the default pre-commit configuration file
	PreCommitConfigFileName = ".pre-commit-config.yaml"
)

// Config section constants
const (
	SectionCommon            = "common"
	SectionBaseline          = "baseline"
	SectionLint              = "lint"
	SectionPreCommitBaseline = "pre-commit.baseline"
	SectionPreCommitLint     = "pre-commit.lint"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitCodeClean    = 0
	ExitCodeFindings = 1
	ExitCodeError    = 2
)
