package parser

// preset is a registered lint format for a well-known linter
type preset struct {
	name        string
	description string
	pattern     string
}

var presets = []preset{
	{
		name:        "flake8",
		description: "flake8 default output",
		pattern:     `(?P<path>.+):(?P<line>\d+):\d+: (?P<message>.+)`,
	},
	{
		name:        "pylint",
		description: "pylint parseable output, symbol name excluded from the message",
		pattern:     `(?P<path>.+):(?P<line>\d+):\d+: (?P<message>.+): .+`,
	},
	{
		name:        "mypy",
		description: "mypy errors with their trailing notes",
		pattern:     `(?P<path>.+):(?P<line>\d+): (?P<message>error: .+)(\n(?P=path):(?P=line): note: .+)?`,
	},
	{
		name:        "pydocstyle",
		description: "pydocstyle two-line output",
		pattern:     `(?P<path>.+):(?P<line>\d+).+\n\s+ (?P<message>.+)`,
	},
}
