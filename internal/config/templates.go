package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LinterPreset holds a ready-made 'run' job for a well-known linter
type LinterPreset struct {
	Name         string
	Description  string
	Command      string
	Plugin       string
	LinterOutput string
}

// GetLinterPresets returns the job presets offered by 'linthell init'
func GetLinterPresets() map[string]LinterPreset {
	return map[string]LinterPreset{
		"flake8": {
			Name:        "flake8",
			Description: "style and error checks",
			Command:     "flake8",
			Plugin:      "flake8",
		},
		"pylint": {
			Name:        "pylint",
			Description: "static analysis",
			Command:     `pylint --msg-template="{path}:{line}:{column}: {msg_id} {msg}: {symbol}"`,
			Plugin:      "pylint",
		},
		"mypy": {
			Name:        "mypy",
			Description: "type checking",
			Command:     "mypy",
			Plugin:      "mypy",
		},
		"pydocstyle": {
			Name:        "pydocstyle",
			Description: "docstring conventions",
			Command:     "pydocstyle",
			Plugin:      "pydocstyle",
		},
		"black": {
			Name:        "black",
			Description: "formatting, per changed line",
			Command:     "black --diff --check --quiet",
			Plugin:      "black-diff",
		},
		"isort": {
			Name:        "isort",
			Description: "import ordering, per changed line",
			Command:     "isort --diff --check-only",
			Plugin:      "isort-diff",
		},
	}
}

// PresetNames returns the names of the linter presets, sorted
func PresetNames() []string {
	presets := GetLinterPresets()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobsFromPresets builds 'run' jobs for the named presets. Baselines are
// placed in baselineDir.
func JobsFromPresets(names []string, baselineDir string) ([]LinterJobConfig, error) {
	presets := GetLinterPresets()
	if baselineDir == "" {
		baselineDir = ".linthell"
	}

	jobs := make([]LinterJobConfig, 0, len(names))
	for _, name := range names {
		preset, ok := presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown linter preset '%s', must be one of: %s", name, strings.Join(PresetNames(), ", "))
		}
		jobs = append(jobs, LinterJobConfig{
			Name:         preset.Name,
			Command:      preset.Command,
			Plugin:       preset.Plugin,
			BaselineFile: strings.TrimSuffix(baselineDir, "/") + "/" + preset.Name + ".txt",
			LinterOutput: preset.LinterOutput,
			Files:        []string{"."},
		})
	}
	return jobs, nil
}

// GetFullConfigTemplate returns the documented config template with jobs
// for the given linter presets
func GetFullConfigTemplate(linters []string) (string, error) {
	jobs, err := renderJobs(linters)
	if err != nil {
		return "", err
	}
	return strings.Replace(DefaultConfigYAML, "linters: []\n", jobs, 1), nil
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate(linters []string) (string, error) {
	jobs, err := renderJobs(linters)
	if err != nil {
		return "", err
	}
	return "# linthell configuration (minimal)\n\n" + jobs, nil
}

// renderJobs renders the linters block of a config file
func renderJobs(linters []string) (string, error) {
	jobs, err := JobsFromPresets(linters, "")
	if err != nil {
		return "", err
	}
	if len(jobs) == 0 {
		return "linters: []\n", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]LinterJobConfig{"linters": jobs}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
