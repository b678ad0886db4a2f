package main

import (
	"github.com/ludo-technologies/linthell/app"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/spf13/cobra"
)

func lintCmd() *cobra.Command {
	flags := &sectionFlags{}
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Filter linter output against a baseline file",
		Long: `Filter linter output read on stdin against a baseline file.

Violations recorded in the baseline are dropped. Remaining ones are printed
exactly as the linter reported them and the command exits with code 1.
Baseline entries that no longer match any violation are reported as a
warning, or as a failure with --check-outdated.

` + describeSection(constants.SectionLint) + `

Examples:
  flake8 | linthell lint -b .linthell/flake8.txt -p flake8
  black --diff --check . | linthell lint -b black.txt -p black-diff
  pylint src | linthell lint -b pylint.txt -p pylint --check-outdated -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, flags)
		},
	}

	flags.addParserFlags(cmd)
	flags.addCheckOutdatedFlag(cmd)
	addOutputFlag(cmd)
	return cmd
}

func runLint(cmd *cobra.Command, flags *sectionFlags) error {
	a, err := loadAppContext(cmd)
	if err != nil {
		return err
	}

	section := flags.resolve(cmd, a.cfg.ForCommand(constants.SectionLint))
	if err := requireBaseline(section); err != nil {
		return err
	}
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	output, err := a.readLinterOutput()
	if err != nil {
		return errorExit(err)
	}

	uc, err := app.NewLintUseCaseBuilder().
		WithService(a.lintService()).
		WithFormatter(a.formatter()).
		Build()
	if err != nil {
		return errorExit(err)
	}

	report, err := uc.Execute(cmd.Context(), domain.LintRequest{
		BaselineFile:  section.BaselineFile,
		Parser:        parserSelection(section),
		CheckOutdated: section.CheckOutdatedEnabled(),
		LinterOutput:  output,
		OutputFormat:  format,
		OutputWriter:  a.stdout,
	})
	if err != nil {
		return errorExit(err)
	}
	return exitForReport(report)
}
