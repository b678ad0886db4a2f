package main

import (
	"github.com/ludo-technologies/linthell/app"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/spf13/cobra"
)

func baselineCmd() *cobra.Command {
	flags := &sectionFlags{}
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Create a baseline file from linter output",
		Long: `Create a baseline file from linter output read on stdin.

Every violation found in the output is recorded; 'linthell lint' then
reports only violations missing from the baseline. An existing baseline
file is replaced.

` + describeSection(constants.SectionBaseline) + `

Examples:
  flake8 | linthell baseline -b .linthell/flake8.txt -p flake8
  mypy . | linthell baseline -b mypy.txt -f '(?P<path>.+):(?P<line>\d+): (?P<message>.+)'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBaseline(cmd, flags)
		},
	}

	flags.addParserFlags(cmd)
	return cmd
}

func runBaseline(cmd *cobra.Command, flags *sectionFlags) error {
	a, err := loadAppContext(cmd)
	if err != nil {
		return err
	}

	section := flags.resolve(cmd, a.cfg.ForCommand(constants.SectionBaseline))
	if err := requireBaseline(section); err != nil {
		return err
	}

	output, err := a.readLinterOutput()
	if err != nil {
		return errorExit(err)
	}

	uc, err := app.NewBaselineUseCaseBuilder().
		WithService(a.baselineService()).
		Build()
	if err != nil {
		return errorExit(err)
	}

	_, err = uc.Execute(cmd.Context(), domain.BaselineRequest{
		BaselineFile: section.BaselineFile,
		Parser:       parserSelection(section),
		LinterOutput: output,
	})
	if err != nil {
		return errorExit(err)
	}
	return nil
}
