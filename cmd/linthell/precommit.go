package main

import (
	"github.com/ludo-technologies/linthell/app"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/spf13/cobra"
)

func preCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pre-commit",
		Short: "Commands for pre-commit hooks",
		Long: `Commands for pre-commit hooks.

They run the linter themselves, so a hook entry only needs linthell. Paths
are relative to the repository root, where pre-commit runs hooks.`,
	}

	cmd.AddCommand(preCommitLintCmd())
	cmd.AddCommand(preCommitBaselineCmd())
	return cmd
}

func preCommitLintCmd() *cobra.Command {
	flags := &sectionFlags{}
	cmd := &cobra.Command{
		Use:   "lint [files...]",
		Short: "Run a linter on files and filter its output against a baseline",
		Long: `Run the linter command with the given files appended and filter its
output against a baseline file. The linter's exit code is ignored.

` + describeSection(constants.SectionPreCommitLint) + `

Example hook:
  - id: flake8
    name: flake8
    entry: linthell pre-commit lint -b .linthell/flake8.txt -p flake8 --linter-command flake8
    language: system
    types: [python]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreCommitLint(cmd, flags, args)
		},
	}

	flags.addParserFlags(cmd)
	flags.addLinterFlags(cmd)
	flags.addCheckOutdatedFlag(cmd)
	addOutputFlag(cmd)
	return cmd
}

func runPreCommitLint(cmd *cobra.Command, flags *sectionFlags, files []string) error {
	a, err := loadAppContext(cmd)
	if err != nil {
		return err
	}

	section := flags.resolve(cmd, a.cfg.ForCommand(constants.SectionPreCommitLint))
	if err := requireBaseline(section); err != nil {
		return err
	}
	inv, err := linterInvocation(section, files)
	if err != nil {
		return err
	}
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	uc, err := app.NewLintUseCaseBuilder().
		WithService(a.lintService()).
		WithFormatter(a.formatter()).
		WithLinterRunner(a.runner()).
		Build()
	if err != nil {
		return errorExit(err)
	}

	report, err := uc.Execute(cmd.Context(), domain.LintRequest{
		BaselineFile:  section.BaselineFile,
		Parser:        parserSelection(section),
		CheckOutdated: section.CheckOutdatedEnabled(),
		Linter:        inv,
		OutputFormat:  format,
		OutputWriter:  a.stdout,
	})
	if err != nil {
		return errorExit(err)
	}
	return exitForReport(report)
}

func preCommitBaselineCmd() *cobra.Command {
	flags := &sectionFlags{}
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Create a baseline from every file a pre-commit hook checks",
		Long: `Create a baseline by running the linter on every file the named hook
would check with 'pre-commit run --all-files'. Files are selected from the
git index with the files, exclude and types settings of the pre-commit
configuration.

` + describeSection(constants.SectionPreCommitBaseline) + `

Example:
  linthell pre-commit baseline --hook-name flake8 -b .linthell/flake8.txt -p flake8 --linter-command flake8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreCommitBaseline(cmd, flags)
		},
	}

	flags.addParserFlags(cmd)
	flags.addLinterFlags(cmd)
	cmd.Flags().StringVar(&flags.hookName, "hook-name", "",
		"Name (or id) of the pre-commit hook whose files are linted")
	cmd.Flags().StringVar(&flags.preCommitConfig, "pre-commit-config", constants.PreCommitConfigFileName,
		"Path to the pre-commit configuration")
	return cmd
}

func runPreCommitBaseline(cmd *cobra.Command, flags *sectionFlags) error {
	a, err := loadAppContext(cmd)
	if err != nil {
		return err
	}

	section := flags.resolve(cmd, a.cfg.ForCommand(constants.SectionPreCommitBaseline))
	if err := requireBaseline(section); err != nil {
		return err
	}
	if section.HookName == "" {
		return usageExit("a hook name is required: use --hook-name or set hook_name")
	}
	inv, err := linterInvocation(section, nil)
	if err != nil {
		return err
	}

	uc, err := app.NewBaselineUseCaseBuilder().
		WithService(a.baselineService()).
		WithLinterRunner(a.runner()).
		WithHookResolver(a.hookResolver()).
		Build()
	if err != nil {
		return errorExit(err)
	}

	resp, err := uc.Execute(cmd.Context(), domain.BaselineRequest{
		BaselineFile:    section.BaselineFile,
		Parser:          parserSelection(section),
		Linter:          inv,
		HookName:        section.HookName,
		PreCommitConfig: section.PreCommitConfig,
	})
	if err != nil {
		return errorExit(err)
	}

	a.logger.Info("baseline updated", "hook", section.HookName, "entries", resp.Entries)
	return nil
}
