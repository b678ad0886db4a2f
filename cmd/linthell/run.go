package main

import (
	"fmt"

	"github.com/ludo-technologies/linthell/app"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/config"
	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/ludo-technologies/linthell/service"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every configured linter against its baseline",
		Long: `Run the linters listed under 'linters' in the config file concurrently,
each filtered against its own baseline file.

Examples:
  # Check all linters
  linthell run

  # Only some of them
  linthell run --job flake8 --job mypy

  # Regenerate every baseline
  linthell run --update-baseline`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	cmd.Flags().Bool("update-baseline", false,
		"Regenerate the baseline of every job instead of checking it")
	cmd.Flags().StringSlice("job", nil,
		"Run only the named jobs (repeatable)")
	cmd.Flags().Bool("no-progress", false,
		"Do not draw a progress bar")
	addOutputFlag(cmd)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadAppContext(cmd)
	if err != nil {
		return err
	}

	update, _ := cmd.Flags().GetBool("update-baseline")
	names, _ := cmd.Flags().GetStringSlice("job")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	jobs, err := selectJobs(a.cfg, names)
	if err != nil {
		return err
	}

	pm := service.NewProgressManager(!noProgress && format == domain.OutputFormatText)
	defer pm.Close()

	uc, err := app.NewRunUseCaseBuilder().
		WithBaselineService(a.baselineService()).
		WithLintService(a.lintService()).
		WithExecutor(service.NewParallelExecutor(a.cfg.Performance, pm)).
		WithFormatter(a.formatter()).
		WithLinterRunner(a.runner()).
		WithHookResolver(a.hookResolver()).
		WithLogger(a.logger.Named("run")).
		Build()
	if err != nil {
		return errorExit(err)
	}

	resp, err := uc.Execute(cmd.Context(), domain.RunRequest{
		Jobs:           jobs,
		UpdateBaseline: update,
		OutputFormat:   format,
		OutputWriter:   a.stdout,
	})
	if err != nil {
		return errorExit(err)
	}

	switch {
	case resp.HasErrors():
		return &ExitError{Code: constants.ExitCodeError}
	case resp.Failed():
		return &ExitError{Code: constants.ExitCodeFindings}
	}
	return nil
}

// selectJobs converts enabled configured linters to jobs, restricted to
// names when given
func selectJobs(cfg *config.Config, names []string) ([]domain.LinterJob, error) {
	common := cfg.ForCommand(constants.SectionCommon)

	var selected []config.LinterJobConfig
	if len(names) == 0 {
		for _, l := range cfg.Linters {
			if l.IsEnabled() {
				selected = append(selected, l)
			}
		}
	} else {
		for _, name := range names {
			l, ok := cfg.FindLinter(name)
			if !ok {
				return nil, usageExit(fmt.Sprintf("unknown linter job %q", name))
			}
			selected = append(selected, *l)
		}
	}
	if len(selected) == 0 {
		return nil, usageExit("no linters configured: add them under 'linters' or run 'linthell init'")
	}

	jobs := make([]domain.LinterJob, 0, len(selected))
	for _, l := range selected {
		stream := l.LinterOutput
		if stream == "" {
			stream = common.LinterOutput
		}
		jobs = append(jobs, domain.LinterJob{
			Name:         l.Name,
			Parser:       domain.ParserSelection{Format: l.LintFormat, Plugin: l.Plugin},
			BaselineFile: l.BaselineFile,
			Linter: domain.LinterInvocation{
				Command: l.Command,
				Files:   l.Files,
				Stream:  domain.OutputStream(stream),
			},
			CheckOutdated:   l.CheckOutdated,
			HookName:        l.HookName,
			PreCommitConfig: common.PreCommitConfig,
		})
	}
	return jobs, nil
}
