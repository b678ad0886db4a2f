package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/linthell/internal/config"
	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a linthell configuration file",
		Long: `Generate a documented linthell configuration file.

Jobs for the chosen linters are added under 'linters' so 'linthell run'
works right away. Use --interactive for a guided setup.

Examples:
  # Create linthell.yaml with a flake8 job
  linthell init

  # Jobs for several linters
  linthell init --linters flake8,mypy,black

  # Overwrite an existing file
  linthell init --force

  # Only the linters block
  linthell init --minimal

  # Interactive setup wizard
  linthell init -i`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().StringP("output", "o", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().StringSlice("linters", []string{"flake8"},
		fmt.Sprintf("Linter presets to add jobs for (%s)", joinNames(config.PresetNames())))
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate only the linters block")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("output")
	linters, _ := cmd.Flags().GetStringSlice("linters")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	out := cmd.OutOrStdout()

	if interactive {
		var err error
		linters, configPath, err = runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return usageExit(fmt.Sprintf("%s already exists. Use --force to overwrite", configPath))
		}
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return usageExit(fmt.Sprintf("directory does not exist: %s", dir))
	}

	var content string
	var err error
	if minimal {
		content, err = config.GetMinimalConfigTemplate(linters)
	} else {
		content, err = config.GetFullConfigTemplate(linters)
	}
	if err != nil {
		return usageExit(err.Error())
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return usageExit(fmt.Sprintf("failed to write config file: %v", err))
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'linthell run --update-baseline' to create the baselines, then 'linthell run' to check.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) ([]string, string, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "linthell Configuration Setup")
	fmt.Fprintln(out, "============================")
	fmt.Fprintln(out)

	presets := config.GetLinterPresets()
	var linters []string
	for _, name := range config.PresetNames() {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Add %s (%s)", name, presets[name].Description),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			if err == promptui.ErrAbort {
				continue
			}
			return nil, "", fmt.Errorf("linter selection cancelled: %w", err)
		}
		linters = append(linters, name)
	}

	fmt.Fprintln(out)

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := outputPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	return linters, outputPath, nil
}
