// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monorun/monorun/internal/config"
)

func (a *App) newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage monorun configuration",
		Annotations: map[string]string{annotationReportsCommandLine: "true"},
		Long: `Manage the monorun user configuration.

The configuration file is a CUE file in the user config directory
(~/.config/monorun/config.cue on Linux). Values can be overridden with
MONORUN_<SECTION>_<KEY> environment variables, e.g. MONORUN_UI_VERBOSE=true.`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				fmt.Fprint(a.stdout, config.GenerateCUE(a.cfg))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				path := a.flags.configPath
				if path == "" {
					var err error
					if path, err = config.ConfigFilePath(""); err != nil {
						return err
					}
				}
				fmt.Fprintln(a.stdout, path)
				return nil
			},
		},
		&cobra.Command{
			Use:         "init",
			Short:       "Create the default configuration file",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationTolerateConfigError: "true"},
			RunE: func(_ *cobra.Command, _ []string) error {
				path, created, err := a.createConfig()
				if err != nil {
					return err
				}
				if !created {
					fmt.Fprintf(a.stdout, "%s %s\n", SubtitleStyle.Render("Configuration already exists:"), path)
					return nil
				}
				fmt.Fprintf(a.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
				return nil
			},
		},
	)

	return configCmd
}

// createConfig writes the default config to --config, or to the default
// location. Existing files are kept.
func (a *App) createConfig() (string, bool, error) {
	if a.flags.configPath == "" {
		return config.CreateDefaultConfig("")
	}
	if _, err := os.Stat(a.flags.configPath); err == nil {
		return a.flags.configPath, false, nil
	}
	if err := config.Save(a.flags.configPath, config.DefaultConfig()); err != nil {
		return "", false, err
	}
	return a.flags.configPath, true, nil
}
