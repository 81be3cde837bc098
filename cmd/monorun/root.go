// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monorun/monorun/internal/issue"
)

// annotationTolerateConfigError marks commands that still run when the
// configuration cannot be loaded.
const annotationTolerateConfigError = "monorun/tolerate-config-error"

// annotationReportsCommandLine marks commands that surface command-line
// definition errors themselves, or do not need the definitions.
const annotationReportsCommandLine = "monorun/reports-command-line"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// Execute runs the CLI for os.Args and exits the process. This is called by
// main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:")+" "+err.Error())
		os.Exit(1)
	}
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}

// newRootCommand builds the command tree. args are only inspected for
// --workspace so that the right global commands get registered.
func (a *App) newRootCommand(args []string) *cobra.Command {
	root := &cobra.Command{
		Use:   "monorun",
		Short: "Run workspace-wide scripts in a multi-project repository",
		Long: TitleStyle.Render("monorun") + SubtitleStyle.Render(" - workspace-wide scripts for multi-project repositories") + `

A workspace is a directory with a monorun.cue file listing its projects.
Global commands are declared in common/config/command-line.cue and run
once, from the workspace root, after the workspace has been linked.

` + SubtitleStyle.Render("Examples:") + `
  monorun link                 Check project folders and link the workspace
  monorun list                 List the global commands of this workspace
  monorun deploy --prod        Run the "deploy" global command
  monorun config show          Show the effective configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(cmd.Context()); err != nil {
				if !hasAnnotation(cmd, annotationTolerateConfigError) {
					return err
				}
				a.logger.Warn("using default configuration", "error", err)
			}
			if a.commandErr != nil && !hasAnnotation(cmd, annotationReportsCommandLine) {
				fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(a.commandErr, a.flags.verbose))
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default is <user config dir>/monorun/config.cue)")
	pf.StringVarP(&a.flags.workspaceDir, "workspace", "w", "", "workspace directory (default: search upwards from the current directory)")
	pf.StringVar(&a.flags.runtime, "runtime", "", "override runtime.default (native or virtual)")
	_ = root.RegisterFlagCompletionFunc("runtime", cobra.FixedCompletions(
		[]string{"native", "virtual"}, cobra.ShellCompDirectiveNoFileComp))

	root.AddGroup(
		&cobra.Group{ID: groupGlobal, Title: "Global Commands:"},
		&cobra.Group{ID: groupWorkspace, Title: "Workspace Commands:"},
	)

	for _, c := range []*cobra.Command{
		a.newLinkCommand(),
		a.newUnlinkCommand(),
		a.newListCommand(),
	} {
		c.GroupID = groupWorkspace
		root.AddCommand(c)
	}
	root.AddCommand(a.newConfigCommand())

	a.discover(args)
	a.registerGlobalCommands(root)

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func isActionable(err error) bool {
	var ae *issue.ActionableError
	return errors.As(err, &ae)
}

// hasAnnotation reports whether cmd or one of its parents carries key.
func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] != "" {
			return true
		}
	}
	return false
}
