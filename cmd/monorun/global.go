// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monorun/monorun/internal/action"
	"github.com/monorun/monorun/internal/parameter"
	"github.com/monorun/monorun/internal/workspace"
)

const (
	groupGlobal    = "global"
	groupWorkspace = "workspace"
)

// registerGlobalCommands adds one subcommand per command-line definition.
// Definitions were validated on load, so failures here are unexpected and
// only logged.
func (a *App) registerGlobalCommands(root *cobra.Command) {
	if a.commandLine == nil {
		return
	}
	for _, def := range a.commandLine.Commands {
		c, err := a.newGlobalCommand(def)
		if err != nil {
			a.logger.Warn("skipping global command", "name", def.Name, "error", err)
			continue
		}
		root.AddCommand(c)
	}
}

// newGlobalCommand creates the cobra command for def. Its parameters are
// bound to the command's flags and handed to the action in declaration
// order when it runs.
func (a *App) newGlobalCommand(def workspace.CommandDefinition) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:     def.Name,
		Short:   def.Summary,
		Long:    def.Description,
		GroupID: groupGlobal,
		Args:    cobra.NoArgs,
	}
	if c.Long == "" {
		c.Long = def.Summary
	}

	params := make([]parameter.Parameter, 0, len(def.Parameters))
	for _, pd := range def.Parameters {
		p, err := parameter.New(pd)
		if err != nil {
			return nil, err
		}
		p.Define(c.Flags())
		if p.Required() {
			if err := c.MarkFlagRequired(p.FlagName()); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.LongName(), err)
			}
		}
		if choice, ok := p.(*parameter.Choice); ok {
			_ = c.RegisterFlagCompletionFunc(p.FlagName(), cobra.FixedCompletions(
				choiceCompletions(choice), cobra.ShellCompDirectiveNoFileComp))
		}
		params = append(params, p)
	}

	c.RunE = func(cmd *cobra.Command, _ []string) error {
		ws, err := a.requireWorkspace()
		if err != nil {
			return classifyError(err)
		}
		runner, mode, err := a.newRunner()
		if err != nil {
			return err
		}

		act, err := action.NewGlobalScriptAction(action.Options{
			Name:       def.Name,
			ScriptPath: def.ScriptPath,
			Parameters: params,
			EnvFiles:   def.EnvFiles,
			Workspace:  ws,
			Runner:     runner,
			Logger:     a.logger,
			OutputMode: mode,
		})
		if err != nil {
			return err
		}
		return classifyError(act.Execute(cmd.Context(), a.Invocation))
	}

	return c, nil
}

// choiceCompletions offers each alternative with its description.
func choiceCompletions(choice *parameter.Choice) []string {
	alts := choice.Alternatives()
	out := make([]string, len(alts))
	for i, alt := range alts {
		out[i] = alt.Name
		if alt.Description != "" {
			out[i] += "\t" + alt.Description
		}
	}
	return out
}
