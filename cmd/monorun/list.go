// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/monorun/monorun/internal/parameter"
	"github.com/monorun/monorun/internal/workspace"
)

func (a *App) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List the global commands of this workspace",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationReportsCommandLine: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := a.requireWorkspace()
			if err != nil {
				return classifyError(err)
			}
			if a.commandErr != nil {
				return a.commandErr
			}
			renderCommandList(a.stdout, ws, a.commandLine)
			return nil
		},
	}
}

func renderCommandList(w io.Writer, ws *workspace.Workspace, cl *workspace.CommandLine) {
	status := WarningStyle.Render("not linked")
	if ws.IsLinked() {
		status = SuccessStyle.Render("linked")
	}
	fmt.Fprintf(w, "%s %s (%s)\n\n", TitleStyle.Render("Workspace"), ws.RootFolder(), status)

	if cl == nil || len(cl.Commands) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No global commands defined."))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render("Global commands"))
	for _, def := range cl.Commands {
		fmt.Fprintf(w, "  %s  %s\n", CmdStyle.Render(def.Name), def.Summary)
		fmt.Fprintf(w, "      %s\n", SubtitleStyle.Render("runs: "+def.ScriptPath))
		for _, p := range def.Parameters {
			fmt.Fprintf(w, "      %s  %s\n", CmdStyle.Render(parameterSignature(p)), p.Description)
		}
	}
}

// parameterSignature renders e.g. "-t, --target <staging|prod>".
func parameterSignature(p parameter.Definition) string {
	var sb strings.Builder
	if p.ShortName != "" {
		sb.WriteString(p.ShortName + ", ")
	}
	sb.WriteString(p.LongName)

	switch p.Kind {
	case parameter.KindFlag:
	case parameter.KindChoice:
		names := make([]string, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			names[i] = alt.Name
		}
		sb.WriteString(" <" + strings.Join(names, "|") + ">")
	default:
		arg := p.ArgumentName
		if arg == "" {
			arg = "VALUE"
		}
		sb.WriteString(" " + arg)
		if p.Kind == parameter.KindStringList {
			sb.WriteString("...")
		}
	}
	if p.Required {
		sb.WriteString(" (required)")
	}
	return sb.String()
}
