// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monorun/monorun/internal/linker"
)

func (a *App) newLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Check project folders and link the workspace",
		Long: `Check that every project declared in monorun.cue exists on disk and
write the link marker to the common temp folder. Global commands refuse to
run until the workspace is linked.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := a.requireWorkspace()
			if err != nil {
				return classifyError(err)
			}
			marker, err := linker.Link(ws)
			if err != nil {
				return classifyError(err)
			}
			a.logger.Debug("wrote link marker", "path", ws.LinkMarkerPath())
			fmt.Fprintf(a.stdout, "%s Linked %d project(s) in %s\n",
				SuccessStyle.Render("✓"), len(marker.Projects), ws.RootFolder())
			return nil
		},
	}
}

func (a *App) newUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: "Remove the link marker",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := a.requireWorkspace()
			if err != nil {
				return classifyError(err)
			}
			removed, err := linker.Unlink(ws)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(a.stdout, SubtitleStyle.Render("The workspace was not linked."))
				return nil
			}
			fmt.Fprintf(a.stdout, "%s Unlinked %s\n", SuccessStyle.Render("✓"), ws.RootFolder())
			return nil
		},
	}
}
