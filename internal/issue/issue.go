// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	WorkspaceNotFoundId Id = iota + 1
	WorkspaceParseErrorId
	WorkspaceNotLinkedId
	CommandLineParseErrorId
	CommandNotFoundId
	ScriptExecutionFailedId
	ShellNotFoundId
	ConfigLoadFailedId
	PermissionDeniedId
	ProjectFolderMissingId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue Markdown with the given glamour style
// ("dark", "light", "notty", or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	workspaceNotFoundIssue = &Issue{
		id: WorkspaceNotFoundId,
		mdMsg: `
# No workspace found!

monorun looked for a ` + "`monorun.cue`" + ` file in the current directory and
every parent directory, but found none.

## Things you can try:
- Run monorun from inside your workspace
- Point monorun at the workspace explicitly:
~~~
$ monorun --workspace /path/to/repo <command>
~~~`,
	}

	workspaceParseErrorIssue = &Issue{
		id: WorkspaceParseErrorId,
		mdMsg: `
# Failed to parse monorun.cue!

The workspace file has a syntax error or does not match the schema.

## Example monorun.cue:
~~~cue
projects: [
  {name: "web-app", folder: "apps/web-app"},
  {name: "shared-lib", folder: "libraries/shared-lib"},
]
~~~`,
	}

	workspaceNotLinkedIssue = &Issue{
		id: WorkspaceNotLinkedId,
		mdMsg: `
# The workspace is not linked!

Global commands need the link marker written by the link step. Running
scripts against an unlinked workspace fails in confusing ways later on.

## Things you can try:
~~~
$ monorun link
~~~`,
	}

	commandLineParseErrorIssue = &Issue{
		id: CommandLineParseErrorId,
		mdMsg: `
# Failed to load the command-line definitions!

` + "`common/config/command-line.cue`" + ` (or ` + "`.toml`" + `) is invalid.

## Example command-line.cue:
~~~cue
commands: [
  {
    name:        "deploy"
    summary:     "Deploy every app"
    script_path: "common/scripts/deploy.sh"
    parameters: [
      {kind: "flag", long_name: "--prod", description: "Target production"},
    ]
  },
]
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

## Things you can try:
- List the global commands of this workspace:
~~~
$ monorun list
~~~
- Check for typos in the command name`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script could not be started!

monorun failed before the script produced an exit code.

## Things you can try:
- Check that ` + "`script_path`" + ` points to an existing, executable file
- Check the shell configured under ` + "`runtime.shell`" + ` in your config
- Run with ` + "`--verbose`" + ` to see the assembled command line`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

The native runtime could not locate a shell to interpret the command.

## Things you can try:
- Set ` + "`runtime.shell`" + ` in your config file
- Use the built-in shell instead:
~~~cue
runtime: default: "virtual"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the effective configuration:
~~~
$ monorun config show
~~~
- Recreate the default file:
~~~
$ monorun config init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

## Things you can try:
- Make the script executable:
~~~
$ chmod +x common/scripts/<script>.sh
~~~
- Check permissions of the workspace and its common/temp folder`,
	}

	projectFolderMissingIssue = &Issue{
		id: ProjectFolderMissingId,
		mdMsg: `
# A project folder is missing!

The link step checks that every project declared in ` + "`monorun.cue`" + `
exists on disk.

## Things you can try:
- Fix the ` + "`folder`" + ` of the project in monorun.cue
- Remove projects that were deleted from the repository`,
	}

	issues = map[Id]*Issue{
		workspaceNotFoundIssue.Id():     workspaceNotFoundIssue,
		workspaceParseErrorIssue.Id():   workspaceParseErrorIssue,
		workspaceNotLinkedIssue.Id():    workspaceNotLinkedIssue,
		commandLineParseErrorIssue.Id(): commandLineParseErrorIssue,
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
		projectFolderMissingIssue.Id():  projectFolderMissingIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
