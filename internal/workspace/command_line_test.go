// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"strings"
	"testing"

	"github.com/monorun/monorun/internal/parameter"
	"github.com/monorun/monorun/internal/testutil"
)

const sampleCommandLineCUE = `commands: [
	{
		name:        "deploy"
		summary:     "Deploy all apps"
		script_path: "common/scripts/deploy.sh"
		env_files: ["common/config/deploy.env?"]
		parameters: [
			{kind: "flag", long_name: "--dry-run", short_name: "-n", description: "Print what would be deployed"},
			{
				kind:        "choice"
				long_name:   "--target"
				description: "Target environment"
				alternatives: [
					{name: "staging", description: "Staging"},
					{name: "prod", description: "Production"},
				]
				default_value: "staging"
			},
		]
	},
	{name: "lint", summary: "Lint everything", script_path: "node lint.js"},
]
`

const sampleCommandLineTOML = `
[[commands]]
name = "deploy"
summary = "Deploy all apps"
script_path = "common/scripts/deploy.sh"

[[commands.parameters]]
kind = "string"
long_name = "--region"
argument_name = "REGION"
description = "Cloud region"
required = true
`

func loadFixture(t *testing.T) (*testutil.WorkspaceFixture, *Workspace) {
	t.Helper()
	fx := testutil.NewWorkspace(t, "")
	ws, err := Load(fx.Path(FileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return fx, ws
}

func TestLoadCommandLine_CUE(t *testing.T) {
	t.Parallel()

	fx, ws := loadFixture(t)
	path := fx.WriteCommandLine(t, CommandLineCUEFileName, sampleCommandLineCUE)

	cl, err := ws.LoadCommandLine()
	if err != nil {
		t.Fatalf("LoadCommandLine() error = %v", err)
	}
	if cl.Path != path {
		t.Errorf("Path = %q, want %q", cl.Path, path)
	}
	if len(cl.Commands) != 2 {
		t.Fatalf("len(Commands) = %d, want 2", len(cl.Commands))
	}

	deploy, ok := cl.Find("deploy")
	if !ok {
		t.Fatal("Find(deploy) should succeed")
	}
	if deploy.ScriptPath != "common/scripts/deploy.sh" {
		t.Errorf("ScriptPath = %q", deploy.ScriptPath)
	}
	if len(deploy.Parameters) != 2 {
		t.Fatalf("len(Parameters) = %d, want 2", len(deploy.Parameters))
	}
	if deploy.Parameters[1].Kind != parameter.KindChoice || deploy.Parameters[1].DefaultValue != "staging" {
		t.Errorf("Parameters[1] = %+v", deploy.Parameters[1])
	}
	if len(deploy.EnvFiles) != 1 {
		t.Errorf("EnvFiles = %v", deploy.EnvFiles)
	}

	if _, ok := cl.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}

func TestLoadCommandLine_TOML(t *testing.T) {
	t.Parallel()

	fx, ws := loadFixture(t)
	fx.WriteCommandLine(t, CommandLineTOMLFileName, sampleCommandLineTOML)

	cl, err := ws.LoadCommandLine()
	if err != nil {
		t.Fatalf("LoadCommandLine() error = %v", err)
	}
	deploy, ok := cl.Find("deploy")
	if !ok {
		t.Fatal("Find(deploy) should succeed")
	}
	if len(deploy.Parameters) != 1 || !deploy.Parameters[0].Required || deploy.Parameters[0].ArgumentName != "REGION" {
		t.Errorf("Parameters = %+v", deploy.Parameters)
	}
}

func TestLoadCommandLine_PrefersCUE(t *testing.T) {
	t.Parallel()

	fx, ws := loadFixture(t)
	cuePath := fx.WriteCommandLine(t, CommandLineCUEFileName, sampleCommandLineCUE)
	fx.WriteCommandLine(t, CommandLineTOMLFileName, sampleCommandLineTOML)

	if got := ws.CommandLinePath(); got != cuePath {
		t.Errorf("CommandLinePath() = %q, want %q", got, cuePath)
	}
}

func TestLoadCommandLine_Missing(t *testing.T) {
	t.Parallel()

	_, ws := loadFixture(t)

	cl, err := ws.LoadCommandLine()
	if err != nil {
		t.Fatalf("LoadCommandLine() error = %v", err)
	}
	if len(cl.Commands) != 0 || cl.Path != "" {
		t.Errorf("LoadCommandLine() = %+v, want empty", cl)
	}
}

func TestLoadCommandLine_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  string
		sentinel error
	}{
		{
			name:    "unknown parameter kind",
			file:    CommandLineCUEFileName,
			content: `commands: [{name: "a", summary: "", script_path: "a.sh", parameters: [{kind: "bool", long_name: "--x", description: ""}]}]`,
			wantErr: "kind",
		},
		{
			name:    "missing script path",
			file:    CommandLineCUEFileName,
			content: `commands: [{name: "a", summary: ""}]`,
			wantErr: "script_path",
		},
		{
			name:     "duplicate command",
			file:     CommandLineCUEFileName,
			content:  `commands: [{name: "a", summary: "", script_path: "a.sh"}, {name: "a", summary: "", script_path: "b.sh"}]`,
			sentinel: ErrDuplicateCommand,
		},
		{
			name:     "reserved command",
			file:     CommandLineCUEFileName,
			content:  `commands: [{name: "link", summary: "", script_path: "a.sh"}]`,
			sentinel: ErrReservedCommand,
		},
		{
			name: "duplicate short name",
			file: CommandLineCUEFileName,
			content: `commands: [{name: "a", summary: "", script_path: "a.sh", parameters: [
				{kind: "flag", long_name: "--one", short_name: "-x", description: ""},
				{kind: "flag", long_name: "--two", short_name: "-x", description: ""},
			]}]`,
			sentinel: ErrDuplicateParameter,
		},
		{
			name: "choice default not an alternative",
			file: CommandLineCUEFileName,
			content: `commands: [{name: "a", summary: "", script_path: "a.sh", parameters: [
				{kind: "choice", long_name: "--c", description: "", alternatives: [{name: "x", description: ""}], default_value: "y"},
			]}]`,
			sentinel: parameter.ErrInvalidDefinition,
		},
		{
			name: "short name taken by --workspace",
			file: CommandLineCUEFileName,
			content: `commands: [{name: "build", summary: "", script_path: "a.sh", parameters: [
				{kind: "flag", long_name: "--watch", short_name: "-w", description: ""},
			]}]`,
			sentinel: ErrReservedParameter,
		},
		{
			name: "short name taken by --verbose",
			file: CommandLineCUEFileName,
			content: `commands: [{name: "build", summary: "", script_path: "a.sh", parameters: [
				{kind: "flag", long_name: "--vendor", short_name: "-v", description: ""},
			]}]`,
			sentinel: ErrReservedParameter,
		},
		{
			name: "long name shadows --config",
			file: CommandLineCUEFileName,
			content: `commands: [{name: "build", summary: "", script_path: "a.sh", parameters: [
				{kind: "string", long_name: "--config", description: ""},
			]}]`,
			sentinel: ErrReservedParameter,
		},
		{
			name:     "toml reserved short name",
			file:     CommandLineTOMLFileName,
			content:  "[[commands]]\nname = \"build\"\nsummary = \"s\"\nscript_path = \"a.sh\"\n\n[[commands.parameters]]\nkind = \"flag\"\nlong_name = \"--hard\"\nshort_name = \"-h\"\ndescription = \"d\"\n",
			sentinel: ErrReservedParameter,
		},
		{
			name:     "toml command name with space",
			file:     CommandLineTOMLFileName,
			content:  "[[commands]]\nname = \"Deploy All\"\nsummary = \"s\"\nscript_path = \"a.sh\"\n",
			sentinel: ErrInvalidCommandName,
		},
		{
			name:     "toml uppercase long name",
			file:     CommandLineTOMLFileName,
			content:  "[[commands]]\nname = \"build\"\nsummary = \"s\"\nscript_path = \"a.sh\"\n\n[[commands.parameters]]\nkind = \"string\"\nlong_name = \"--Target\"\ndescription = \"d\"\n",
			sentinel: parameter.ErrInvalidDefinition,
		},
		{
			name:     "toml lowercase argument name",
			file:     CommandLineTOMLFileName,
			content:  "[[commands]]\nname = \"build\"\nsummary = \"s\"\nscript_path = \"a.sh\"\n\n[[commands.parameters]]\nkind = \"string\"\nlong_name = \"--target\"\nargument_name = \"env\"\ndescription = \"d\"\n",
			sentinel: parameter.ErrInvalidDefinition,
		},
		{
			name:    "toml unknown field",
			file:    CommandLineTOMLFileName,
			content: "[[commands]]\nname = \"a\"\nsummary = \"s\"\nscript_path = \"a.sh\"\ncolour = \"red\"\n",
			wantErr: "colour",
		},
		{
			name:    "toml missing summary",
			file:    CommandLineTOMLFileName,
			content: "[[commands]]\nname = \"a\"\nscript_path = \"a.sh\"\n",
			wantErr: "summary is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx, ws := loadFixture(t)
			fx.WriteCommandLine(t, tt.file, tt.content)

			_, err := ws.LoadCommandLine()
			if err == nil {
				t.Fatal("LoadCommandLine() should fail")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want errors.Is(%v)", err, tt.sentinel)
			}
		})
	}
}

func TestIsReservedCommand(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"link", "unlink", "list", "config", "help"} {
		if !IsReservedCommand(name) {
			t.Errorf("IsReservedCommand(%q) = false, want true", name)
		}
	}
	if IsReservedCommand("deploy") {
		t.Error("IsReservedCommand(deploy) = true, want false")
	}
}

func TestCommandDefinition_ValidateNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		def      CommandDefinition
		sentinel error
	}{
		{name: "simple", def: CommandDefinition{Name: "deploy", ScriptPath: "a.sh"}},
		{name: "hyphenated", def: CommandDefinition{Name: "build-all2", ScriptPath: "a.sh"}},
		{name: "empty", def: CommandDefinition{ScriptPath: "a.sh"}, sentinel: ErrInvalidCommandName},
		{name: "uppercase", def: CommandDefinition{Name: "Deploy", ScriptPath: "a.sh"}, sentinel: ErrInvalidCommandName},
		{name: "space", def: CommandDefinition{Name: "deploy all", ScriptPath: "a.sh"}, sentinel: ErrInvalidCommandName},
		{name: "leading digit", def: CommandDefinition{Name: "1deploy", ScriptPath: "a.sh"}, sentinel: ErrInvalidCommandName},
		{
			name: "reserved long name",
			def: CommandDefinition{Name: "deploy", ScriptPath: "a.sh", Parameters: []parameter.Definition{
				{Kind: parameter.KindString, LongName: "--workspace"},
			}},
			sentinel: ErrReservedParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.def.Validate()
			if tt.sentinel == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Validate() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}
