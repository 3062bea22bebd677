// Package help holds the chatsite command descriptions and renders them as
// terminal help and man pages.
package help

import "strings"

// Version is the chatsite release version, set at build time via -ldflags.
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--root <dir>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes a chatsite subcommand, or the binary itself when Name
// is empty.
type Command struct {
	Name        string
	Synopsis    string // lowercase, for the --help header
	Brief       string // capitalized, for the usage table
	Usage       string
	TableUsage  string // shorter usage for the usage table, if different
	Args        []Arg
	Flags       []Flag
	Description string
	Examples    []string
	SeeAlso     []string // e.g. "chatsite(1)"
}

func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns "chatsite" for the top level and "chatsite-<name>" for
// subcommands.
func (c Command) ManName() string {
	if c.Name == "" {
		return "chatsite"
	}
	return "chatsite-" + strings.ReplaceAll(c.Name, " ", "-")
}

// GlobalFlags are accepted by every command that reads configuration.
var GlobalFlags = []Flag{
	{Name: "--root <dir>", Desc: "Project root (overrides project_root)"},
	{Name: "--config <file>", Desc: "Config file (default: ./chatsite.toml, then ~/.config/chatsite/config.toml)"},
}

var TopLevel = Command{
	Synopsis: "static website generator for coding-session chat logs",
}

var CmdBuild = Command{
	Name:       "build",
	Synopsis:   "generate the website",
	Brief:      "Generate the website (default command)",
	Usage:      "chatsite build [--root <dir>] [--config <file>] [--no-cache]",
	TableUsage: "chatsite [build]",
	Flags: append(append([]Flag(nil), GlobalFlags...),
		Flag{Name: "--no-cache", Desc: "Ignore the build cache and render every chat log"},
	),
	Description: `Renders every JSONL chat log in the outputs directory to
website/chatlogs/<id>.html and every markdown summary in the sessions
directory to website/sessions/<name>.html, then writes the chatlogs.html
and sessions.html index pages and replaces the placeholder repository URL
in website/index.html.

Empty files are skipped. Malformed lines are skipped with a warning and
never stop the build. Chat logs compressed with "chatsite archive"
(.jsonl.zst) are read transparently.

Unchanged chat logs are not re-rendered when the build cache is enabled.`,
	Examples: []string{
		"chatsite                           Build using ./chatsite.toml or defaults",
		"chatsite build --root ~/clankeros  Build another project",
	},
	SeeAlso: []string{"chatsite(1)", "chatsite-watch(1)", "chatsite-check(1)"},
}

var CmdWatch = Command{
	Name:     "watch",
	Synopsis: "rebuild the website when inputs change",
	Brief:    "Rebuild on changes to chat logs or summaries",
	Usage:    "chatsite watch [--root <dir>] [--config <file>]",
	Flags:    GlobalFlags,
	Description: `Builds once, then watches the outputs and sessions directories and
rebuilds after a burst of changes settles (watch.debounce_ms). Stops on
interrupt.`,
	SeeAlso: []string{"chatsite(1)", "chatsite-build(1)"},
}

var CmdArchive = Command{
	Name:     "archive",
	Synopsis: "compress chat logs with zstd",
	Brief:    "Compress chat logs to .jsonl.zst",
	Usage:    "chatsite archive <file.jsonl>... [--keep]",
	Args: []Arg{
		{Name: "file.jsonl", Desc: "Chat log to compress"},
	},
	Flags: append(append([]Flag(nil), GlobalFlags...),
		Flag{Name: "--keep", Desc: "Keep the uncompressed file (overrides archive.remove_source)"},
	),
	Description: `Compresses each chat log to <archive.dir>/<id>.jsonl.zst and, unless
--keep is given or archive.remove_source is false, removes the original.
Builds read compressed logs the same as plain ones.`,
	Examples: []string{
		"chatsite archive docs/outputs/*.jsonl",
	},
	SeeAlso: []string{"chatsite(1)", "chatsite-build(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate configuration and inputs",
	Brief:    "Validate configuration and inputs",
	Usage:    "chatsite check [--root <dir>] [--config <file>]",
	Flags:    GlobalFlags,
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - Display timezone
  - Outputs directory and chat log count
  - Sessions directory and summary count
  - Website directory and homepage
  - Repository URL used for source links
  - Build cache database

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"chatsite(1)", "chatsite-init-config(1)"},
}

var CmdInitConfig = Command{
	Name:     "init-config",
	Synopsis: "write a default chatsite.toml",
	Brief:    "Write a default chatsite.toml",
	Usage:    "chatsite init-config [dir]",
	Args: []Arg{
		{Name: "dir", Desc: "Target directory (default: current directory)", Optional: true},
	},
	Description: `Writes chatsite.toml with every setting at its default value. An
existing file is left untouched.`,
	SeeAlso: []string{"chatsite(1)", "chatsite-check(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "chatsite version",
	SeeAlso:  []string{"chatsite(1)"},
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdBuild,
	CmdWatch,
	CmdArchive,
	CmdCheck,
	CmdInitConfig,
	CmdVersion,
}

// Lookup returns the subcommand with the given name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
