package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("chatsite %s - %s", c.Name, c.Synopsis))
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// args and flags share one description column
	maxNameLen := 0
	for _, a := range c.Args {
		maxNameLen = max(maxNameLen, len(a.Name))
	}
	for _, f := range c.Flags {
		maxNameLen = max(maxNameLen, len(f.Name))
	}
	col := maxNameLen + 3

	if len(c.Args) > 0 {
		var lines []string
		for _, a := range c.Args {
			lines = append(lines, fmt.Sprintf("  %-*s%s", col, a.Name, a.Desc))
		}
		sections = append(sections, "Arguments:\n"+strings.Join(lines, "\n"))
	}
	if len(c.Flags) > 0 {
		var lines []string
		for _, f := range c.Flags {
			lines = append(lines, fmt.Sprintf("  %-*s%s", col, f.Name, f.Desc))
		}
		sections = append(sections, "Flags:\n"+strings.Join(lines, "\n"))
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		lines := make([]string, len(c.Examples))
		for i, e := range c.Examples {
			lines[i] = "  " + e
		}
		sections = append(sections, "Examples:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (chatsite help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "chatsite v%s - %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"chatsite help [command]", "Show help"})

	width := 0
	for _, e := range entries {
		width = max(width, len(e.usage))
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "  %-*s%s\n", width+3, e.usage, e.brief)
	}

	b.WriteString("\nGlobal flags:\n")
	width = 0
	for _, f := range GlobalFlags {
		width = max(width, len(f.Name))
	}
	for _, f := range GlobalFlags {
		fmt.Fprintf(&b, "  %-*s%s\n", width+3, f.Name, f.Desc)
	}

	b.WriteString("\nConfiguration: ./chatsite.toml or ~/.config/chatsite/config.toml\n")
	return b.String()
}
