package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultFile = `# chatsite configuration
project_root = "."
site_title = "ClankerOS"
timezone = "Pacific/Auckland"
placeholder_url = "https://github.com/yourusername/clankeros"
# repo_url = "https://github.com/you/project"  # skips the git lookup
skip_prefixes = ["agent-"]

[paths]
outputs = "docs/outputs"
sessions = "docs/sessions"
website = "website"

[git]
timeout_seconds = 5

[cache]
enabled = true
path = ".chatsite/build.db"

[archive]
dir = "docs/outputs"
remove_source = true

[watch]
debounce_ms = 500
`

// WriteDefault writes a default chatsite.toml into dir.
// Returns the config file path. Skips if the file already exists.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultFile), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome shortens a path under the home directory to ~/...
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~/" + filepath.ToSlash(rest)
	}
	return path
}
