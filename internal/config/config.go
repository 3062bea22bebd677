package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/chatsite/internal/repourl"
	"github.com/suykerbuyk/chatsite/internal/timestamp"
)

// FileName is the project-local config file name.
const FileName = "chatsite.toml"

// Config holds all chatsite configuration.
type Config struct {
	ProjectRoot    string   `toml:"project_root"`
	SiteTitle      string   `toml:"site_title"`
	Timezone       string   `toml:"timezone"`
	PlaceholderURL string   `toml:"placeholder_url"`
	RepoURL        string   `toml:"repo_url"` // skips the git lookup when set
	SkipPrefixes   []string `toml:"skip_prefixes"`

	Paths   PathsConfig   `toml:"paths"`
	Git     GitConfig     `toml:"git"`
	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
	Watch   WatchConfig   `toml:"watch"`

	// Source is the config file that was loaded, empty for defaults.
	Source string `toml:"-"`
}

type PathsConfig struct {
	Outputs  string `toml:"outputs"`  // JSONL chat logs
	Sessions string `toml:"sessions"` // markdown summaries
	Website  string `toml:"website"`
}

type GitConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type ArchiveConfig struct {
	Dir          string `toml:"dir"`
	RemoveSource bool   `toml:"remove_source"`
}

type WatchConfig struct {
	DebounceMillis int `toml:"debounce_ms"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ProjectRoot:    ".",
		SiteTitle:      "ClankerOS",
		Timezone:       timestamp.DefaultZone,
		PlaceholderURL: repourl.Placeholder,
		SkipPrefixes:   []string{"agent-"},
		Paths: PathsConfig{
			Outputs:  "docs/outputs",
			Sessions: "docs/sessions",
			Website:  "website",
		},
		Git: GitConfig{
			TimeoutSeconds: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".chatsite/build.db",
		},
		Archive: ArchiveConfig{
			Dir:          "docs/outputs",
			RemoveSource: true,
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
	}
}

// Load reads config from the first file found, falling back to defaults.
// An explicit path takes precedence over the standard locations. root,
// when non-empty, overrides project_root.
func Load(explicit, root string) (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	if explicit != "" {
		paths = []string{explicit}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if explicit != "" {
				return cfg, fmt.Errorf("config %s: %w", p, err)
			}
			continue
		}
		if _, err := toml.DecodeFile(p, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", p, err)
		}
		cfg.Source = p
		break
	}

	if root != "" {
		cfg.ProjectRoot = root
	}
	abs, err := filepath.Abs(expandHome(cfg.ProjectRoot))
	if err != nil {
		return cfg, fmt.Errorf("resolve project root: %w", err)
	}
	cfg.ProjectRoot = abs

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	paths = append(paths, FileName)

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "chatsite", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "chatsite", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Resolve makes p absolute: ~ expands to home, relative paths are taken
// from the project root.
func (c Config) Resolve(p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.ProjectRoot, p)
}

// OutputsDir is the directory holding JSONL chat logs.
func (c Config) OutputsDir() string { return c.Resolve(c.Paths.Outputs) }

// SessionsDir is the directory holding markdown session summaries.
func (c Config) SessionsDir() string { return c.Resolve(c.Paths.Sessions) }

// WebsiteDir is the site output directory.
func (c Config) WebsiteDir() string { return c.Resolve(c.Paths.Website) }

// CachePath is the build cache database.
func (c Config) CachePath() string { return c.Resolve(c.Cache.Path) }

// ArchiveDir is where `chatsite archive` writes compressed logs.
func (c Config) ArchiveDir() string { return c.Resolve(c.Archive.Dir) }

// RepoPath returns dir relative to the project root with forward slashes,
// for building repository links. Directories outside the root are
// returned as their base name.
func (c Config) RepoPath(dir string) string {
	rel, err := filepath.Rel(c.ProjectRoot, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(dir)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
