package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/suykerbuyk/chatsite/internal/buildcache"
	"github.com/suykerbuyk/chatsite/internal/config"
	"github.com/suykerbuyk/chatsite/internal/discover"
	"github.com/suykerbuyk/chatsite/internal/repourl"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "chatsite check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("chatsite check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports which config file was loaded. Always passes; a
// broken file fails config.Load before we get here.
func CheckConfig(source string) Result {
	if source == "" {
		return Result{Name: "config", Status: Pass, Detail: "defaults (no config file)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(source)}
}

// CheckTimezone checks that the display timezone can be loaded.
func CheckTimezone(zone string) Result {
	if _, err := time.LoadLocation(zone); err != nil {
		return Result{Name: "timezone", Status: Warn, Detail: zone + " unknown, timestamps shown in UTC"}
	}
	return Result{Name: "timezone", Status: Pass, Detail: zone}
}

// CheckOutputs reports the chat log directory and how many logs it holds.
func CheckOutputs(dir string, skipPrefixes []string) Result {
	if !isDir(dir) {
		return Result{Name: "outputs", Status: Warn, Detail: config.CompressHome(dir) + " not found (no chatlogs)"}
	}
	logs, err := discover.Chatlogs(dir, skipPrefixes)
	if err != nil {
		return Result{Name: "outputs", Status: Fail, Detail: err.Error()}
	}

	var compressed, empty int
	for _, cl := range logs {
		if cl.Compressed {
			compressed++
		}
		if cl.Empty {
			empty++
		}
	}
	detail := fmt.Sprintf("%s (%d chatlogs", config.CompressHome(dir), len(logs))
	if compressed > 0 {
		detail += fmt.Sprintf(", %d compressed", compressed)
	}
	if empty > 0 {
		detail += fmt.Sprintf(", %d empty", empty)
	}
	return Result{Name: "outputs", Status: Pass, Detail: detail + ")"}
}

// CheckSessions reports the summary directory and its document count.
func CheckSessions(dir string) Result {
	if !isDir(dir) {
		return Result{Name: "sessions", Status: Warn, Detail: config.CompressHome(dir) + " not found (no summaries)"}
	}
	docs, err := discover.Summaries(dir)
	if err != nil {
		return Result{Name: "sessions", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "sessions", Status: Pass, Detail: fmt.Sprintf("%s (%d summaries)", config.CompressHome(dir), len(docs))}
}

// CheckWebsite checks the output directory and its homepage.
func CheckWebsite(dir string) Result {
	if !isDir(dir) {
		return Result{Name: "website", Status: Warn, Detail: config.CompressHome(dir) + " not found (created on build)"}
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		return Result{Name: "website", Status: Warn, Detail: "index.html not found (homepage not patched)"}
	}
	return Result{Name: "website", Status: Pass, Detail: config.CompressHome(dir)}
}

// CheckGit reports where "view source" links will point.
func CheckGit(ctx context.Context, cfg config.Config) Result {
	if cfg.RepoURL != "" {
		return Result{Name: "git", Status: Pass, Detail: cfg.RepoURL + " (repo_url)"}
	}
	if _, err := exec.LookPath("git"); err != nil {
		return Result{Name: "git", Status: Warn, Detail: "git not found, links use placeholder"}
	}

	fallback := cfg.PlaceholderURL
	if fallback == "" {
		fallback = repourl.Placeholder
	}
	url := repourl.Git{
		Dir:      cfg.ProjectRoot,
		Timeout:  time.Duration(cfg.Git.TimeoutSeconds) * time.Second,
		Fallback: fallback,
	}.Resolve(ctx)
	if url == fallback {
		return Result{Name: "git", Status: Warn, Detail: "no origin remote, links use placeholder"}
	}
	return Result{Name: "git", Status: Pass, Detail: url}
}

// CheckCache inspects the build cache without creating it.
func CheckCache(cfg config.CacheConfig, path string) Result {
	if !cfg.Enabled {
		return Result{Name: "cache", Status: Pass, Detail: "disabled"}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Result{Name: "cache", Status: Warn, Detail: config.CompressHome(path) + " not built yet"}
	}

	c, err := buildcache.Open(path)
	if err != nil {
		return Result{Name: "cache", Status: Fail, Detail: err.Error()}
	}
	defer c.Close()

	n, err := c.Len()
	if err != nil {
		return Result{Name: "cache", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "cache", Status: Pass, Detail: fmt.Sprintf("%s (%d sessions)", config.CompressHome(path), n)}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Run executes all checks against the given config and returns a report.
func Run(ctx context.Context, cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig(cfg.Source))
	results = append(results, CheckTimezone(cfg.Timezone))
	results = append(results, CheckOutputs(cfg.OutputsDir(), cfg.SkipPrefixes))
	results = append(results, CheckSessions(cfg.SessionsDir()))
	results = append(results, CheckWebsite(cfg.WebsiteDir()))
	results = append(results, CheckGit(ctx, cfg))
	results = append(results, CheckCache(cfg.Cache, cfg.CachePath()))

	return Report{Results: results}
}
