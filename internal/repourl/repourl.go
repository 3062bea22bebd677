// Package repourl resolves the web URL of the project's repository, used for
// "view source" links and the homepage.
package repourl

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Placeholder is used when the repository URL cannot be determined.
const Placeholder = "https://github.com/yourusername/clankeros"

// Resolver returns a repository URL. Implementations never fail; they fall
// back to a placeholder instead.
type Resolver interface {
	Resolve(ctx context.Context) string
}

// Static always resolves to URL.
type Static string

// Resolve implements Resolver.
func (s Static) Resolve(context.Context) string { return string(s) }

// Git reads the origin remote of the repository at Dir.
type Git struct {
	Dir      string
	Timeout  time.Duration
	Fallback string
}

// Resolve runs `git remote get-url origin` and normalizes the result.
// Returns Fallback (or Placeholder) on any failure: git missing, not a
// repository, no origin, non-zero exit, timeout.
func (g Git) Resolve(ctx context.Context) string {
	fallback := g.Fallback
	if fallback == "" {
		fallback = Placeholder
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return fallback
	}

	url := Normalize(string(out))
	if url == "" {
		return fallback
	}
	return url
}

// Normalize rewrites an SSH GitHub remote to HTTPS and drops a trailing .git.
func Normalize(remote string) string {
	url := strings.TrimSpace(remote)
	if strings.HasPrefix(url, "git@github.com:") {
		url = "https://github.com/" + strings.TrimPrefix(url, "git@github.com:")
	}
	return strings.TrimSuffix(url, ".git")
}
