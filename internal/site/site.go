// Package site generates the static website: one page per chat log, one per
// session summary, the two index pages and the patched homepage.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/suykerbuyk/chatsite/internal/buildcache"
	"github.com/suykerbuyk/chatsite/internal/config"
	"github.com/suykerbuyk/chatsite/internal/discover"
	"github.com/suykerbuyk/chatsite/internal/render"
	"github.com/suykerbuyk/chatsite/internal/repourl"
	"github.com/suykerbuyk/chatsite/internal/timestamp"
	"github.com/suykerbuyk/chatsite/internal/transcript"
)

const (
	chatlogsDir   = "chatlogs"
	sessionsDir   = "sessions"
	homepageFile  = "index.html"
	chatlogsIndex = "chatlogs.html"
	sessionsIndex = "sessions.html"
)

// Generator builds the site described by Config.
type Generator struct {
	Config   config.Config
	Resolver repourl.Resolver
	Renderer *render.Renderer
	Cache    *buildcache.Cache // nil disables caching
	Out      io.Writer         // progress output; nil discards
}

// Result summarizes one build.
type Result struct {
	RepoURL         string
	Chatlogs        int // pages listed in the chatlog index
	Rendered        int
	Cached          int
	Skipped         int // empty files and logs without messages
	Failed          int
	Summaries       int
	Pruned          int
	HomepagePatched bool
}

// New wires a Generator from config. The build cache is opened when
// enabled; a cache that cannot be opened is logged and disabled.
func New(cfg config.Config) *Generator {
	g := &Generator{
		Config:   cfg,
		Resolver: NewResolver(cfg),
		Renderer: render.New(cfg.SiteTitle, timestamp.New(cfg.Timezone)),
		Out:      os.Stdout,
	}
	if cfg.Cache.Enabled {
		c, err := buildcache.Open(cfg.CachePath())
		if err != nil {
			log.Printf("warning: build cache disabled: %v", err)
		} else {
			g.Cache = c
		}
	}
	return g
}

// NewResolver returns the repository URL resolver for cfg: the configured
// repo_url when set, otherwise a git lookup in the project root.
func NewResolver(cfg config.Config) repourl.Resolver {
	if cfg.RepoURL != "" {
		return repourl.Static(cfg.RepoURL)
	}
	return repourl.Git{
		Dir:      cfg.ProjectRoot,
		Timeout:  time.Duration(cfg.Git.TimeoutSeconds) * time.Second,
		Fallback: cfg.PlaceholderURL,
	}
}

// Close releases the build cache.
func (g *Generator) Close() error {
	return g.Cache.Close()
}

// Build runs one full generation pass. Only setup failures (creating the
// output directories) and context cancellation are returned as errors;
// problems with individual inputs are logged and counted.
func (g *Generator) Build(ctx context.Context) (*Result, error) {
	out := g.Out
	if out == nil {
		out = io.Discard
	}
	cfg := g.Config
	website := cfg.WebsiteDir()

	fmt.Fprintf(out, "Generating %s website...\n", cfg.SiteTitle)

	res := &Result{RepoURL: g.repoURL(ctx)}
	fmt.Fprintf(out, "Repository URL: %s\n", res.RepoURL)

	for _, dir := range []string{chatlogsDir, sessionsDir} {
		if err := os.MkdirAll(filepath.Join(website, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	patched, err := g.patchHomepage(filepath.Join(website, homepageFile), res.RepoURL)
	if err != nil {
		log.Printf("warning: homepage: %v", err)
	}
	res.HomepagePatched = patched

	entries, err := g.buildChatlogs(ctx, out, res)
	if err != nil {
		return res, err
	}
	res.Chatlogs = len(entries)

	if len(entries) > 0 {
		fmt.Fprintln(out, "\nGenerating chatlog index...")
		page := g.Renderer.ChatlogIndex(entries)
		if err := writeFile(filepath.Join(website, chatlogsIndex), page); err != nil {
			log.Printf("warning: %v", err)
		}
	}

	if err := g.buildSummaries(ctx, out, res); err != nil {
		return res, err
	}

	fmt.Fprintf(out, "\n✓ Website generated in %s\n", website)
	fmt.Fprintf(out, "  - %d chatlogs (%d rendered, %d cached)\n", res.Chatlogs, res.Rendered, res.Cached)
	fmt.Fprintf(out, "  - %d session summaries\n", res.Summaries)
	if res.Skipped > 0 || res.Failed > 0 {
		fmt.Fprintf(out, "  - %d skipped, %d failed\n", res.Skipped, res.Failed)
	}
	return res, nil
}

func (g *Generator) repoURL(ctx context.Context) string {
	if g.Resolver == nil {
		if g.Config.PlaceholderURL != "" {
			return g.Config.PlaceholderURL
		}
		return repourl.Placeholder
	}
	return g.Resolver.Resolve(ctx)
}

// patchHomepage substitutes the placeholder repository URL in the
// homepage. A missing homepage is not an error.
func (g *Generator) patchHomepage(path, repoURL string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read homepage: %w", err)
	}

	placeholder := g.Config.PlaceholderURL
	if placeholder == "" {
		placeholder = repourl.Placeholder
	}
	patched := render.PatchHomepage(string(data), placeholder, repoURL)
	if patched == string(data) {
		return false, nil
	}
	if err := writeFile(path, patched); err != nil {
		return false, err
	}
	return true, nil
}

func (g *Generator) buildChatlogs(ctx context.Context, out io.Writer, res *Result) ([]render.IndexEntry, error) {
	cfg := g.Config
	fmt.Fprintln(out, "\nProcessing chatlogs...")

	logs, err := discover.Chatlogs(cfg.OutputsDir(), cfg.SkipPrefixes)
	if err != nil {
		log.Printf("warning: %v", err)
		return nil, nil
	}

	var entries []render.IndexEntry
	seen := make(map[string]bool, len(logs))
	for _, cl := range logs {
		if err := ctx.Err(); err != nil {
			return entries, fmt.Errorf("build interrupted: %w", err)
		}
		seen[cl.SessionID] = true

		if cl.Empty {
			log.Printf("warning: skipping empty chatlog %s", cl.Name)
			res.Skipped++
			continue
		}

		fmt.Fprintf(out, "  Processing %s...\n", cl.SessionID)
		entry, cached, err := g.buildChatlog(cl, res.RepoURL)
		switch {
		case err != nil:
			log.Printf("warning: %s: %v", cl.Name, err)
			res.Failed++
		case entry == nil:
			fmt.Fprintln(out, "    Skipped (no messages)")
			res.Skipped++
		case cached:
			fmt.Fprintf(out, "    Unchanged %s.html (%d messages)\n", entry.ID, entry.MessageCount)
			res.Cached++
			entries = append(entries, *entry)
		default:
			fmt.Fprintf(out, "    Generated %s.html (%d messages)\n", entry.ID, entry.MessageCount)
			res.Rendered++
			entries = append(entries, *entry)
		}
	}

	n, err := g.Cache.Prune(seen)
	if err != nil {
		log.Printf("warning: %v", err)
	}
	res.Pruned = n

	return entries, nil
}

// buildChatlog renders one chat log. A nil entry with no error means the
// log held no messages.
func (g *Generator) buildChatlog(cl discover.Chatlog, repoURL string) (*render.IndexEntry, bool, error) {
	cfg := g.Config
	outPath := filepath.Join(cfg.WebsiteDir(), chatlogsDir, cl.SessionID+".html")

	source := render.SourceURL(repoURL, cfg.RepoPath(cfg.OutputsDir()), cl.Name)

	// the source link is rendered into the page
	fp, err := buildcache.Fingerprint(cl.Path, source, cfg.SiteTitle, cfg.Timezone)
	if err != nil {
		return nil, false, err
	}
	if hit, ok, err := g.Cache.Lookup(cl.SessionID, fp); err != nil {
		log.Printf("warning: %v", err)
	} else if ok && fileExists(outPath) {
		return &render.IndexEntry{ID: cl.SessionID, Name: hit.Name, MessageCount: hit.MessageCount}, true, nil
	}

	t, err := transcript.ParseFile(cl.Path)
	if err != nil {
		return nil, false, err
	}
	if len(t.Messages) == 0 {
		return nil, false, nil
	}

	session := render.NewSession(cl.SessionID, t.Messages)
	if err := writeFile(outPath, g.Renderer.Session(session, source)); err != nil {
		return nil, false, err
	}

	entry := &render.IndexEntry{ID: session.ID, Name: session.Name, MessageCount: len(session.Messages)}
	if err := g.Cache.Put(buildcache.Entry{
		SessionID:    entry.ID,
		Fingerprint:  fp,
		Name:         entry.Name,
		MessageCount: entry.MessageCount,
	}); err != nil {
		log.Printf("warning: %v", err)
	}
	return entry, false, nil
}

func (g *Generator) buildSummaries(ctx context.Context, out io.Writer, res *Result) error {
	cfg := g.Config
	fmt.Fprintln(out, "\nProcessing session summaries...")

	paths, err := discover.Summaries(cfg.SessionsDir())
	if err != nil {
		log.Printf("warning: %v", err)
		return nil
	}

	website := cfg.WebsiteDir()
	repoDir := cfg.RepoPath(cfg.SessionsDir())

	var docs []render.SummaryDoc
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build interrupted: %w", err)
		}

		data, err := os.ReadFile(p)
		if err != nil {
			log.Printf("warning: read summary: %v", err)
			res.Failed++
			continue
		}
		doc := render.SummaryDoc{Filename: filepath.Base(p), Markdown: string(data)}

		fmt.Fprintf(out, "  Converting %s...\n", doc.Filename)
		page := g.Renderer.SummaryPage(doc, render.SourceURL(res.RepoURL, repoDir, doc.Filename))
		if err := writeFile(filepath.Join(website, sessionsDir, doc.HTMLName()), page); err != nil {
			log.Printf("warning: %v", err)
			res.Failed++
			continue
		}
		fmt.Fprintf(out, "    → %s\n", doc.HTMLName())
		docs = append(docs, doc)
	}
	res.Summaries = len(docs)

	if len(docs) > 0 {
		if err := writeFile(filepath.Join(website, sessionsIndex), g.Renderer.SummaryIndex(docs)); err != nil {
			log.Printf("warning: %v", err)
		}
	}
	return nil
}

// writeFile replaces path with content via a temp file in the same
// directory and a rename.
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
