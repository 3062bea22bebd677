package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suykerbuyk/chatsite/internal/buildcache"
	"github.com/suykerbuyk/chatsite/internal/config"
)

func TestCheckConfig(t *testing.T) {
	r := CheckConfig("")
	if r.Status != Pass || r.Detail != "defaults (no config file)" {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}

	r = CheckConfig("/etc/chatsite.toml")
	if r.Status != Pass || r.Detail != "/etc/chatsite.toml" {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckTimezone(t *testing.T) {
	if r := CheckTimezone("Pacific/Auckland"); r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if r := CheckTimezone("Mars/Olympus"); r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckOutputs_Pass(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.jsonl"), []byte("{}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.jsonl.zst"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "c.jsonl"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "agent-d.jsonl"), []byte("{}\n"), 0o644)

	r := CheckOutputs(dir, []string{"agent-"})
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if !strings.HasSuffix(r.Detail, "(3 chatlogs, 1 compressed, 1 empty)") {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckOutputs_Warn(t *testing.T) {
	r := CheckOutputs("/nonexistent/outputs", nil)
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckSessions(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "one.md"), []byte("# One"), 0o644)
	os.WriteFile(filepath.Join(dir, "two.md"), []byte("# Two"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	r := CheckSessions(dir)
	if r.Status != Pass || !strings.HasSuffix(r.Detail, "(2 summaries)") {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}

	if r := CheckSessions("/nonexistent/sessions"); r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckWebsite(t *testing.T) {
	dir := t.TempDir()
	if r := CheckWebsite(dir); r.Status != Warn {
		t.Errorf("no homepage: expected Warn, got %s", r.Status)
	}

	os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644)
	if r := CheckWebsite(dir); r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}

	if r := CheckWebsite(filepath.Join(dir, "missing")); r.Status != Warn {
		t.Errorf("missing dir: expected Warn, got %s", r.Status)
	}
}

func TestCheckGit_RepoURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RepoURL = "https://github.com/me/os"

	r := CheckGit(context.Background(), cfg)
	if r.Status != Pass || !strings.Contains(r.Detail, "https://github.com/me/os") {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckGit_NoRemote(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ProjectRoot = t.TempDir()

	// without git, or outside a repository, links fall back to the placeholder
	if r := CheckGit(context.Background(), cfg); r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.db")

	if r := CheckCache(config.CacheConfig{Enabled: false}, path); r.Status != Pass || r.Detail != "disabled" {
		t.Errorf("disabled: got %s: %s", r.Status, r.Detail)
	}

	enabled := config.CacheConfig{Enabled: true, Path: path}
	if r := CheckCache(enabled, path); r.Status != Warn {
		t.Errorf("missing: expected Warn, got %s: %s", r.Status, r.Detail)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("CheckCache created the database")
	}

	c, err := buildcache.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Put(buildcache.Entry{SessionID: "s1", Fingerprint: "f", Name: "n"})
	c.Put(buildcache.Entry{SessionID: "s2", Fingerprint: "f", Name: "n"})
	c.Close()

	r := CheckCache(enabled, path)
	if r.Status != Pass || !strings.HasSuffix(r.Detail, "(2 sessions)") {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}
}

func TestReport_HasFailures(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Fail},
	}}
	if !r.HasFailures() {
		t.Error("expected HasFailures() == true")
	}

	r = Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Warn},
	}}
	if r.HasFailures() {
		t.Error("expected HasFailures() == false")
	}
}

func TestReport_Format(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "config", Status: Pass, Detail: "defaults"},
		{Name: "website", Status: Warn, Detail: "missing"},
		{Name: "cache", Status: Fail, Detail: "corrupt"},
	}}
	out := r.Format()
	for _, want := range []string{
		"chatsite check\n",
		"  pass  config   defaults\n",
		"  warn  website  missing\n",
		"  FAIL  cache    corrupt\n",
		"1 passed, 1 warning, 1 failure",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := (Report{}).Format(); !strings.Contains(got, "no checks ran") {
		t.Errorf("empty report = %q", got)
	}
}

func TestRun_Integration(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"docs/outputs", "docs/sessions", "website"} {
		os.MkdirAll(filepath.Join(root, dir), 0o755)
	}
	os.WriteFile(filepath.Join(root, "docs/outputs/s.jsonl"), []byte("{}\n"), 0o644)
	os.WriteFile(filepath.Join(root, "docs/sessions/s.md"), []byte("# S"), 0o644)
	os.WriteFile(filepath.Join(root, "website/index.html"), []byte("<html></html>"), 0o644)

	cfg := config.DefaultConfig()
	cfg.ProjectRoot = root
	cfg.RepoURL = "https://github.com/me/os"

	report := Run(context.Background(), cfg)
	if report.HasFailures() {
		t.Errorf("unexpected failures:\n%s", report.Format())
	}

	names := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		names = append(names, res.Name)
	}
	want := "config timezone outputs sessions website git cache"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("checks = %q, want %q", got, want)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Pass, "pass"},
		{Warn, "warn"},
		{Fail, "FAIL"},
		{Status(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
