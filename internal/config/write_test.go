package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestWriteDefault_CreatesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, section := range []string{"[paths]", "[git]", "[cache]", "[archive]", "[watch]"} {
		if !strings.Contains(string(data), section) {
			t.Errorf("config missing %s section", section)
		}
	}
}

func TestWriteDefault_MatchesDefaults(t *testing.T) {
	path, err := WriteDefault(t.TempDir())
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		t.Fatalf("decode written config: %v", err)
	}
	def := DefaultConfig()
	if cfg.SiteTitle != def.SiteTitle || cfg.Timezone != def.Timezone ||
		cfg.Paths != def.Paths || cfg.Git != def.Git || cfg.Cache != def.Cache ||
		cfg.Archive != def.Archive || cfg.Watch != def.Watch {
		t.Errorf("written config %+v differs from defaults %+v", cfg, def)
	}
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, FileName)
	os.WriteFile(existing, []byte("site_title = \"Mine\"\n"), 0o644)

	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if path != existing {
		t.Errorf("path = %q", path)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "site_title = \"Mine\"\n" {
		t.Errorf("existing config overwritten: %q", data)
	}
}

func TestCompressHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in, want string
	}{
		{home, "~"},
		{filepath.Join(home, "proj", "chatsite.toml"), "~/proj/chatsite.toml"},
		{"/elsewhere/chatsite.toml", "/elsewhere/chatsite.toml"},
		{home + "x/chatsite.toml", home + "x/chatsite.toml"},
	}
	for _, tt := range tests {
		if got := CompressHome(tt.in); got != tt.want {
			t.Errorf("CompressHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
