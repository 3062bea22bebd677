// Package discover lists the chat logs and session summaries a site is
// built from.
package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/chatsite/internal/archive"
)

// Chatlog represents a discovered chat log on disk.
type Chatlog struct {
	Path       string
	Name       string // file name, e.g. abc.jsonl
	SessionID  string
	Compressed bool // .jsonl.zst
	Empty      bool // zero bytes; skipped by the generator
}

// Chatlogs lists *.jsonl and *.jsonl.zst files directly under dir, sorted
// by session ID. Sessions whose ID starts with one of skipPrefixes are left
// out. When a session exists both plain and compressed, the plain file
// wins. A missing directory yields no results.
func Chatlogs(dir string, skipPrefixes []string) ([]Chatlog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	byID := make(map[string]Chatlog)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		sessionID := archive.SessionID(name)
		if sessionID == "" || hasAnyPrefix(sessionID, skipPrefixes) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}

		c := Chatlog{
			Path:       filepath.Join(dir, name),
			Name:       name,
			SessionID:  sessionID,
			Compressed: strings.HasSuffix(name, ".zst"),
			Empty:      info.Size() == 0,
		}
		if prev, ok := byID[sessionID]; ok && !prev.Compressed {
			continue
		}
		byID[sessionID] = c
	}

	results := make([]Chatlog, 0, len(byID))
	for _, c := range byID {
		results = append(results, c)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SessionID < results[j].SessionID
	})
	return results, nil
}

// Summaries lists *.md files directly under dir, sorted by name.
// A missing directory yields no results.
func Summaries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
