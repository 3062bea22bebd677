// Command gen-man writes the chatsite man pages.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suykerbuyk/chatsite/internal/help"
)

func main() {
	dir := "man"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal(err)
	}

	// SOURCE_DATE_EPOCH keeps packaged pages reproducible
	date := time.Now().UTC().Format("2006-01-02")
	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" {
		var secs int64
		if _, err := fmt.Sscan(epoch, &secs); err == nil {
			date = time.Unix(secs, 0).UTC().Format("2006-01-02")
		}
	}

	if err := write(dir, "chatsite.1", help.FormatRoffTopLevel(help.TopLevel, help.Subcommands, date)); err != nil {
		fatal(err)
	}
	for _, cmd := range help.Subcommands {
		if err := write(dir, cmd.ManName()+".1", help.FormatRoff(cmd, date)); err != nil {
			fatal(err)
		}
	}
}

func write(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  %s\n", path)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gen-man: %v\n", err)
	os.Exit(1)
}
