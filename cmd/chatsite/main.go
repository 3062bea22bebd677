package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/suykerbuyk/chatsite/internal/archive"
	"github.com/suykerbuyk/chatsite/internal/check"
	"github.com/suykerbuyk/chatsite/internal/config"
	"github.com/suykerbuyk/chatsite/internal/help"
	"github.com/suykerbuyk/chatsite/internal/site"
	"github.com/suykerbuyk/chatsite/internal/watch"
)

// valueFlags take the following argument as their value.
var valueFlags = map[string]bool{"--root": true, "--config": true}

func main() {
	log.SetFlags(0)

	args := os.Args[1:]
	cmd := "build"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	} else if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
		cmd, args = "help", args[1:]
	}

	if cmd != "help" && (hasFlag(args, "--help") || hasFlag(args, "-h")) {
		if c, ok := help.Lookup(cmd); ok {
			fmt.Print(help.FormatTerminal(c))
			return
		}
	}

	switch cmd {
	case "build":
		runBuild(args)

	case "watch":
		runWatch(args)

	case "archive":
		runArchive(args)

	case "check":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		report := check.Run(ctx, mustLoadConfig(args))
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}

	case "init-config":
		dir := "."
		if pos := positional(args); len(pos) > 0 {
			dir = pos[0]
		}
		runInitConfig(dir)

	case "version":
		fmt.Printf("chatsite v%s\n", help.Version)

	case "help":
		if len(args) > 0 {
			if c, ok := help.Lookup(args[0]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		}
		fmt.Print(help.FormatUsage(help.TopLevel, help.Subcommands))

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
		os.Exit(1)
	}
}

func runBuild(args []string) {
	cfg := mustLoadConfig(args)
	if hasFlag(args, "--no-cache") {
		cfg.Cache.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := site.New(cfg)
	defer g.Close()

	if _, err := g.Build(ctx); err != nil {
		g.Close()
		fatal("%v", err)
	}
}

func runWatch(args []string) {
	cfg := mustLoadConfig(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := site.New(cfg)
	defer g.Close()

	if _, err := g.Build(ctx); err != nil {
		g.Close()
		fatal("%v", err)
	}

	dirs := []string{cfg.OutputsDir(), cfg.SessionsDir()}
	debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
	fmt.Printf("\nWatching %s and %s (Ctrl-C to stop)\n", config.CompressHome(dirs[0]), config.CompressHome(dirs[1]))

	err := watch.Run(ctx, dirs, debounce, func(ctx context.Context) {
		fmt.Printf("\n[%s] change detected, rebuilding\n", time.Now().Format("15:04:05"))
		if _, err := g.Build(ctx); err != nil && ctx.Err() == nil {
			log.Printf("warning: rebuild: %v", err)
		}
	})
	if err != nil {
		g.Close()
		fatal("watch: %v", err)
	}
}

func runArchive(args []string) {
	files := positional(args)
	if len(files) == 0 {
		fatal("usage: chatsite archive <file.jsonl>...")
	}
	cfg := mustLoadConfig(args)
	remove := cfg.Archive.RemoveSource && !hasFlag(args, "--keep")
	dir := cfg.ArchiveDir()

	var before, after uint64
	var failed int
	for _, src := range files {
		if strings.HasSuffix(src, archive.Extension) {
			log.Printf("warning: %s is already compressed", src)
			failed++
			continue
		}
		info, err := os.Stat(src)
		if err != nil {
			log.Printf("warning: %v", err)
			failed++
			continue
		}
		replaced := archive.IsArchived(archive.SessionID(src), dir)
		dest, err := archive.Archive(src, dir)
		if err != nil {
			log.Printf("warning: archive %s: %v", src, err)
			failed++
			continue
		}
		destInfo, err := os.Stat(dest)
		if err != nil {
			log.Printf("warning: %v", err)
			failed++
			continue
		}
		before += uint64(info.Size())
		after += uint64(destInfo.Size())
		note := ""
		if replaced {
			note = ", replaced"
		}
		fmt.Printf("  %s → %s (%s → %s%s)\n", src, config.CompressHome(dest),
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(destInfo.Size())), note)

		if remove {
			if err := os.Remove(src); err != nil {
				log.Printf("warning: remove %s: %v", src, err)
			}
		}
	}

	fmt.Printf("\narchived %d of %d chatlogs: %s → %s\n",
		len(files)-failed, len(files), humanize.Bytes(before), humanize.Bytes(after))
	if failed > 0 {
		os.Exit(1)
	}
}

func runInitConfig(dir string) {
	existed := false
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		existed = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		fatal("%v", err)
	}

	path, err := config.WriteDefault(dir)
	if err != nil {
		fatal("%v", err)
	}
	if existed {
		fmt.Printf("exists: %s (left unchanged)\n", config.CompressHome(path))
		return
	}
	fmt.Printf("created: %s\n", config.CompressHome(path))
}

func mustLoadConfig(args []string) config.Config {
	cfg, err := config.Load(flagValue(args, "--config"), flagValue(args, "--root"))
	if err != nil {
		fatal("load config: %v", err)
	}
	return cfg
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// positional returns args that are neither flags nor flag values.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if valueFlags[a] {
			i++
			continue
		}
		if strings.HasPrefix(a, "-") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "chatsite: "+format+"\n", args...)
	os.Exit(1)
}
