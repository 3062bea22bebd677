// Package archive stores chat logs zstd-compressed and reads them back.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Extension is appended to archived chat logs.
const Extension = ".jsonl.zst"

// Archive compresses srcPath into archiveDir/{session-id}.jsonl.zst.
// Returns the archive path.
func Archive(srcPath, archiveDir string) (string, error) {
	sessionID := SessionID(srcPath)
	if sessionID == "" {
		return "", fmt.Errorf("cannot extract session ID from %s", srcPath)
	}

	destPath := ArchivePath(sessionID, archiveDir)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(archiveDir, ".archive-*")
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		tmp.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("finalize compression: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", fmt.Errorf("rename archive: %w", err)
	}

	return destPath, nil
}

// Open opens a chat log for reading, decompressing it when the name ends
// in .zst.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	decoder, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &decompressor{Decoder: decoder, file: f}, nil
}

type decompressor struct {
	*zstd.Decoder
	file *os.File
}

func (d *decompressor) Close() error {
	d.Decoder.Close()
	return d.file.Close()
}

// IsArchived returns true if an archive file exists for the given session ID.
func IsArchived(sessionID, archiveDir string) bool {
	_, err := os.Stat(ArchivePath(sessionID, archiveDir))
	return err == nil
}

// ArchivePath returns the deterministic archive path for a session ID.
func ArchivePath(sessionID, archiveDir string) string {
	return filepath.Join(archiveDir, sessionID+Extension)
}

// SessionID derives a session ID from a chat log file name, plain or
// archived. It returns "" for anything else.
func SessionID(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, Extension) {
		return strings.TrimSuffix(base, Extension)
	}
	if strings.HasSuffix(base, ".jsonl") {
		return strings.TrimSuffix(base, ".jsonl")
	}
	return ""
}
