package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/suykerbuyk/chatsite/internal/archive"
)

// maxLineSize bounds a single record. File-write tool calls embed whole
// files, so this is generous. Longer lines are skipped with a warning.
var maxLineSize = 64 * 1024 * 1024

var errLineTooLong = errors.New("record exceeds maximum line size")

// rawEntry mirrors a record with loosely typed fields so that an
// unexpected type on one field does not reject the whole line.
type rawEntry struct {
	Type          any             `json:"type"`
	UUID          any             `json:"uuid"`
	Timestamp     any             `json:"timestamp"`
	Error         any             `json:"error"`
	Summary       any             `json:"summary"`
	Message       json.RawMessage `json:"message"`
	ToolUseResult any             `json:"toolUseResult"`
}

type rawMessage struct {
	Role    any     `json:"role"`
	Content Content `json:"content"`
}

// ParseFile reads and parses a chat log. Files ending in .zst are
// decompressed on the fly. Skipped lines are logged with the file path.
func ParseFile(path string) (*Transcript, error) {
	f, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, err
	}
	for _, w := range t.Warnings {
		log.Printf("warning: %s:%d: skipped line: %v", path, w.Line, w.Err)
	}
	return t, nil
}

// Parse reads a JSONL chat log. Undecodable and over-long lines are
// recorded as warnings and skipped; only read errors are returned.
func Parse(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	br := bufio.NewReaderSize(r, 1024*1024)

	lineNum := 0
	for {
		raw, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		if err == nil || len(raw) > 0 || tooLong {
			lineNum++
			t.add(lineNum, raw, tooLong)
		}
		if err == io.EOF {
			return t, nil
		}
	}
}

func (t *Transcript) add(lineNum int, raw []byte, tooLong bool) {
	if tooLong {
		t.Warnings = append(t.Warnings, Warning{Line: lineNum, Err: errLineTooLong})
		return
	}
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return
	}

	entry, err := DecodeEntry(line)
	if err != nil {
		t.Warnings = append(t.Warnings, Warning{Line: lineNum, Err: err})
		return
	}
	if msg, ok := MessageFromEntry(entry); ok {
		t.Messages = append(t.Messages, msg)
	}
}

// readLine returns the next line without its newline. A line longer than
// maxLineSize is consumed and reported as tooLong with no content.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, rerr := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimSuffix(line, []byte("\n")), tooLong, rerr
	}
}

// DecodeEntry decodes one JSON record.
func DecodeEntry(line []byte) (Entry, error) {
	var raw rawEntry
	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, err
	}

	e := Entry{
		Type:      asString(raw.Type),
		UUID:      asString(raw.UUID),
		Timestamp: asString(raw.Timestamp),
		Summary:   asString(raw.Summary),
		Error:     errorText(raw.Error),
	}
	if m, ok := raw.ToolUseResult.(map[string]any); ok {
		e.ToolUseResult = m
	}

	if len(raw.Message) > 0 && !bytes.Equal(raw.Message, []byte("null")) {
		var rm rawMessage
		if err := json.Unmarshal(raw.Message, &rm); err == nil {
			e.Message = &EntryMessage{Role: asString(rm.Role), Content: rm.Content}
		}
	}
	return e, nil
}

// MessageFromEntry converts a record into a Message. It returns false for
// records that carry nothing renderable.
func MessageFromEntry(e Entry) (Message, bool) {
	switch e.Type {
	case "queue-operation":
		return Message{}, false
	case "summary":
		return Message{Role: "summary", Content: e.Summary}, true
	}

	if e.Message == nil {
		return Message{}, false
	}

	role := e.Message.Role
	if role == "" {
		role = e.Type
	}
	if role == "" {
		role = "unknown"
	}

	text, calls := Extract(e.Message.Content)

	results := ToolResults(e.Message.Content)
	if override, ok := shellOutput(e.ToolUseResult); ok {
		for id := range results {
			results[id] = override
		}
	}

	if text == "" && len(calls) == 0 && len(results) == 0 {
		return Message{}, false
	}

	return Message{
		Role:        role,
		Content:     text,
		ToolCalls:   calls,
		ToolResults: results,
		Timestamp:   e.Timestamp,
		Error:       e.Error,
		UUID:        e.UUID,
	}, true
}

// shellOutput returns the stdout (or, when stdout is empty, stderr) of a
// toolUseResult object. Only key presence is checked, not the tool name.
func shellOutput(r map[string]any) (any, bool) {
	if r == nil {
		return nil, false
	}
	stdout, hasOut := r["stdout"]
	stderr, hasErr := r["stderr"]
	if !hasOut && !hasErr {
		return nil, false
	}
	if truthy(stdout) {
		return stdout, true
	}
	if stderr == nil {
		return "", true
	}
	return stderr, true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func errorText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
