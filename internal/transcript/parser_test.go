package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suykerbuyk/chatsite/internal/archive"
)

const testLog = `{"type":"queue-operation","operation":"enqueue","timestamp":"2026-02-22T09:59:59Z"}
{"type":"summary","summary":"Implemented login page","leafUuid":"x"}
{"type":"user","uuid":"bbb","timestamp":"2026-02-22T10:00:01Z","message":{"role":"user","content":"Implement the login page\nwith OAuth"}}
{"type":"assistant","uuid":"ccc","timestamp":"2026-02-22T10:00:05Z","message":{"role":"assistant","content":[{"type":"thinking","thinking":"hmm"},{"type":"text","text":"I'll implement the login page."},{"type":"tool_use","id":"toolu_1","name":"Bash","input":{"command":"ls src","description":"List sources"}}]}}
{"type":"user","uuid":"ddd","timestamp":"2026-02-22T10:00:10Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"(truncated)"}]},"toolUseResult":{"stdout":"login.tsx\napp.tsx","stderr":"","interrupted":false}}
{"type":"user","uuid":"eee","timestamp":"2026-02-22T10:00:11Z","message":{"role":"user","content":[{"type":"text","text":"<ide_opened_file>The user opened src/app.tsx</ide_opened_file>"}]}}

{"type":"assistant","uuid":"fff","timestamp":"2026-02-22T10:00:15Z","message":{"role":"assistant","content":[{"type":"text","text":"Done."}]},"error":"rate limited"}`

func TestParse(t *testing.T) {
	tr, err := Parse(strings.NewReader(testLog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(tr.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", tr.Warnings)
	}

	// queue-operation and the notification-only record are dropped
	if len(tr.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(tr.Messages))
	}

	sum := tr.Messages[0]
	if sum.Role != "summary" || sum.Content != "Implemented login page" || sum.Timestamp != "" {
		t.Errorf("summary = %+v", sum)
	}

	user := tr.Messages[1]
	if user.Role != "user" || user.Content != "Implement the login page\nwith OAuth" {
		t.Errorf("user = %+v", user)
	}
	if user.UUID != "bbb" || user.Timestamp != "2026-02-22T10:00:01Z" {
		t.Errorf("user metadata = %q %q", user.UUID, user.Timestamp)
	}

	asst := tr.Messages[2]
	if asst.Content != "I'll implement the login page." {
		t.Errorf("assistant text = %q", asst.Content)
	}
	if len(asst.ToolCalls) != 1 || asst.ToolCalls[0].Name != "Bash" || asst.ToolCalls[0].ID != "toolu_1" {
		t.Fatalf("tool calls = %+v", asst.ToolCalls)
	}
	if got := asst.ToolCalls[0].InputMap()["command"]; got != "ls src" {
		t.Errorf("command = %v", got)
	}

	res := tr.Messages[3]
	if !res.ResultOnly() {
		t.Errorf("expected result-only message, got %+v", res)
	}
	if got := res.ToolResults["toolu_1"]; got != "login.tsx\napp.tsx" {
		t.Errorf("tool result = %q, want stdout from toolUseResult", got)
	}

	last := tr.Messages[4]
	if last.Error != "rate limited" {
		t.Errorf("error = %q", last.Error)
	}
}

func TestParse_MalformedLine(t *testing.T) {
	input := `{"type":"summary","summary":"Fixed bug"}
NOT_JSON
{"message":{"role":"user","content":"hello"}}`

	tr, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tr.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(tr.Messages))
	}
	if tr.Messages[0].Role != "summary" || tr.Messages[0].Content != "Fixed bug" {
		t.Errorf("first = %+v", tr.Messages[0])
	}
	if tr.Messages[1].Role != "user" || tr.Messages[1].Content != "hello" {
		t.Errorf("second = %+v", tr.Messages[1])
	}
	if len(tr.Warnings) != 1 || tr.Warnings[0].Line != 2 {
		t.Errorf("warnings = %+v, want one on line 2", tr.Warnings)
	}
}

func TestParse_OverLongLine(t *testing.T) {
	defer func(n int) { maxLineSize = n }(maxLineSize)
	maxLineSize = 200

	long := `{"type":"user","message":{"role":"user","content":"` + strings.Repeat("x", 500) + `"}}`
	input := `{"type":"user","message":{"role":"user","content":"before"}}
` + long + `
{"type":"user","message":{"role":"user","content":"after"}}
`
	tr, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tr.Messages) != 2 || tr.Messages[0].Content != "before" || tr.Messages[1].Content != "after" {
		t.Fatalf("messages = %+v", tr.Messages)
	}
	if len(tr.Warnings) != 1 || tr.Warnings[0].Line != 2 || !errors.Is(tr.Warnings[0].Err, errLineTooLong) {
		t.Errorf("warnings = %+v, want line too long on line 2", tr.Warnings)
	}
}

func TestParse_RoleFallback(t *testing.T) {
	input := `{"type":"assistant","message":{"content":"from type"}}
{"message":{"content":"no role at all"}}
{"type":"user","message":{"role":42,"content":"numeric role"}}`

	tr, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"assistant", "unknown", "user"}
	if len(tr.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(tr.Messages))
	}
	for i, w := range want {
		if tr.Messages[i].Role != w {
			t.Errorf("message %d role = %q, want %q", i, tr.Messages[i].Role, w)
		}
	}
}

func TestParse_DefensiveShapes(t *testing.T) {
	input := `{"type":"user","message":"not an object"}
{"type":"user","message":null}
{"type":"user"}
{"type":"user","message":{"role":"user","content":{"unexpected":"map"}}}
{"type":"user","message":{"role":"user","content":42},"timestamp":12345}
[1,2,3]`

	tr, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tr.Messages) != 0 {
		t.Errorf("expected no messages, got %+v", tr.Messages)
	}
	// Only the top-level array is not a record.
	if len(tr.Warnings) != 1 || tr.Warnings[0].Line != 6 {
		t.Errorf("warnings = %+v", tr.Warnings)
	}
}

func TestParse_ToolUseResultStderr(t *testing.T) {
	input := `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"inline"}]},"toolUseResult":{"stdout":"","stderr":"boom"}}
{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t2","content":"inline"}]},"toolUseResult":{"filePath":"/tmp/x"}}
{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t3","content":"inline"}]},"toolUseResult":"Error: denied"}`

	tr, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := BuildResultMap(tr.Messages)

	tests := []struct {
		id   string
		want string
	}{
		{"t1", "boom"},
		{"t2", "inline"},
		{"t3", "inline"},
	}
	for _, tt := range tests {
		if got := results[tt.id]; got != tt.want {
			t.Errorf("result[%s] = %v, want %q", tt.id, got, tt.want)
		}
	}
}

func TestParse_QualifyingCount(t *testing.T) {
	input := `{"type":"summary","summary":""}
{"type":"user","message":{"role":"user","content":""}}
{"type":"user","message":{"role":"user","content":[]}}
{"type":"user","message":{"role":"user","content":[{"type":"text","text":"<system-reminder>ctx</system-reminder>"}]}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"a","name":"Read","input":{"file_path":"x"}}]}}
{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"a","content":"data"}]}}`

	tr, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// summary always qualifies; tool call and tool result qualify; the rest do not
	if len(tr.Messages) != 3 {
		t.Errorf("expected 3 messages, got %d: %+v", len(tr.Messages), tr.Messages)
	}
}

func TestBuildResultMap_LastWins(t *testing.T) {
	msgs := []Message{
		{ToolResults: map[string]any{"x": "first"}},
		{ToolResults: map[string]any{"x": "second", "y": "other"}},
	}
	r := BuildResultMap(msgs)
	if v, _ := r.Lookup("x"); v != "second" {
		t.Errorf("x = %v, want second", v)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("unexpected result for missing id")
	}
}

func TestParseFile_Compressed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "abc.jsonl")
	if err := os.WriteFile(src, []byte(testLog), 0o644); err != nil {
		t.Fatal(err)
	}

	plain, err := ParseFile(src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	zpath, err := archive.Archive(src, filepath.Join(dir, "archive"))
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	packed, err := ParseFile(zpath)
	if err != nil {
		t.Fatalf("ParseFile(zst): %v", err)
	}

	if len(packed.Messages) != len(plain.Messages) {
		t.Fatalf("compressed parse = %d messages, plain = %d", len(packed.Messages), len(plain.Messages))
	}
	for i := range plain.Messages {
		if packed.Messages[i].Content != plain.Messages[i].Content {
			t.Errorf("message %d differs: %q vs %q", i, packed.Messages[i].Content, plain.Messages[i].Content)
		}
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}
