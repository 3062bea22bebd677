// Package toolrender turns tool calls recorded in a chat log into HTML
// fragments. Each tool name maps to a renderer; unknown tools get a
// collapsible JSON dump of their input.
package toolrender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/suykerbuyk/chatsite/internal/transcript"
)

// Func renders one tool call. result is the correlated tool result, or nil.
type Func func(call transcript.ToolCall, result any) string

// Registry maps tool names to renderers.
type Registry struct {
	funcs    map[string]Func
	fallback Func
}

// NewRegistry returns an empty registry that renders everything with fallback.
func NewRegistry(fallback Func) *Registry {
	if fallback == nil {
		fallback = Generic
	}
	return &Registry{funcs: make(map[string]Func), fallback: fallback}
}

// Default returns a registry with the built-in renderers. Each tool is
// registered under its recorded name and a descriptive alias.
func Default() *Registry {
	r := NewRegistry(Generic)
	r.Register(Command, "Bash", "command-execution")
	r.Register(FileWrite, "Write", "file-write")
	r.Register(FileEdit, "Edit", "file-edit")
	r.Register(FileRead, "Read", "file-read")
	r.Register(TodoList, "TodoWrite", "todo-list-update")
	r.Register(GlobSearch, "Glob", "file-glob-search")
	r.Register(PatternSearch, "Grep", "text-pattern-search")
	return r
}

// Register binds fn to one or more tool names, replacing earlier bindings.
func (r *Registry) Register(fn Func, names ...string) {
	for _, n := range names {
		r.funcs[n] = fn
	}
}

// Render renders call, attaching its result from results when one exists.
func (r *Registry) Render(call transcript.ToolCall, results transcript.ResultMap) string {
	var result any
	if call.ID != "" {
		result, _ = results.Lookup(call.ID)
	}
	fn, ok := r.funcs[call.Name]
	if !ok {
		fn = r.fallback
	}
	return fn(call, result)
}

// Command renders a shell command with its output.
func Command(call transcript.ToolCall, result any) string {
	in := call.InputMap()
	command := str(in, "command")
	desc := str(in, "description")

	var b strings.Builder
	b.WriteString("                    <details class=\"tool-call tool-call-compact\">\n")
	b.WriteString("                        <summary>\n")
	b.WriteString("                            <span class=\"tool-icon\">⚙️</span>\n")
	b.WriteString(fmt.Sprintf("                            <code>%s</code>\n", esc(command)))
	if desc != "" {
		b.WriteString(fmt.Sprintf("                            <span class=\"tool-desc\">%s</span>\n", esc(desc)))
	}
	b.WriteString("                        </summary>\n")
	if out := ResultText(result); out != "" {
		b.WriteString(fmt.Sprintf("                        <pre class=\"tool-output\"><code>%s</code></pre>\n", esc(out)))
	}
	b.WriteString("                    </details>\n")
	return b.String()
}

// FileWrite renders a file write with the written content.
func FileWrite(call transcript.ToolCall, _ any) string {
	in := call.InputMap()
	content := str(in, "content")

	var b strings.Builder
	b.WriteString("                    <details class=\"tool-call tool-call-compact\">\n")
	b.WriteString("                        <summary>\n")
	b.WriteString("                            <span class=\"tool-icon\">📝</span>\n")
	b.WriteString(fmt.Sprintf("                            <span>Writing to <code>%s</code></span>\n", esc(str(in, "file_path"))))
	b.WriteString("                        </summary>\n")
	if content != "" {
		b.WriteString(fmt.Sprintf("                        <pre><code>%s</code></pre>\n", esc(content)))
	}
	b.WriteString("                    </details>\n")
	return b.String()
}

// FileEdit renders a string replacement as an old/new diff.
func FileEdit(call transcript.ToolCall, _ any) string {
	in := call.InputMap()
	oldText := str(in, "old_string")
	newText := str(in, "new_string")

	var b strings.Builder
	b.WriteString("                    <details class=\"tool-call tool-call-compact\">\n")
	b.WriteString("                        <summary>\n")
	b.WriteString("                            <span class=\"tool-icon\">✏️</span>\n")
	b.WriteString(fmt.Sprintf("                            <span>Editing <code>%s</code></span>\n", esc(str(in, "file_path"))))
	b.WriteString("                        </summary>\n")
	if oldText != "" || newText != "" {
		b.WriteString("                        <div class=\"edit-diff\">\n")
		if oldText != "" {
			b.WriteString(fmt.Sprintf("                            <div class=\"diff-old\"><strong>Old:</strong><pre><code>%s</code></pre></div>\n", esc(oldText)))
		}
		if newText != "" {
			b.WriteString(fmt.Sprintf("                            <div class=\"diff-new\"><strong>New:</strong><pre><code>%s</code></pre></div>\n", esc(newText)))
		}
		b.WriteString("                        </div>\n")
	}
	b.WriteString("                    </details>\n")
	return b.String()
}

// FileRead renders an always-visible one-line read indicator.
func FileRead(call transcript.ToolCall, _ any) string {
	return inline("👁️", "Reading", str(call.InputMap(), "file_path"))
}

// GlobSearch renders a file search indicator.
func GlobSearch(call transcript.ToolCall, _ any) string {
	return inline("🔍", "Finding files:", str(call.InputMap(), "pattern"))
}

// PatternSearch renders a content search indicator.
func PatternSearch(call transcript.ToolCall, _ any) string {
	return inline("🔍", "Searching for:", str(call.InputMap(), "pattern"))
}

func inline(icon, label, value string) string {
	var b strings.Builder
	b.WriteString("                    <div class=\"tool-call-inline\">\n")
	b.WriteString(fmt.Sprintf("                        <span class=\"tool-icon\">%s</span>\n", icon))
	b.WriteString(fmt.Sprintf("                        <span>%s <code>%s</code></span>\n", label, esc(value)))
	b.WriteString("                    </div>\n")
	return b.String()
}

// Generic renders any tool as a collapsible dump of its input.
func Generic(call transcript.ToolCall, _ any) string {
	var b strings.Builder
	b.WriteString("                    <details class=\"tool-call\">\n")
	b.WriteString(fmt.Sprintf("                        <summary>Tool: %s</summary>\n", esc(call.Name)))
	b.WriteString(fmt.Sprintf("                        <pre><code>%s</code></pre>\n", esc(inputJSON(call))))
	b.WriteString("                    </details>\n")
	return b.String()
}

// ResultText flattens a tool result for display. Structured results made of
// text items are joined; anything else is shown as JSON.
func ResultText(result any) string {
	switch r := result.(type) {
	case nil:
		return ""
	case string:
		return r
	case []any:
		var parts []string
		for _, item := range r {
			switch it := item.(type) {
			case string:
				parts = append(parts, it)
			case map[string]any:
				if text, ok := it["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
		if len(r) == 0 {
			return ""
		}
	case bool:
		if !r {
			return ""
		}
	}
	return prettyJSON(result)
}

// inputJSON indents the recorded input so keys keep their recorded order.
func inputJSON(call transcript.ToolCall) string {
	if len(call.RawInput) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, call.RawInput, "", "  "); err == nil {
			return buf.String()
		}
	}
	return prettyJSON(call.Input)
}

func prettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64, bool:
		return fmt.Sprint(v)
	}
	return ""
}

func esc(s string) string {
	return html.EscapeString(s)
}
