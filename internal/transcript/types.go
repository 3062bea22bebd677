package transcript

import "encoding/json"

// Entry is one decoded line of a chat log. Fields are filled best-effort:
// anything with an unexpected JSON type is left at its zero value.
type Entry struct {
	Type      string
	UUID      string
	Timestamp string
	Error     string
	Summary   string

	// Message is nil when the record carries no message object.
	Message *EntryMessage

	// ToolUseResult holds the raw toolUseResult object, if the record has
	// one. Shell tools put stdout/stderr here when the inline tool_result
	// content omits them.
	ToolUseResult map[string]any
}

// EntryMessage is the nested message object of a record.
type EntryMessage struct {
	Role    string
	Content Content
}

// ToolCall is a normalized tool_use content item.
type ToolCall struct {
	Name     string
	Input    any             // usually map[string]any
	RawInput json.RawMessage // Input as recorded; nil when built in code
	ID       string
}

// InputMap returns the call's input as a mapping, or nil if it is not one.
func (c ToolCall) InputMap() map[string]any {
	m, _ := c.Input.(map[string]any)
	return m
}

// Message is the unit of rendering.
type Message struct {
	Role        string
	Content     string         // display text, notification blocks removed
	ToolCalls   []ToolCall     // in encounter order
	ToolResults map[string]any // tool_use_id -> result payload
	Timestamp   string         // raw ISO-8601; empty when absent
	Error       string
	UUID        string
}

// HasText reports whether the message has display text.
func (m Message) HasText() bool { return m.Content != "" }

// ResultOnly reports whether the message exists only to deliver tool results.
func (m Message) ResultOnly() bool {
	return m.Content == "" && len(m.ToolCalls) == 0 && len(m.ToolResults) > 0
}

// Warning records a line that could not be decoded.
type Warning struct {
	Line int
	Err  error
}

// Transcript holds the messages of one chat log plus any skipped lines.
type Transcript struct {
	Messages []Message
	Warnings []Warning
}

// ResultMap correlates tool call ids with their results across a session.
type ResultMap map[string]any

// BuildResultMap merges every message's tool results into one map.
// A later result for the same id replaces an earlier one.
func BuildResultMap(messages []Message) ResultMap {
	results := make(ResultMap)
	for _, m := range messages {
		for id, r := range m.ToolResults {
			results[id] = r
		}
	}
	return results
}

// Lookup returns the result for a tool call id.
func (r ResultMap) Lookup(id string) (any, bool) {
	v, ok := r[id]
	return v, ok
}
