package transcript

import (
	"encoding/json"
	"strings"
)

// Notification blocks injected by the IDE integration and the harness.
// Text items starting with one of these are not displayed.
var notificationPrefixes = []string{
	"<ide_opened_file>",
	"<system-reminder>",
}

type contentKind int

const (
	contentNone contentKind = iota
	contentText
	contentItems
)

// Content is a message's content field: either plain text or an ordered
// list of content items. Any other JSON shape decodes to the zero Content.
type Content struct {
	kind  contentKind
	text  string
	items []any
	raw   []json.RawMessage // items as recorded, when decoded from JSON
}

// PlainText builds a plain string content value.
func PlainText(s string) Content {
	return Content{kind: contentText, text: s}
}

// Items builds a structured content value.
func Items(items ...any) Content {
	return Content{kind: contentItems, items: items}
}

// ContentOf classifies an already-decoded JSON value.
func ContentOf(v any) Content {
	switch c := v.(type) {
	case string:
		return PlainText(c)
	case []any:
		return Items(c...)
	}
	return Content{}
}

// UnmarshalJSON decodes either shape. It never fails on valid JSON.
func (c *Content) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ContentOf(v)
	if c.kind == contentItems {
		// cannot fail: data already decoded as a list
		_ = json.Unmarshal(data, &c.raw)
	}
	return nil
}

// ItemList returns the structured items, or nil for other shapes.
func (c Content) ItemList() []any {
	if c.kind != contentItems {
		return nil
	}
	return c.items
}

// Extract splits content into display text and tool calls.
func Extract(c Content) (string, []ToolCall) {
	switch c.kind {
	case contentText:
		return c.text, nil
	case contentItems:
		var parts []string
		var calls []ToolCall
		for i, item := range c.items {
			switch it := item.(type) {
			case string:
				parts = append(parts, it)
			case map[string]any:
				switch it["type"] {
				case "text":
					text := stringField(it, "text")
					if !isNotification(text) {
						parts = append(parts, text)
					}
				case "tool_use":
					call := toolCallFrom(it)
					if i < len(c.raw) {
						call.RawInput = rawInput(c.raw[i])
					}
					calls = append(calls, call)
				}
			}
		}
		return strings.Join(parts, "\n"), calls
	}
	return "", nil
}

// ToolResults collects tool_result items keyed by tool_use_id.
func ToolResults(c Content) map[string]any {
	results := make(map[string]any)
	for _, item := range c.ItemList() {
		it, ok := item.(map[string]any)
		if !ok || it["type"] != "tool_result" {
			continue
		}
		id, ok := it["tool_use_id"].(string)
		if !ok || id == "" {
			continue
		}
		content, ok := it["content"]
		if !ok || content == nil {
			content = ""
		}
		results[id] = content
	}
	return results
}

func toolCallFrom(item map[string]any) ToolCall {
	call := ToolCall{Name: "unknown", Input: map[string]any{}}
	if name, ok := item["name"]; ok {
		call.Name, _ = name.(string)
	}
	if input, ok := item["input"]; ok {
		call.Input = input
	}
	call.ID = stringField(item, "id")
	return call
}

// rawInput returns the input field of a recorded tool_use item with its
// keys in recorded order.
func rawInput(item json.RawMessage) json.RawMessage {
	var v struct {
		Input json.RawMessage `json:"input"`
	}
	if err := json.Unmarshal(item, &v); err != nil {
		return nil
	}
	return v.Input
}

func isNotification(text string) bool {
	for _, p := range notificationPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
