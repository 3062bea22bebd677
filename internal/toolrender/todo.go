package toolrender

import (
	"fmt"
	"strings"

	"github.com/suykerbuyk/chatsite/internal/transcript"
)

type todoStatus struct {
	label string
	color string
}

var (
	statusCompleted  = todoStatus{"completed", "#4caf50"}
	statusInProgress = todoStatus{"in progress", "#2196f3"}
	statusPending    = todoStatus{"pending", "#999"}
)

func statusOf(s string) todoStatus {
	switch s {
	case "completed":
		return statusCompleted
	case "in_progress":
		return statusInProgress
	}
	return statusPending
}

// TodoList renders a todo list update as a read-only checklist.
func TodoList(call transcript.ToolCall, _ any) string {
	todos, _ := call.InputMap()["todos"].([]any)

	var b strings.Builder
	b.WriteString("                    <details class=\"tool-call tool-call-compact\">\n")
	b.WriteString("                        <summary>\n")
	b.WriteString("                            <span class=\"tool-icon\">✓</span>\n")
	b.WriteString(fmt.Sprintf("                            <span>Updating todo list (%d items)</span>\n", len(todos)))
	b.WriteString("                        </summary>\n")
	if len(todos) > 0 {
		b.WriteString("                        <div style=\"padding: 1rem;\">\n")
		b.WriteString("                            <ul style=\"list-style: none; padding: 0; margin: 0;\">\n")
		for _, item := range todos {
			todo, _ := item.(map[string]any)
			raw := str(todo, "status")
			status := statusOf(raw)
			done := raw == "completed"

			checked, style := "disabled", ""
			if done {
				checked = "checked disabled"
				style = "text-decoration: line-through; color: #666;"
			}

			b.WriteString("                                <li style=\"margin-bottom: 0.5rem;\">\n")
			b.WriteString(fmt.Sprintf("                                    <input type=\"checkbox\" %s style=\"margin-right: 0.5rem;\">\n", checked))
			b.WriteString(fmt.Sprintf("                                    <span style=\"%s\">%s</span>\n", style, esc(str(todo, "content"))))
			b.WriteString(fmt.Sprintf("                                    <span class=\"todo-status\" style=\"font-size: 0.8rem; color: %s; margin-left: 0.5rem;\">(%s)</span>\n", status.color, status.label))
			b.WriteString("                                </li>\n")
		}
		b.WriteString("                            </ul>\n")
		b.WriteString("                        </div>\n")
	}
	b.WriteString("                    </details>\n")
	return b.String()
}
