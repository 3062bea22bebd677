// Package render builds the HTML documents of the site: one page per chat
// log, one per session summary, and the two index pages.
package render

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/suykerbuyk/chatsite/internal/markdown"
	"github.com/suykerbuyk/chatsite/internal/timestamp"
	"github.com/suykerbuyk/chatsite/internal/toolrender"
	"github.com/suykerbuyk/chatsite/internal/transcript"
)

// MaxNameLength bounds a session display name, in characters.
const MaxNameLength = 100

// Renderer holds the collaborators used to build pages. The zero value is
// not usable; call New.
type Renderer struct {
	SiteTitle  string
	Timestamps timestamp.Normalizer
	Tools      *toolrender.Registry
	Messages   *markdown.Converter
	Summaries  *markdown.Converter
}

// New returns a Renderer with the default tool registry.
func New(siteTitle string, ts timestamp.Normalizer) *Renderer {
	return &Renderer{
		SiteTitle:  siteTitle,
		Timestamps: ts,
		Tools:      toolrender.Default(),
		Messages:   markdown.New(),
		Summaries:  markdown.New(markdown.WithHardWraps()),
	}
}

// Session is one chat log ready for rendering.
type Session struct {
	ID       string
	Name     string
	Messages []transcript.Message
}

// NewSession names a session from its messages.
func NewSession(id string, messages []transcript.Message) Session {
	return Session{ID: id, Name: SessionName(id, messages), Messages: messages}
}

// SessionName uses the first line of the first user message with content,
// or "Session <id prefix>" when there is none.
func SessionName(id string, messages []transcript.Message) string {
	name := "Session " + truncateRunes(id, 8)
	for _, m := range messages {
		if m.Role != "user" || m.Content == "" {
			continue
		}
		first, _, _ := strings.Cut(m.Content, "\n")
		if first = truncateRunes(first, MaxNameLength); first != "" {
			name = first
		}
		break
	}
	return name
}

// Session renders the full page for one chat log. sourceURL links to the
// raw log in the repository.
func (r *Renderer) Session(s Session, sourceURL string) string {
	results := transcript.BuildResultMap(s.Messages)

	var b strings.Builder
	b.WriteString(pageHead(s.Name+" - "+r.SiteTitle, "../css/style.css"))
	b.WriteString("    <div class=\"container\">\n")
	b.WriteString(fmt.Sprintf("        <h1><a href=\"../index.html\">%s</a></h1>\n", esc(r.SiteTitle)))
	b.WriteString(fmt.Sprintf("        <h2>%s</h2>\n", esc(s.Name)))
	b.WriteString("        <p class=\"meta\">\n")
	b.WriteString("            <a href=\"../chatlogs.html\">← Back to chatlogs</a> |\n")
	b.WriteString(fmt.Sprintf("            <a href=\"%s\">View source on GitHub</a>\n", esc(sourceURL)))
	b.WriteString("        </p>\n\n")
	b.WriteString("        <div class=\"chatlog-container\">\n")

	ordinal := 0
	for _, m := range s.Messages {
		if m.ResultOnly() {
			continue
		}
		ordinal++
		r.writeMessage(&b, m, fmt.Sprintf("msg-%d", ordinal), results)
	}

	b.WriteString("        </div>\n")
	b.WriteString("    </div>\n")
	b.WriteString(pageFoot())
	return b.String()
}

func (r *Renderer) writeMessage(b *strings.Builder, m transcript.Message, anchor string, results transcript.ResultMap) {
	b.WriteString(fmt.Sprintf("                <div class=\"message %s\" id=\"%s\">\n", esc(RoleClass(m.Role)), anchor))
	b.WriteString("                    <div class=\"message-header\">\n")
	b.WriteString(fmt.Sprintf("                        <a href=\"#%s\" class=\"message-anchor\">#</a>\n", anchor))
	b.WriteString(fmt.Sprintf("                        %s\n", esc(RoleLabel(m.Role))))
	if m.Timestamp != "" {
		b.WriteString(fmt.Sprintf("                        <span class=\"message-timestamp\">%s</span>\n", esc(r.Timestamps.Format(m.Timestamp))))
	}
	b.WriteString("                    </div>\n")

	if m.HasText() {
		b.WriteString(fmt.Sprintf("                    <div class=\"message-content\">%s</div>\n", r.Messages.Convert(m.Content)))
	}

	for _, call := range m.ToolCalls {
		b.WriteString(r.Tools.Render(call, results))
	}

	if m.Error != "" {
		b.WriteString(fmt.Sprintf("                    <div class=\"message-error\">Error: %s</div>\n", esc(m.Error)))
	}

	b.WriteString("                </div>\n")
}

// RoleLabel turns "tool_result" into "Tool Result".
func RoleLabel(role string) string {
	return titleCase(strings.ReplaceAll(role, "_", " "))
}

// RoleClass turns "tool_result" into the CSS class "tool-result".
func RoleClass(role string) string {
	return strings.ReplaceAll(role, "_", "-")
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func pageHead(title, stylesheet string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <link rel="stylesheet" href="%s">
</head>
<body>
`, esc(title), stylesheet)
}

func pageFoot() string {
	return "</body>\n</html>\n"
}

func esc(s string) string {
	return html.EscapeString(s)
}
