package render

import (
	"fmt"
	"sort"
	"strings"
)

// IndexEntry is one chat log listed on the chatlogs page.
type IndexEntry struct {
	ID           string
	Name         string
	MessageCount int
}

// SummaryDoc is one markdown session summary.
type SummaryDoc struct {
	Filename string // e.g. "2026-01-15-boot.md"
	Markdown string
}

// Title is the summary's first line without surrounding '#' and spaces.
func (d SummaryDoc) Title() string {
	return SummaryTitle(d.Markdown)
}

// HTMLName is the output file name for the summary page.
func (d SummaryDoc) HTMLName() string {
	return strings.TrimSuffix(d.Filename, ".md") + ".html"
}

// SummaryTitle extracts a title from the first line of a markdown document.
func SummaryTitle(md string) string {
	first, _, _ := strings.Cut(md, "\n")
	return strings.Trim(first, "# \r\n")
}

// ChatlogIndex renders the list of chat logs, sorted by name.
func (r *Renderer) ChatlogIndex(entries []IndexEntry) string {
	sorted := append([]IndexEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	var b strings.Builder
	r.writeIndexHead(&b, "Chatlogs")
	for _, e := range sorted {
		b.WriteString("            <li class=\"session-item\">\n")
		b.WriteString(fmt.Sprintf("                <a href=\"chatlogs/%s.html\">%s</a>\n", esc(e.ID), esc(e.Name)))
		b.WriteString(fmt.Sprintf("                <span class=\"meta\">(%d messages)</span>\n", e.MessageCount))
		b.WriteString("            </li>\n")
	}
	writeIndexFoot(&b)
	return b.String()
}

// SummaryIndex renders the list of session summaries, sorted by file name.
func (r *Renderer) SummaryIndex(docs []SummaryDoc) string {
	sorted := append([]SummaryDoc(nil), docs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Filename < sorted[j].Filename
	})

	var b strings.Builder
	r.writeIndexHead(&b, "Sessions")
	for _, d := range sorted {
		b.WriteString("            <li class=\"session-item\">\n")
		b.WriteString(fmt.Sprintf("                <a href=\"sessions/%s\">%s</a>\n", esc(d.HTMLName()), esc(d.Title())))
		b.WriteString("            </li>\n")
	}
	writeIndexFoot(&b)
	return b.String()
}

// SummaryPage renders one markdown session summary.
func (r *Renderer) SummaryPage(d SummaryDoc, sourceURL string) string {
	var b strings.Builder
	b.WriteString(pageHead(d.Title()+" - "+r.SiteTitle, "../css/style.css"))
	b.WriteString("    <div class=\"container\">\n")
	b.WriteString(fmt.Sprintf("        <h1><a href=\"../index.html\">%s</a></h1>\n", esc(r.SiteTitle)))
	b.WriteString("        <p class=\"meta\">\n")
	b.WriteString("            <a href=\"../sessions.html\">← Back to sessions</a> |\n")
	b.WriteString(fmt.Sprintf("            <a href=\"%s\">View source on GitHub</a>\n", esc(sourceURL)))
	b.WriteString("        </p>\n\n")
	b.WriteString(r.Summaries.Convert(d.Markdown))
	b.WriteString("    </div>\n")
	b.WriteString(pageFoot())
	return b.String()
}

func (r *Renderer) writeIndexHead(b *strings.Builder, heading string) {
	b.WriteString(pageHead(heading+" - "+r.SiteTitle, "css/style.css"))
	b.WriteString("    <div class=\"container\">\n")
	b.WriteString(fmt.Sprintf("        <h1><a href=\"index.html\">%s</a></h1>\n", esc(r.SiteTitle)))
	b.WriteString(fmt.Sprintf("        <h2>%s</h2>\n\n", heading))
	b.WriteString("        <ul>\n")
}

func writeIndexFoot(b *strings.Builder) {
	b.WriteString("        </ul>\n")
	b.WriteString("    </div>\n")
	b.WriteString(pageFoot())
}

// SourceURL links a repository file: <repo>/blob/main/<dir>/<file>.
func SourceURL(repoURL, dir, filename string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return fmt.Sprintf("%s/blob/main/%s", strings.TrimSuffix(repoURL, "/"), filename)
	}
	return fmt.Sprintf("%s/blob/main/%s/%s", strings.TrimSuffix(repoURL, "/"), dir, filename)
}

// PatchHomepage replaces every occurrence of placeholder with repoURL.
func PatchHomepage(content, placeholder, repoURL string) string {
	if placeholder == "" {
		return content
	}
	return strings.ReplaceAll(content, placeholder, repoURL)
}
