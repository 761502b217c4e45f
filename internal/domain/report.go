package domain

import (
	"fmt"
	"strings"
)

const SnippetPreviewLength = 100

// FormatReport renders a Markdown-like report. Output depends only on the arguments.
func FormatReport(topic string, items []ResultItem) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# News Analysis Report: %s\n\n", topic))
	sb.WriteString("## 📊 Research Overview\n")
	sb.WriteString(fmt.Sprintf("Found %d recent articles about %s.\n\n", len(items), topic))
	sb.WriteString("## 🔍 Key Findings\n")

	for i, item := range items {
		sb.WriteString(fmt.Sprintf("\n%d. **%s**\n", i+1, item.Title))
		sb.WriteString(fmt.Sprintf("   - Source: %s\n", item.Source))
		sb.WriteString(fmt.Sprintf("   - Summary: %s...\n", truncateRunes(item.Snippet, SnippetPreviewLength)))
	}

	sb.WriteString("\n## 📚 Sources\n")

	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", item.Title, item.URL))
	}

	return sb.String()
}

// режем по символам, а не по байтам
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
