package domain

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatReport_Layout(t *testing.T) {
	items := []ResultItem{
		{Title: "EV sales surge", URL: "https://a.example/ev", Snippet: "Sales grew.", Source: "Reuters"},
		{Title: "Battery breakthrough", URL: "", Snippet: "New chemistry.", Source: "Unknown"},
	}

	got := FormatReport("electric vehicles", items)

	want := "# News Analysis Report: electric vehicles\n" +
		"\n" +
		"## 📊 Research Overview\n" +
		"Found 2 recent articles about electric vehicles.\n" +
		"\n" +
		"## 🔍 Key Findings\n" +
		"\n" +
		"1. **EV sales surge**\n" +
		"   - Source: Reuters\n" +
		"   - Summary: Sales grew....\n" +
		"\n" +
		"2. **Battery breakthrough**\n" +
		"   - Source: Unknown\n" +
		"   - Summary: New chemistry....\n" +
		"\n" +
		"## 📚 Sources\n" +
		"- [EV sales surge](https://a.example/ev)\n" +
		"- [Battery breakthrough]()\n"

	if got != want {
		t.Errorf("FormatReport() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatReport_Empty(t *testing.T) {
	got := FormatReport("quantum", nil)

	if !strings.HasPrefix(got, "# News Analysis Report: quantum\n") {
		t.Errorf("missing heading: %q", got)
	}
	if !strings.Contains(got, "Found 0 recent articles about quantum.") {
		t.Errorf("missing zero count line: %q", got)
	}
	if !strings.HasSuffix(got, "## 📚 Sources\n") {
		t.Errorf("sources section should be empty: %q", got)
	}
	if strings.Contains(got, "1. **") {
		t.Errorf("no entries expected: %q", got)
	}
}

func TestFormatReport_Deterministic(t *testing.T) {
	items := []ResultItem{
		{Title: "a", URL: "u1", Snippet: strings.Repeat("x", 250), Source: "s"},
		{Title: "b", URL: "u2", Snippet: "short", Source: "t"},
	}

	first := FormatReport("topic", items)
	for i := 0; i < 10; i++ {
		if got := FormatReport("topic", items); got != first {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestFormatReport_SnippetTruncation(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{"shorter no padding", "abc", "abc"},
		{"exactly 100", strings.Repeat("a", 100), strings.Repeat("a", 100)},
		{"longer hard cut", strings.Repeat("b", 101), strings.Repeat("b", 100)},
		{"multibyte counted as chars", strings.Repeat("ж", 150), strings.Repeat("ж", 100)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := FormatReport("t", []ResultItem{{Title: "x", Snippet: tt.snippet, Source: "s"}})
			line := fmt.Sprintf("   - Summary: %s...\n", tt.want)
			if !strings.Contains(report, line) {
				t.Errorf("report does not contain %q:\n%s", line, report)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  int
	}{
		{"hello", 100, 5},
		{strings.Repeat("é", 120), 100, 100},
		{strings.Repeat("a", 100) + "é", 100, 100},
	}

	for _, tt := range tests {
		got := truncateRunes(tt.in, tt.limit)
		if n := utf8.RuneCountInString(got); n != tt.want {
			t.Errorf("truncateRunes() rune count = %d, want %d", n, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateRunes() produced invalid utf8: %q", got)
		}
	}
}

func TestFormatReport_NumberingFollowsInputOrder(t *testing.T) {
	items := make([]ResultItem, 5)
	for i := range items {
		items[i] = ResultItem{Title: fmt.Sprintf("title-%d", i), URL: fmt.Sprintf("u%d", i), Snippet: "s", Source: "src"}
	}

	report := FormatReport("t", items)

	last := -1
	for i := range items {
		entry := fmt.Sprintf("%d. **title-%d**", i+1, i)
		idx := strings.Index(report, entry)
		if idx < 0 || idx < last {
			t.Fatalf("entry %q missing or out of order", entry)
		}
		last = idx
	}
	if strings.Count(report, "- [title-") != 5 {
		t.Errorf("expected 5 source links")
	}
}
