package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewResultItem(t *testing.T) {
	tests := []struct {
		name                        string
		title, url, snippet, source *string
		want                        ResultItem
	}{
		{
			name: "all missing",
			want: ResultItem{Title: "No title", URL: "", Snippet: "No description", Source: "Unknown"},
		},
		{
			name:    "all present",
			title:   strPtr("T"),
			url:     strPtr("https://example.com"),
			snippet: strPtr("S"),
			source:  strPtr("Reuters"),
			want:    ResultItem{Title: "T", URL: "https://example.com", Snippet: "S", Source: "Reuters"},
		},
		{
			name:    "present but empty is kept",
			title:   strPtr(""),
			snippet: strPtr(""),
			want:    ResultItem{Title: "", URL: "", Snippet: "", Source: "Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResultItem(tt.title, tt.url, tt.snippet, tt.source)
			if got != tt.want {
				t.Errorf("NewResultItem() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewStoredSearch(t *testing.T) {
	items := []ResultItem{{Title: "a"}, {Title: "b"}}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	s := NewStoredSearch("topic", items, now)

	if s.Count != 2 {
		t.Errorf("Count = %d, want 2", s.Count)
	}
	if s.Topic != "topic" {
		t.Errorf("Topic = %q", s.Topic)
	}
	if !s.Timestamp.Equal(now) || s.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want %v in UTC", s.Timestamp, now)
	}
	if s.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("ID should be generated")
	}

	// копия, а не ссылка на исходный слайс
	items[0].Title = "changed"
	if s.Articles[0].Title != "a" {
		t.Errorf("Articles should not alias input, got %q", s.Articles[0].Title)
	}
}
