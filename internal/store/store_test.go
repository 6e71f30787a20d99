package store

import (
	"testing"

	"pedia/internal/domain/content"
)

func testCatalog() []content.Article {
	return []content.Article{
		{
			ID:      "x",
			Title:   "Test",
			Summary: "A test article.",
			Content: []content.ContentBlock{
				{Type: content.BlockHeading, Text: "Intro", Level: 2},
				{Type: content.BlockParagraph, Text: "Hello world"},
			},
			Categories:      []string{"Demo"},
			RelatedArticles: []string{},
			LastModified:    "2024-01-01",
		},
		{
			ID:              "y",
			Title:           "Second",
			Summary:         "Another entry.",
			Content:         []content.ContentBlock{{Type: content.BlockParagraph, Text: "Completely different text"}},
			RelatedArticles: []string{"x", "ghost", "z"},
			LastModified:    "2024-02-01",
		},
		{
			ID:              "z",
			Title:           "Third",
			Summary:         "Mentions hello in the summary.",
			RelatedArticles: []string{"y"},
			LastModified:    "2024-03-01",
		},
	}
}

func mustStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(testCatalog())
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return st
}

func TestGetByID(t *testing.T) {
	st := mustStore(t)

	for _, a := range st.GetAll() {
		got, ok := st.GetByID(a.ID)
		if !ok {
			t.Fatalf("GetByID(%q) = absent, want present", a.ID)
		}
		if got.Title != a.Title {
			t.Fatalf("GetByID(%q).Title = %q, want %q", a.ID, got.Title, a.Title)
		}
	}

	if _, ok := st.GetByID("does-not-exist"); ok {
		t.Fatal("GetByID(missing) = present, want absent")
	}
	if _, ok := st.GetByID(""); ok {
		t.Fatal("GetByID(\"\") = present, want absent")
	}
}

func TestGetAllOrder(t *testing.T) {
	st := mustStore(t)
	want := []string{"x", "y", "z"}
	all := st.GetAll()
	if len(all) != len(want) {
		t.Fatalf("GetAll() returned %d articles, want %d", len(all), len(want))
	}
	for i, a := range all {
		if a.ID != want[i] {
			t.Fatalf("GetAll()[%d].ID = %q, want %q", i, a.ID, want[i])
		}
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	arts := testCatalog()
	arts = append(arts, content.Article{ID: "x", Title: "Dup", Summary: "s", LastModified: "2024-01-01"})
	if _, err := New(arts); err == nil {
		t.Fatal("New() with duplicate ids expected error")
	}
}

func TestSearch(t *testing.T) {
	st := mustStore(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query", "", nil},
		{"whitespace query", "   ", nil},
		{"paragraph match", "hello world", []string{"x"}},
		{"case insensitive", "HELLO", []string{"x", "z"}},
		{"title match", "test", []string{"x"}},
		{"summary match", "another", []string{"y"}},
		{"no match", "xyz-not-present", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := st.Search(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d articles, want %d", tt.query, len(got), len(tt.want))
			}
			for i, a := range got {
				if a.ID != tt.want[i] {
					t.Fatalf("Search(%q)[%d].ID = %q, want %q", tt.query, i, a.ID, tt.want[i])
				}
			}
		})
	}
}

func TestSearchDoesNotScanHeadings(t *testing.T) {
	st := mustStore(t)
	// "Intro" only appears in a heading block; headings are not search targets
	if got := st.Search("intro"); len(got) != 0 {
		t.Fatalf("Search(\"intro\") = %d results, want 0", len(got))
	}
}

func TestRelated(t *testing.T) {
	st := mustStore(t)

	got := st.Related("y")
	want := []string{"x", "z"} // "ghost" silently dropped
	if len(got) != len(want) {
		t.Fatalf("Related(\"y\") returned %d articles, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.ID != want[i] {
			t.Fatalf("Related(\"y\")[%d].ID = %q, want %q", i, a.ID, want[i])
		}
	}

	if got := st.Related("x"); len(got) != 0 {
		t.Fatalf("Related(\"x\") = %d articles, want 0", len(got))
	}
	if got := st.Related("missing"); got != nil {
		t.Fatalf("Related(missing) = %v, want nil", got)
	}
}
