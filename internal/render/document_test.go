package render

import (
	"reflect"
	"strings"
	"testing"

	"pedia/internal/domain/content"
	"pedia/internal/store"
)

func newRenderer(t *testing.T, arts []content.Article) *DocumentRenderer {
	t.Helper()
	st, err := store.New(arts)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return NewDocumentRenderer(st)
}

func demoArticle() content.Article {
	return content.Article{
		ID:      "x",
		Title:   "Test",
		Summary: "A test article.",
		Content: []content.ContentBlock{
			{Type: content.BlockHeading, Text: "Intro", Level: 2},
			{Type: content.BlockParagraph, Text: "Hello world"},
		},
		Categories:      []string{"Demo"},
		References:      []content.Reference{},
		RelatedArticles: []string{},
		LastModified:    "2024-01-01",
	}
}

func TestRenderEndToEnd(t *testing.T) {
	a := demoArticle()
	r := newRenderer(t, []content.Article{a})
	doc := r.Render(a)

	if len(doc.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
	}

	h := doc.Blocks[0]
	if h.Kind != KindHeading || h.Text != "Intro" || h.Level != 2 || h.Anchor != "intro" {
		t.Fatalf("heading block = %+v", h)
	}

	p := doc.Blocks[1]
	if p.Kind != KindParagraph || p.Text != "Hello world" {
		t.Fatalf("paragraph block = %+v", p)
	}
	if !strings.Contains(string(p.HTML), "Hello world") {
		t.Fatalf("paragraph HTML = %q", p.HTML)
	}

	if len(doc.TOC) != 1 {
		t.Fatalf("got %d TOC entries, want 1", len(doc.TOC))
	}
	if doc.TOC[0].Anchor != "intro" || doc.TOC[0].Text != "Intro" {
		t.Fatalf("TOC entry = %+v", doc.TOC[0])
	}
	if doc.TOC[0].Anchor != h.Anchor {
		t.Fatal("TOC anchor and heading anchor diverged")
	}

	if len(doc.References) != 0 {
		t.Fatalf("got %d references, want 0", len(doc.References))
	}
	if len(doc.SeeAlso) != 0 {
		t.Fatalf("got %d see-also links, want 0", len(doc.SeeAlso))
	}
	if len(doc.Categories) != 1 || doc.Categories[0].Name != "Demo" {
		t.Fatalf("categories = %+v", doc.Categories)
	}
	if doc.Categories[0].URL != CategoryURL("Demo") {
		t.Fatalf("category URL = %q", doc.Categories[0].URL)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	a := demoArticle()
	a.Content = append(a.Content, content.ContentBlock{
		Type: content.BlockInfobox,
		Data: map[string]string{"Population": "1", "Area": "2", "Capital": "3"},
	})
	r := newRenderer(t, []content.Article{a})

	first := r.Render(a)
	second := r.Render(a)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("rendering the same article twice produced different output")
	}
}

func TestRenderIgnoresUnknownBlockType(t *testing.T) {
	a := demoArticle()
	a.Content = append(a.Content, content.ContentBlock{Type: "hologram", Text: "future stuff"})
	r := newRenderer(t, []content.Article{a})

	doc := r.Render(a)
	if len(doc.Blocks) != 2 {
		t.Fatalf("unknown block leaked into output: %d blocks", len(doc.Blocks))
	}
}

func TestRenderHeadingClamping(t *testing.T) {
	a := content.Article{
		ID:    "h",
		Title: "Headings",
		Content: []content.ContentBlock{
			{Type: content.BlockHeading, Text: "Zero"},           // level absent
			{Type: content.BlockHeading, Text: "Nine", Level: 9}, // above range
			{Type: content.BlockHeading, Text: "One", Level: 1},
		},
	}
	r := newRenderer(t, []content.Article{a})
	doc := r.Render(a)

	want := []int{2, 6, 1}
	for i, b := range doc.Blocks {
		if b.Level != want[i] {
			t.Errorf("block %d level = %d, want %d", i, b.Level, want[i])
		}
	}
}

func TestRenderInfoboxAndTableAlias(t *testing.T) {
	data := map[string]string{"Founded": "1901", "Country": "France"}
	a := content.Article{
		ID:    "box",
		Title: "Box",
		Content: []content.ContentBlock{
			{Type: content.BlockInfobox, Data: data},
			{Type: content.BlockTable, Data: data},
		},
	}
	r := newRenderer(t, []content.Article{a})
	doc := r.Render(a)

	if len(doc.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
	}
	for i, b := range doc.Blocks {
		if b.Kind != KindInfobox {
			t.Fatalf("block %d kind = %q, want infobox", i, b.Kind)
		}
		if b.Title != "Box" {
			t.Fatalf("block %d title = %q, want article title", i, b.Title)
		}
		// rows come out key-sorted so rendering stays deterministic
		if b.Rows[0].Key != "Country" || b.Rows[1].Key != "Founded" {
			t.Fatalf("block %d rows = %+v", i, b.Rows)
		}
	}
}

func TestRenderDegradesOnMissingOptionalFields(t *testing.T) {
	a := content.Article{
		ID:    "sparse",
		Title: "Sparse",
		Content: []content.ContentBlock{
			{Type: content.BlockList},                     // no items
			{Type: content.BlockInfobox},                  // no data
			{Type: content.BlockImage},                    // no src: dropped
			{Type: content.BlockImage, Src: "/a.png"},     // no alt/caption: kept
			{Type: content.BlockParagraph, Text: "tail"},  // proves we got here
		},
	}
	r := newRenderer(t, []content.Article{a})
	doc := r.Render(a)

	if len(doc.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(doc.Blocks))
	}
	img := doc.Blocks[2]
	if img.Kind != KindImage || img.Src != "/a.png" || img.Alt != "" {
		t.Fatalf("image block = %+v", img)
	}
	if doc.Blocks[3].Text != "tail" {
		t.Fatal("rendering stopped before the last block")
	}
}

func TestRenderSeeAlsoResolvesThroughStore(t *testing.T) {
	a := demoArticle()
	a.RelatedArticles = []string{"other", "ghost"}
	other := content.Article{ID: "other", Title: "Other", Summary: "s", LastModified: "2024-01-01"}
	r := newRenderer(t, []content.Article{a, other})

	doc := r.Render(a)
	if len(doc.SeeAlso) != 1 {
		t.Fatalf("got %d see-also links, want 1", len(doc.SeeAlso))
	}
	link := doc.SeeAlso[0]
	if link.ID != "other" || link.Title != "Other" || link.URL != "/article/other" {
		t.Fatalf("see-also link = %+v", link)
	}
}

func TestRenderReferences(t *testing.T) {
	a := demoArticle()
	a.References = []content.Reference{
		{ID: "1", Text: "First source", URL: "https://example.org"},
		{ID: "2", Text: "Second source"},
	}
	r := newRenderer(t, []content.Article{a})

	doc := r.Render(a)
	if len(doc.References) != 2 {
		t.Fatalf("got %d references, want 2", len(doc.References))
	}
	if doc.References[0].Marker != "1" || doc.References[0].URL != "https://example.org" {
		t.Fatalf("reference 0 = %+v", doc.References[0])
	}
	if doc.References[1].URL != "" {
		t.Fatalf("reference 1 has unexpected URL: %+v", doc.References[1])
	}
}
