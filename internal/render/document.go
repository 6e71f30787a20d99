package render

import (
	"html/template"
	"sort"
	"strings"

	"pedia/internal/domain/content"
	"pedia/internal/domain/site"
	"pedia/internal/store"
)

type BlockKind string

const (
	KindParagraph BlockKind = "paragraph"
	KindHeading   BlockKind = "heading"
	KindList      BlockKind = "list"
	KindImage     BlockKind = "image"
	KindInfobox   BlockKind = "infobox"
)

// Block is one node of the presentation tree. Kind decides which fields are
// populated; Text always carries the raw source text where one exists.
type Block struct {
	Kind BlockKind

	Text string
	HTML template.HTML

	// headings
	Level  int
	Anchor string

	// lists
	Items []ListItem

	// images
	Src     string
	Alt     string
	Caption string

	// infobox (and table, which renders the same way)
	Title string
	Rows  []InfoboxRow
}

type ListItem struct {
	Text string
	HTML template.HTML
}

type InfoboxRow struct {
	Key   string
	Value string
}

type TOCEntry struct {
	Text   string
	Anchor string
	Level  int
}

type RelatedLink struct {
	ID      string
	Title   string
	Summary string
	URL     string
}

type ReferenceItem struct {
	Marker string
	Text   string
	URL    string
}

type CategoryLink struct {
	Name string
	URL  string
}

// Document is the renderable form of one article: the ordered block tree
// plus the derived table of contents, see-also list and trailer sections.
// Empty sections stay empty; the templates gate on length.
type Document struct {
	Title      string
	Blocks     []Block
	TOC        []TOCEntry
	SeeAlso    []RelatedLink
	References []ReferenceItem
	Categories []CategoryLink
}

// DocumentRenderer turns articles into Documents. It holds only read-only
// collaborators, so rendering is pure: the same article always produces a
// structurally identical Document.
type DocumentRenderer struct {
	inline *InlineRenderer
	st     *store.Store
}

func NewDocumentRenderer(st *store.Store) *DocumentRenderer {
	return &DocumentRenderer{
		inline: NewInlineRenderer(),
		st:     st,
	}
}

func (r *DocumentRenderer) Render(a content.Article) Document {
	doc := Document{Title: a.Title}

	for _, cb := range a.Content {
		switch cb.Type {
		case content.BlockParagraph:
			doc.Blocks = append(doc.Blocks, Block{
				Kind: KindParagraph,
				Text: cb.Text,
				HTML: r.inline.Render(cb.Text),
			})

		case content.BlockHeading:
			level := ClampHeadingLevel(cb.Level)
			anchor := Anchor(cb.Text)
			doc.Blocks = append(doc.Blocks, Block{
				Kind:   KindHeading,
				Text:   cb.Text,
				Level:  level,
				Anchor: anchor,
			})
			doc.TOC = append(doc.TOC, TOCEntry{
				Text:   cb.Text,
				Anchor: anchor,
				Level:  level,
			})

		case content.BlockList:
			items := make([]ListItem, 0, len(cb.Items))
			for _, it := range cb.Items {
				items = append(items, ListItem{Text: it, HTML: r.inline.Render(it)})
			}
			doc.Blocks = append(doc.Blocks, Block{Kind: KindList, Items: items})

		case content.BlockImage:
			if cb.Src == "" {
				continue
			}
			doc.Blocks = append(doc.Blocks, Block{
				Kind:    KindImage,
				Src:     cb.Src,
				Alt:     cb.Alt,
				Caption: cb.Caption,
			})

		case content.BlockInfobox, content.BlockTable:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  KindInfobox,
				Title: a.Title,
				Rows:  infoboxRows(cb.Data),
			})

		default:
			// unknown block types are ignored, never fatal
		}
	}

	for _, rel := range r.st.Related(a.ID) {
		doc.SeeAlso = append(doc.SeeAlso, RelatedLink{
			ID:      rel.ID,
			Title:   rel.Title,
			Summary: rel.Summary,
			URL:     site.ArticlePath(rel.ID),
		})
	}

	for _, ref := range a.References {
		doc.References = append(doc.References, ReferenceItem{
			Marker: ref.ID,
			Text:   ref.Text,
			URL:    ref.URL,
		})
	}

	for _, c := range a.Categories {
		if strings.TrimSpace(c) == "" {
			continue
		}
		doc.Categories = append(doc.Categories, CategoryLink{
			Name: c,
			URL:  CategoryURL(c),
		})
	}

	return doc
}

// infoboxRows flattens the key/value panel data with keys sorted, so that
// rendering the same article twice yields the same row order.
func infoboxRows(data map[string]string) []InfoboxRow {
	if len(data) == 0 {
		return nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]InfoboxRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, InfoboxRow{Key: k, Value: data[k]})
	}
	return rows
}
