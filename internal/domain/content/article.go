package content

import "strings"

type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockList      BlockType = "list"
	BlockImage     BlockType = "image"
	BlockInfobox   BlockType = "infobox"
	BlockTable     BlockType = "table"
)

// ContentBlock is one entry of an article body. Which fields are meaningful
// depends on Type; everything except Type is optional at the JSON level and
// consumers fall back to zero values.
type ContentBlock struct {
	Type    BlockType         `json:"type"`
	Level   int               `json:"level,omitempty"`
	Text    string            `json:"text,omitempty"`
	Items   []string          `json:"items,omitempty"`
	Src     string            `json:"src,omitempty"`
	Alt     string            `json:"alt,omitempty"`
	Caption string            `json:"caption,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

type Reference struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// Article is one catalog entry. The catalog is loaded once at startup and
// never mutated afterwards; everything downstream holds read-only views.
type Article struct {
	ID              string         `json:"id" validate:"required"`
	Title           string         `json:"title" validate:"required"`
	Summary         string         `json:"summary" validate:"required"`
	Content         []ContentBlock `json:"content"`
	Categories      []string       `json:"categories"`
	References      []Reference    `json:"references"`
	RelatedArticles []string       `json:"relatedArticles"`
	LastModified    string         `json:"lastModified" validate:"required"`
}

func (a *Article) Normalize() {
	a.ID = strings.TrimSpace(a.ID)
	a.Title = strings.TrimSpace(a.Title)
	a.LastModified = strings.TrimSpace(a.LastModified)
}

// Paragraphs returns the paragraph-type blocks in document order.
func (a Article) Paragraphs() []ContentBlock {
	var out []ContentBlock
	for _, b := range a.Content {
		if b.Type == BlockParagraph {
			out = append(out, b)
		}
	}
	return out
}

// Headings returns the heading-type blocks in document order.
func (a Article) Headings() []ContentBlock {
	var out []ContentBlock
	for _, b := range a.Content {
		if b.Type == BlockHeading {
			out = append(out, b)
		}
	}
	return out
}
