package render

import "strings"

// Anchor derives the fragment identifier for a heading: lowercased, with
// every run of whitespace (leading and trailing included) collapsed to a
// single "-". Heading ids and TOC links both go through this one function;
// two call sites with their own copy is how in-page links stop landing.
func Anchor(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "-")
}

const categoryBase = "https://en.wikipedia.org/wiki/Category:"

// CategoryURL maps a category label onto its category-namespace page.
// Whitespace becomes "_" here, not "-": the category path transform and the
// heading anchor transform are different things.
func CategoryURL(name string) string {
	return categoryBase + strings.Join(strings.Fields(name), "_")
}

// ClampHeadingLevel forces a nominal heading level into [1,6]. Zero or
// negative means the author didn't specify one; that is a section heading,
// not a title, so it defaults to 2.
func ClampHeadingLevel(level int) int {
	if level <= 0 {
		return 2
	}
	if level > 6 {
		return 6
	}
	return level
}
