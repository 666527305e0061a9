package readingtime

import "strings"

// DefaultWordsPerMinute is the reading speed used when no rate is given.
const DefaultWordsPerMinute = 200

// Node is one node of a structured rich-text document: an optional text
// leaf plus an ordered list of child nodes.
type Node struct {
	Type    string `json:"type,omitempty" bson:"type,omitempty"`
	Text    string `json:"text,omitempty" bson:"text,omitempty"`
	Content []Node `json:"content,omitempty" bson:"content,omitempty"`
}

// PlainText concatenates all text leaves of the document in order,
// separated by whitespace, and trims the result.
func PlainText(doc *Node) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	collect(doc, &b)
	return strings.TrimSpace(b.String())
}

func collect(n *Node, b *strings.Builder) {
	if n.Text != "" {
		b.WriteString(n.Text)
		b.WriteString(" ")
	}
	for i := range n.Content {
		collect(&n.Content[i], b)
	}
}

// Estimate returns the reading time of text in whole minutes, never less
// than one. A non-positive wordsPerMinute falls back to the default rate.
func Estimate(text string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// FromDocument estimates the reading time of a structured document at the
// default rate.
func FromDocument(doc *Node) int {
	return Estimate(PlainText(doc), DefaultWordsPerMinute)
}
