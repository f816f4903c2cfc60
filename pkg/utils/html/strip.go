// ABOUTME: HTML utilities for stripping tags from snippets and descriptions
// ABOUTME: Uses the x/net tokenizer so entities and malformed markup are handled properly

package html

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// StripTags removes markup from an HTML fragment and returns the text
// content with collapsed whitespace. Script and style bodies are dropped.
func StripTags(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case xhtml.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case xhtml.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(string(name)) {
				skipDepth++
			}
		case xhtml.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case xhtml.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// isSkipped reports whether a tag's text content should be dropped
func isSkipped(tag string) bool {
	return tag == "script" || tag == "style"
}
