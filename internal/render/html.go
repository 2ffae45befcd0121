package render

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the text content of an HTML fragment with tags removed
// and surrounding whitespace trimmed.
func StripTags(fragment string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed fragment; either way the text so far is all there is.
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

// Hrefs returns the href attribute of every element in the fragment, in
// document order.
func Hrefs(fragment string) []string {
	var hrefs []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return hrefs
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					hrefs = append(hrefs, string(val))
				}
			}
		}
	}
}

// TextFields returns the text of every text node of the fragment, so that
// adjacent block elements do not run together.
func TextFields(fragment string) []string {
	var fields []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return fields
		case html.TextToken:
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				fields = append(fields, text)
			}
		}
	}
}
