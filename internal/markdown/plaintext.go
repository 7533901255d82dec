package markdown

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// blockElements start a new line in the plain text rendition.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

// PlainText strips markup from rendered HTML. Entities are decoded, runs of
// whitespace collapse to one space and block elements become line breaks.
func PlainText(source []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(source))
	var b strings.Builder
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}
		}
	}
}

func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Truncate shortens text to at most limit runes including the ellipsis.
// When the text is cut, the cut moves back to the last clause boundary
// (an optional comma and dots followed by spaces) if one exists.
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	end := limit - utf8.RuneCountInString(Ellipsis)
	if end < 1 {
		return Ellipsis
	}

	runes := []rune(text)
	head := string(runes[:end])
	rest := string(runes[end:])

	if first := boundaryIndex(rest, false); first != 0 {
		if last := boundaryIndex(head, true); last > 0 {
			head = head[:last]
		}
	}
	return head + Ellipsis
}

// boundaryIndex returns the byte offset of the first (or last) match of
// `,?\.* +` in s, or -1.
func boundaryIndex(s string, last bool) int {
	found := -1
	for i := 0; i < len(s); {
		if n := boundaryLen(s[i:]); n > 0 {
			if !last {
				return i
			}
			found = i
			i += n
			continue
		}
		i++
	}
	return found
}

func boundaryLen(s string) int {
	i := 0
	if i < len(s) && s[i] == ',' {
		i++
	}
	for i < len(s) && s[i] == '.' {
		i++
	}
	spaces := 0
	for i < len(s) && s[i] == ' ' {
		i++
		spaces++
	}
	if spaces == 0 {
		return 0
	}
	return i
}
