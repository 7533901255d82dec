package markdown

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// headingIDs generates heading anchors for a single document. Anchors are the
// heading text reduced to lowercase letters and digits, prefixed verbatim,
// with "-1", "-2", ... appended to repeats.
type headingIDs struct {
	prefix string
	seen   map[string]int
}

func newHeadingIDs(prefix string) *headingIDs {
	return &headingIDs{prefix: prefix, seen: map[string]int{}}
}

// fallbackHeadingID names headings whose text has no letters or digits.
const fallbackHeadingID = "heading"

func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := HeadingSlug(string(value))
	if base == "" {
		base = fallbackHeadingID
	}
	id := h.prefix + base
	count, ok := h.seen[id]
	if !ok {
		h.seen[id] = 1
		return []byte(id)
	}
	h.seen[id] = count + 1
	return []byte(fmt.Sprintf("%s-%d", id, count))
}

func (h *headingIDs) Put(value []byte) {
	if _, ok := h.seen[string(value)]; !ok {
		h.seen[string(value)] = 1
	}
}

// HeadingSlug converts heading text into an anchor with no separators:
// "Hello, World 2" becomes "helloworld2".
func HeadingSlug(text string) string {
	candidate := text
	if normalized, err := slug.Normalize(text); err == nil && normalized != "" {
		candidate = normalized
	}

	var b strings.Builder
	for _, r := range strings.ToLower(candidate) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collectHeadings walks doc in order and returns every heading with the id
// assigned during parsing.
func collectHeadings(doc ast.Node, source []byte) []interfaces.Heading {
	headings := []interfaces.Heading{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, interfaces.Heading{
			Text:  headingText(heading, source),
			Depth: strconv.Itoa(heading.Level),
			ID:    attributeString(heading, "id"),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func headingText(heading *ast.Heading, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func attributeString(node ast.Node, name string) string {
	value, ok := node.AttributeString(name)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
