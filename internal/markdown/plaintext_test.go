package markdown

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlainText(t *testing.T) {
	html := `<h1 id="x">Hello &amp; welcome</h1>
<p>First   line<br>second <em>line</em></p>
<script>alert("x")</script>
<ul><li>one</li><li>two</li></ul>`

	got := PlainText([]byte(html))
	want := "Hello & welcome\nFirst line\nsecond line\none\ntwo"
	if got != want {
		t.Fatalf("PlainText mismatch\nwant %q\ngot  %q", want, got)
	}
}

func TestTruncate(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		text := strings.Repeat("a", 260)
		if got := Truncate(text, 260); got != text {
			t.Fatalf("expected text within the limit to be unchanged")
		}
	})

	t.Run("cut on boundary", func(t *testing.T) {
		text := strings.Repeat("lorem ipsum ", 30)
		got := Truncate(text, 260)
		if utf8.RuneCountInString(got) != 260 {
			t.Fatalf("expected 260 runes, got %d", utf8.RuneCountInString(got))
		}
		if !strings.HasSuffix(got, "lorem...") {
			t.Fatalf("expected cut before the next separator, got %q", got[len(got)-20:])
		}
	})

	t.Run("backs up to the last separator", func(t *testing.T) {
		text := strings.Repeat("abc ", 100)
		got := Truncate(text, 260)
		if len(got) != 258 {
			t.Fatalf("expected 258 chars, got %d", len(got))
		}
		if !strings.HasSuffix(got, " abc...") {
			t.Fatalf("expected whole word before ellipsis, got %q", got[len(got)-20:])
		}
	})

	t.Run("clause punctuation", func(t *testing.T) {
		text := "One, two. " + strings.Repeat("x", 300)
		got := Truncate(text, 20)
		if got != "One, two..." {
			t.Fatalf("expected cut at the sentence boundary, got %q", got)
		}
	})

	t.Run("multibyte", func(t *testing.T) {
		text := strings.Repeat("é", 300)
		got := Truncate(text, 260)
		if utf8.RuneCountInString(got) != 260 || !strings.HasSuffix(got, Ellipsis) {
			t.Fatalf("expected 260 runes ending with ellipsis, got %d", utf8.RuneCountInString(got))
		}
	})
}
