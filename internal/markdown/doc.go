// Package markdown reads Markdown sources with optional front matter and
// renders them into HTML plus a heading outline. Discovery runs on an
// afero filesystem so builds and tests share the same code path.
package markdown
