package interfaces

import "time"

// MarkdownParser defines how raw Markdown bytes are converted into HTML and a
// heading outline. Implementations must be safe for reuse across documents.
type MarkdownParser interface {
	// Parse renders Markdown using the settings the parser was built with.
	Parse(markdown []byte) (*Rendered, error)
}

// ParseOptions customises Markdown rendering. Options apply to a whole build,
// never to a single document.
type ParseOptions struct {
	Extensions     []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
	HardWraps      bool     `json:"hard_wraps" yaml:"hard_wraps" mapstructure:"hard_wraps"`
	SafeMode       bool     `json:"safe_mode" yaml:"safe_mode" mapstructure:"safe_mode"`
	HeaderIDPrefix string   `json:"header_id_prefix" yaml:"header_id_prefix" mapstructure:"header_id_prefix"`
}

// Rendered is the output of a single Markdown conversion.
type Rendered struct {
	HTML     []byte
	Headings []Heading
}

// Heading is one entry of a document outline. Depth is the heading level
// rendered as a string ("1" through "6").
type Heading struct {
	Text  string `json:"text"`
	Depth string `json:"depth"`
	ID    string `json:"id"`
}

// RawFile is a discovered source file, relative to its input root.
type RawFile struct {
	Path    string
	Body    []byte
	ModTime time.Time
}
