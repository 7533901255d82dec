package sitejson

import "github.com/goliatone/go-sitejson/internal/failures"

// IsConfiguration reports whether err is an invalid option raised before any input was read.
func IsConfiguration(err error) bool { return failures.IsConfiguration(err) }

// IsParse reports whether err comes from malformed front matter or a malformed page tree.
func IsParse(err error) bool { return failures.IsParse(err) }

// IsIO reports whether err is a filesystem failure.
func IsIO(err error) bool { return failures.IsIO(err) }

// IsConflict reports whether err is an output collision such as ErrDuplicateID.
func IsConflict(err error) bool { return failures.IsConflict(err) }
