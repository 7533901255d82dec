// Package failures classifies build errors into the configuration, parse, io
// and conflict categories surfaced by the public API.
package failures

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CategoryConfiguration goerrors.Category = "configuration"
	CategoryParse         goerrors.Category = "parse"
	CategoryIO            goerrors.Category = "io"
	CategoryConflict      goerrors.Category = goerrors.CategoryConflict
)

const (
	codeConfiguration = "SITEJSON_CONFIGURATION_INVALID"
	codeParse         = "SITEJSON_PARSE_FAILED"
	codeIO            = "SITEJSON_IO_FAILED"
	codeConflict      = "SITEJSON_OUTPUT_CONFLICT"
)

// Configuration reports an invalid option. It is raised before any input is read.
func Configuration(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), CategoryConfiguration).
		WithTextCode(codeConfiguration)
}

// WrapConfiguration tags err as a configuration failure, keeping it reachable
// through errors.Is.
func WrapConfiguration(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, CategoryConfiguration) {
		return err
	}
	return goerrors.Wrap(err, CategoryConfiguration, message).
		WithTextCode(codeConfiguration)
}

// Parse wraps a malformed front matter or navigation tree error for path.
func Parse(err error, path string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, CategoryParse) {
		return err
	}
	return goerrors.Wrap(err, CategoryParse, fmt.Sprintf("parse %s", path)).
		WithTextCode(codeParse).
		WithMetadata(map[string]any{"path": path})
}

// IO wraps a filesystem failure for path.
func IO(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, CategoryIO) {
		return err
	}
	return goerrors.Wrap(err, CategoryIO, fmt.Sprintf("%s %s", op, path)).
		WithTextCode(codeIO).
		WithMetadata(map[string]any{"path": path, "operation": op})
}

// Conflict wraps err (typically a sentinel) as an output conflict.
func Conflict(err error, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, CategoryConflict, message).
		WithTextCode(codeConflict)
}

func IsConfiguration(err error) bool { return hasCategory(err, CategoryConfiguration) }

func IsParse(err error) bool { return hasCategory(err, CategoryParse) }

func IsIO(err error) bool { return hasCategory(err, CategoryIO) }

func IsConflict(err error) bool { return hasCategory(err, CategoryConflict) }

func hasCategory(err error, category goerrors.Category) bool {
	for err != nil {
		if goerrors.IsCategory(err, category) {
			return true
		}
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, inner := range joined.Unwrap() {
				if hasCategory(inner, category) {
					return true
				}
			}
			return false
		}
		err = errors.Unwrap(err)
	}
	return false
}
