package buildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitejson/internal/generator"
)

const buildMessageType = "sitejson.build"

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler, also when the build failed part way.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build command.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildCommand runs the pipeline over Roots.
type BuildCommand struct {
	Roots          []string       `json:"roots"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildCommand) Type() string { return buildMessageType }

// Validate requires at least one non-empty root.
func (m BuildCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Roots, validation.Required, validation.Each(validation.By(nonBlank))),
	)
}

func nonBlank(value any) error {
	root, _ := value.(string)
	if strings.TrimSpace(root) == "" {
		return validation.NewError("sitejson.build.root_invalid", "roots must not contain empty values")
	}
	return nil
}
