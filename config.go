package sitejson

import (
	"github.com/goliatone/go-sitejson/internal/document"
	"github.com/goliatone/go-sitejson/internal/generator"
	"github.com/goliatone/go-sitejson/internal/jsonapi"
	"github.com/goliatone/go-sitejson/internal/navigation"
	"github.com/goliatone/go-sitejson/internal/runtimeconfig"
)

var (
	ErrCollectionsDeprecated   = runtimeconfig.ErrCollectionsDeprecated
	ErrPaginateRequiresCollate = runtimeconfig.ErrPaginateRequiresCollate
	ErrPageSizeInvalid         = runtimeconfig.ErrPageSizeInvalid
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrDuplicateID             = generator.ErrDuplicateID
	ErrInvalidID               = document.ErrInvalidID
)

type (
	Config        = runtimeconfig.Config
	LoggingConfig = runtimeconfig.LoggingConfig
	Relationship  = jsonapi.Relationship
	BuildResult   = generator.BuildResult
	RootResult    = generator.RootResult

	Document              = document.Document
	NavigationTree        = navigation.Tree
	NavigationNode        = navigation.Node
	NavigationBuilder     = navigation.Builder
	NavigationBuilderFunc = navigation.BuilderFunc
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ParseReferences converts the loose references form of configuration files.
func ParseReferences(raw any) ([]Relationship, error) {
	return runtimeconfig.ParseReferences(raw)
}
