package buildcmd

import (
	"errors"

	"github.com/goliatone/go-sitejson/internal/commands"
	"github.com/goliatone/go-sitejson/internal/generator"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// RegisterBuildCommand builds the build handler and registers it with reg when
// one is supplied.
func RegisterBuildCommand(reg CommandRegistry, service generator.Service, provider interfaces.LoggerProvider, opts ...commands.HandlerOption[BuildCommand]) (*BuildHandler, error) {
	if service == nil {
		return nil, errors.New("build command registration: service is nil")
	}

	handler := NewBuildHandler(service, commands.CommandLogger(provider, "build"), opts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
