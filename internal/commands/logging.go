package commands

import (
	"strings"

	"github.com/goliatone/go-sitejson/internal/logging"
	"github.com/goliatone/go-sitejson/pkg/interfaces"
)

const commandModuleRoot = "sitejson.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriching it with
// the component and module fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
