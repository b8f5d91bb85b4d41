package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandCosts   CommandType = "costs"
	CommandStock   CommandType = "stock"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"costs":   CommandCosts,
	"custos":  CommandCosts,
	"stock":   CommandStock,
	"estoque": CommandStock,
	"help":    CommandHelp,
	"ajuda":   CommandHelp,
}

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from a free-form text message. Only messages
// starting with a slash are commands.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	if !strings.HasPrefix(normalized, "/") {
		return cmd
	}

	tokens := strings.Fields(normalized)
	if t, ok := commandAliases[strings.TrimPrefix(tokens[0], "/")]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
