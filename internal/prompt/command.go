package prompt

// Command identifies a CLI operation.
type Command string

const (
	// CommandAdd saves a modified prompt into the versions directory.
	CommandAdd Command = "add"
	// CommandUse loads a stored revision as the working prompt.
	CommandUse Command = "use"
	// CommandStatus reports whether prompts changed since their latest revision.
	CommandStatus Command = "status"
	// CommandInit creates the settings file and versioning directories.
	CommandInit Command = "init"
	// CommandLog lists the revisions of a prompt.
	CommandLog Command = "log"
	// CommandMCP serves the operations over the Model Context Protocol.
	CommandMCP Command = "mcp"
)

// Commands returns every command in display order.
func Commands() []Command {
	return []Command{CommandInit, CommandStatus, CommandAdd, CommandUse, CommandLog, CommandMCP}
}

func (c Command) String() string {
	return string(c)
}
