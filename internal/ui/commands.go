package ui

type CommandDef struct {
	Name        string
	Description string
}

var AvailableCommands = []CommandDef{
	{Name: "/voice", Description: "Record a spoken work log (or type v)"},
	{Name: "/help", Description: "Show available commands"},
	{Name: "/exit", Description: "Quit"},
}

func CommandNames() []string {
	names := make([]string, len(AvailableCommands))
	for i, cmd := range AvailableCommands {
		names[i] = cmd.Name
	}
	return names
}
