package tools

// Names of the tools exposed to the agent. Only read_file is implemented
// here; the others are collaborators provided by the host framework and
// referenced in tool descriptions to redirect the agent.
const (
	ToolNameReadFile    = "read_file"
	ToolNameListDir     = "list_dir"
	ToolNameSearchFiles = "search_files"
	ToolNameShell       = "shell"
)
