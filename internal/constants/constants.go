package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "mscan"

	// ConfigFileBase is the base name of configuration files (mscan.yaml, .mscan.yml, ...)
	ConfigFileBase = "mscan"

	// DefaultConfigFileName is the file written by `mscan init`
	DefaultConfigFileName = "mscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "MSCAN"
)

// Fact document extensions
const (
	ExtensionJSON = ".json"
	ExtensionYAML = ".yaml"
	ExtensionYML  = ".yml"
)
