package config

// Config is the run configuration assembled by the CLI.
type Config struct {
	InputPath    string
	OutputPath   string
	DumpPath     string
	Workers      int
	ShowStats    bool
	BuildVersion string
	Settings     Settings
}
