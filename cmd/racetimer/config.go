package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose    = "verbose"
	FlagConfig     = "config"
	FlagLogFile    = "log-file"
	FlagStoreFile  = "store-file"
	FlagSocketPath = "socket-path"

	// Run command flags
	FlagTUI         = "tui"
	FlagHeadless    = "headless"
	FlagDetach      = "detach"
	FlagStoreFormat = "store-format"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Output format flags
	FlagJSON = "json"

	// Init command flags
	FlagDryRun = "dry-run"
	FlagForce  = "force"
	FlagGlobal = "global"
)
