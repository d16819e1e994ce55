package global

// Set by -ldflags at release build time.
var (
	Version   = "0.0.1"
	BuildTime = "none"
)

// Verbose is toggled by the --verbose persistent flag.
var Verbose = false
