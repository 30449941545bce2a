// Package exitcode provides standardized exit codes for assetpipe
package exitcode

// Exit codes for the assetpipe CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	BuildError      = 3
	FileSystemError = 4
	NetworkError    = 5
	NotFound        = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case BuildError:
		return "Build error"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	case NotFound:
		return "Not found"
	default:
		return "Unknown error"
	}
}
