// Package version holds build and protocol version information.
package version

// Version is set at build time with -ldflags "-X .../pkg/version.Version=...".
var Version = "dev"

// ProtocolVersion is the MCP revision offered when the client asks for one
// this server does not know.
const ProtocolVersion = "2025-06-18"

var SupportedProtocolVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}

const ServerName = "qed-ssg"
