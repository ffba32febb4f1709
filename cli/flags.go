package cli

const (
	FlagHome     = "home"
	FlagFormat   = "format"
	FlagHTTPHost = "http-host"
	FlagHTTPPort = "http-port"
	FlagRPCHost  = "rpc-host"
	FlagRPCPort  = "rpc-port"
	FlagTagged   = "tagged"

	FormatText = "text"
	FormatJSON = "json"
)
