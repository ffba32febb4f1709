package cli

import (
	"net"
	"strconv"

	"binobj/api"
	"binobj/bwire"
	"binobj/rpc"

	"github.com/spf13/cobra"
)

// Codec builds the wire codec selected by the command's flags.
func Codec(cmd *cobra.Command) *bwire.ConfiguredCodec {
	c := bwire.DefaultCodec()
	c.Tagged, _ = cmd.Flags().GetBool(FlagTagged)
	return &c
}

func RPCAddr(cmd *cobra.Command) string {
	rpcHost, _ := cmd.Flags().GetString(FlagRPCHost)
	rpcPort, _ := cmd.Flags().GetInt(FlagRPCPort)
	return net.JoinHostPort(rpcHost, strconv.Itoa(rpcPort))
}

func HTTPURL(cmd *cobra.Command) string {
	httpHost, _ := cmd.Flags().GetString(FlagHTTPHost)
	httpPort, _ := cmd.Flags().GetInt(FlagHTTPPort)
	return "http://" + net.JoinHostPort(httpHost, strconv.Itoa(httpPort))
}

func DialRPC(cmd *cobra.Command) (*rpc.Client, error) {
	return rpc.Dial(RPCAddr(cmd), Codec(cmd))
}

func DialHTTP(cmd *cobra.Command) (*api.Client, error) {
	return api.NewClient(HTTPURL(cmd), nil, Codec(cmd))
}
