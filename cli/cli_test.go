package cli

import (
	"path/filepath"
	"testing"

	"binobj/config"
	"binobj/testutil/testfs"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(FlagHome, "~/.binobj", "")
	cmd.Flags().String(FlagHTTPHost, "127.0.0.1", "")
	cmd.Flags().Int(FlagHTTPPort, 3000, "")
	cmd.Flags().String(FlagRPCHost, "127.0.0.1", "")
	cmd.Flags().Int(FlagRPCPort, 3001, "")
	cmd.Flags().Bool(FlagTagged, false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestAddresses(t *testing.T) {
	cmd := newTestCmd(t, "--http-port", "8080", "--rpc-host", "::1", "--tagged")
	require.Equal(t, "http://127.0.0.1:8080", HTTPURL(cmd))
	require.Equal(t, "[::1]:3001", RPCAddr(cmd))
	require.True(t, Codec(cmd).Tagged)
	require.False(t, Codec(newTestCmd(t)).Tagged)
}

func TestInitHomeDir(t *testing.T) {
	dir, done := testfs.NewTempDir(t)
	defer done()
	home := filepath.Join(dir, "home")

	cmd := newTestCmd(t, "--home", home)
	got, err := InitHomeDir(cmd)
	require.NoError(t, err)
	require.Equal(t, home, got)
	require.NoError(t, config.EnsureHomeDir(home))

	_, err = InitHomeDir(cmd)
	require.Error(t, err)
}
