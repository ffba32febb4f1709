package cmd

import (
	"os"
	"strings"

	"binobj/bench"
	"binobj/cli"
	"binobj/config"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	flagTransport   = "transport"
	flagSequence    = "sequence"
	flagIterations  = "iterations"
	flagStringLen   = "string-len"
	flagConcurrency = "concurrency"
	flagRateLimit   = "rate-limit"
	flagSeed        = "seed"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmarks round trips against a running binobjd.",
	Long: `Benchmarks round trips against a running binobjd. --transport takes a
comma-separated list of json, buf, cbor, grpc and inproc, or "all".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transportList, _ := cmd.Flags().GetString(flagTransport)
		names := strings.Split(transportList, ",")
		if transportList == "all" {
			names = bench.TransportNames
		}

		tOpts := &bench.TransportOpts{
			HTTPURL: cli.HTTPURL(cmd),
			RPCAddr: cli.RPCAddr(cmd),
			Codec:   cli.Codec(cmd),
		}
		var transports []bench.Transport
		for _, name := range names {
			t, err := bench.NewTransport(strings.TrimSpace(name), tOpts)
			if err != nil {
				return err
			}
			defer t.Close()
			transports = append(transports, t)
		}

		opts := &bench.Options{}
		opts.Sequence, _ = cmd.Flags().GetIntSlice(flagSequence)
		opts.Iterations, _ = cmd.Flags().GetInt(flagIterations)
		opts.StringLen, _ = cmd.Flags().GetInt(flagStringLen)
		opts.Concurrency, _ = cmd.Flags().GetInt(flagConcurrency)
		opts.RateLimit, _ = cmd.Flags().GetFloat64(flagRateLimit)
		opts.Seed, _ = cmd.Flags().GetInt64(flagSeed)

		report, err := bench.NewRunner(opts).Run(cmd.Context(), transports...)
		if err != nil {
			return errors.Wrap(err, "benchmark failed")
		}

		format, _ := cmd.Flags().GetString(cli.FlagFormat)
		if format == cli.FormatJSON {
			return printJSON(report)
		}
		report.Render(os.Stdout)
		return nil
	},
}

func init() {
	def := config.DefaultConfig.Bench
	benchCmd.Flags().String(flagTransport, def.Transport, "Transports to benchmark.")
	benchCmd.Flags().IntSlice(flagSequence, def.Sequence, "Batch sizes to run.")
	benchCmd.Flags().Int(flagIterations, def.Iterations, "Repetitions of each batch size.")
	benchCmd.Flags().Int(flagStringLen, def.StringLen, "Length of generated names.")
	benchCmd.Flags().Int(flagConcurrency, def.Concurrency, "Round trips in flight at once.")
	benchCmd.Flags().Float64(flagRateLimit, float64(def.RateLimit), "Maximum round trips per second. 0 is unlimited.")
	benchCmd.Flags().Int64(flagSeed, 0, "Seed for generated users. 0 picks one from the clock.")
	rootCmd.AddCommand(benchCmd)
}
