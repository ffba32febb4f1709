package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"binobj/api"
	"binobj/config"
	"binobj/log"
	"binobj/record"
	"binobj/rpc"
	"binobj/store"
	"binobj/util"
	"binobj/version"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
)

const shutdownTimeout = 10 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the daemon.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ReadConfigFile(configuredHomeDir)
		if err != nil {
			return errors.Wrap(err, "error reading config file")
		}
		logLevel, err := log.NewLevel(cfg.LogLevel)
		if err != nil {
			return errors.Wrap(err, "error parsing log level")
		}
		log.SetLevel(logLevel)
		if err := log.SetOutput(os.Stderr, cfg.LogFormat); err != nil {
			return errors.Wrap(err, "error configuring log output")
		}
		lgr := log.WithModule("main")
		lgr.Info("starting binobjd", "version", version.String())

		codec, err := cfg.Codec.Codec()
		if err != nil {
			return errors.Wrap(err, "error parsing codec config")
		}

		var db *leveldb.DB
		if cfg.Store.Enabled {
			dbPath := config.ExpandDBPath(configuredHomeDir)
			lgr.Info("opening db", "path", dbPath)
			db, err = store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := store.EnsureSchema(db, "user", codec.Fingerprint(record.UserSchema())); err != nil {
				return errors.Wrap(err, "error checking stored schema")
			}
		}

		userLocker := util.NewMultiLocker[string]()
		httpSrv, err := api.NewServer(&api.Opts{
			Host:         cfg.HTTP.Host,
			Port:         cfg.HTTP.Port,
			DB:           db,
			Codec:        codec,
			MaxBodyBytes: int64(cfg.HTTP.MaxBodyBytes),
			ReadTimeout:  config.ConvertDuration(cfg.HTTP.ReadTimeoutMS, time.Millisecond),
			WriteTimeout: config.ConvertDuration(cfg.HTTP.WriteTimeoutMS, time.Millisecond),
			CORSOrigins:  cfg.HTTP.CORSOrigins,
			UserLocker:   userLocker,
		})
		if err != nil {
			return errors.Wrap(err, "error creating HTTP server")
		}
		rpcSrv := rpc.NewServer(&rpc.Opts{
			DB:         db,
			Codec:      codec,
			UserLocker: userLocker,
			Host:       cfg.RPC.Host,
			Port:       cfg.RPC.Port,
		})

		if err := httpSrv.Start(); err != nil {
			return err
		}
		if err := rpcSrv.Start(); err != nil {
			return err
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigs
		lgr.Info("shutting down", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Stop(ctx); err != nil {
			lgr.Error("error stopping HTTP server", "err", err)
		}
		if err := rpcSrv.Stop(); err != nil {
			lgr.Error("error stopping RPC server", "err", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
