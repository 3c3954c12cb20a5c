package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/daybook-io/daybook/internal/daemon"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the background sync loop",
	Long: `Watch the journals directory and keep it synchronized:

  1. Re-merges a day with the server copy when its file changes (debounced)
  2. Periodically uploads pending offline entries
  3. Reports merge conflicts and needed pushes to the log

Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		var out io.Writer = os.Stderr
		if cfg.LogFile != "" {
			out = &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     30, // days
			}
		}
		logger := log.New(out, "[daemon] ", log.LstdFlags)

		q := mustOpenQueue(cfg, log.New(out, "[queue] ", log.LstdFlags))
		s := newSyncer(cfg, q, log.New(out, "[sync] ", log.LstdFlags))

		dcfg := daemon.DefaultConfig()
		dcfg.FlushInterval = cfg.FlushInterval
		dcfg.DebounceInterval = cfg.DebounceInterval
		dcfg.Logger = logger

		d, err := daemon.NewWithConfig(s, cfg.JournalsDir, dcfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating daemon: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := d.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Daemon error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
