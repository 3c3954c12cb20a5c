// Command daybook captures journal entries offline and keeps the local
// journals directory in sync with the daybook server.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/daybook-io/daybook/internal/config"
	"github.com/daybook-io/daybook/internal/journal"
	"github.com/daybook-io/daybook/internal/queue"
	"github.com/daybook-io/daybook/internal/syncer"
	"github.com/daybook-io/daybook/internal/transport"
)

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Offline-first journal capture and sync",
	Long: `Daybook keeps one text file per calendar date under the journals
directory and reconciles it with the server copy on pull.

Entries captured while offline go into a durable pending queue and are
uploaded on the next flush; nothing ever blocks on the network.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// mustLoadConfig loads configuration or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustOpenQueue initializes the pending queue or exits.
func mustOpenQueue(cfg *config.Config, logger *log.Logger) *queue.Queue {
	q, err := queue.Initialize(cfg.QueuePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening pending queue: %v\n", err)
		os.Exit(1)
	}
	return q
}

// newSyncer wires the transport, queue, and journals directory together.
func newSyncer(cfg *config.Config, q *queue.Queue, logger *log.Logger) syncer.Syncer {
	if cfg.ServerURL == "" {
		fmt.Fprintln(os.Stderr, "Warning: server.url is not configured; working offline")
	}
	tr := transport.NewHTTPClient(cfg.ServerURL, cfg.ServerToken)
	return syncer.New(tr, q, cfg.JournalsDir, logger)
}

// resolveDate turns a date argument into YYYY-MM-DD. An empty argument
// means today; otherwise the argument may be a literal date or a natural
// phrase like "yesterday" or "last friday".
func resolveDate(arg string) (string, error) {
	if arg == "" {
		return time.Now().Format(journal.DateLayout), nil
	}
	if _, err := time.Parse(journal.DateLayout, arg); err == nil {
		return arg, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(arg, time.Now())
	if err != nil || r == nil {
		return "", fmt.Errorf("cannot understand date %q (want YYYY-MM-DD or a phrase like \"yesterday\")", arg)
	}
	return r.Time.Format(journal.DateLayout), nil
}
