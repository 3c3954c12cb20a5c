package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Upload pending offline entries to the server",
	Long: `Attempt to upload every queued entry in capture order. Entries that
fail to upload stay queued and are retried on the next flush.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		q := mustOpenQueue(cfg, nil)
		s := newSyncer(cfg, q, nil)

		before := q.Len()
		if before == 0 {
			fmt.Println("Nothing pending.")
			return
		}

		if err := s.FlushPending(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing queue: %v\n", err)
			os.Exit(1)
		}

		remaining := q.Len()
		fmt.Printf("Uploaded %d of %d pending item(s)\n", before-remaining, before)
		if remaining > 0 {
			fmt.Printf("%d item(s) still pending; they will be retried later\n", remaining)
		}
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List entries waiting to be uploaded",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		q := mustOpenQueue(cfg, nil)

		items := q.Pending()
		if len(items) == 0 {
			fmt.Println("Nothing pending.")
			return
		}
		for _, it := range items {
			fmt.Printf("%s  %-11s %s\n", it.QueuedAt.Format("2006-01-02 15:04"), it.Type, it.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(pendingCmd)
}
