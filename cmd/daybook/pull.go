package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull [date]",
	Short: "Merge the server copy of a day into the local journal",
	Long: `Fetch the server's entries for a date and merge them with the local
day file. Conflicting entries keep the local version; conflict IDs are
reported so nothing is silently discarded.

The date may be YYYY-MM-DD or a phrase like "yesterday". Defaults to today.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		date, err := resolveDate(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cfg := mustLoadConfig()
		q := mustOpenQueue(cfg, nil)
		s := newSyncer(cfg, q, nil)

		res, err := s.MergeAndPersist(context.Background(), date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pulling %s: %v\n", date, err)
			os.Exit(1)
		}

		fmt.Printf("Merged %s: %d local-only, %d server-only\n", date, res.LocalOnly, res.ServerOnly)
		if len(res.ConflictEntryIDs) > 0 {
			fmt.Printf("Conflicts resolved in favor of this device: %s\n",
				strings.Join(res.ConflictEntryIDs, ", "))
		}
		if res.NeedsPush {
			fmt.Println("Local changes are ahead of the server; they will sync on the next flush.")
		}
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
