package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook-io/daybook/internal/journal"
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Print the entries of a local day file",
	Args:  cobra.MaximumNArgs(1),
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
		path := journal.DayPath(cfg.JournalsDir, date)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			fmt.Printf("No journal for %s\n", date)
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			os.Exit(1)
		}

		day, err := journal.Parse(string(data), date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s: %d entr%s\n", date, len(day.Entries), plural(len(day.Entries)))
		for _, e := range day.Entries {
			if e.ID == journal.PreambleID {
				fmt.Printf("\n%s\n", e.Content)
				continue
			}
			m := day.MetadataFor(e.ID)
			fmt.Printf("\n%s (%s)\n%s\n", e.Title, m.Type, e.Content)
		}
	},
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	rootCmd.AddCommand(showCmd)
}
