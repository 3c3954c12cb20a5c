package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daybook-io/daybook/internal/journal"
	"github.com/daybook-io/daybook/internal/queue"
)

var (
	addTitle    string
	addType     string
	addAudio    string
	addImage    string
	addDuration int
)

var addCmd = &cobra.Command{
	Use:   "add [content...]",
	Short: "Capture a journal entry (works offline)",
	Long: `Capture a new journal entry into the pending queue.

The entry is persisted locally before the command returns and uploaded on
the next flush. This never touches the network.`,
	Run: func(cmd *cobra.Command, args []string) {
		content := strings.Join(args, " ")
		if content == "" && addAudio == "" && addImage == "" {
			fmt.Fprintln(os.Stderr, "Error: entry content (or --audio/--image) is required")
			os.Exit(1)
		}

		typ := journal.EntryType(addType)
		switch typ {
		case "", journal.TypeText, journal.TypeVoice, journal.TypePhoto, journal.TypeHandwriting:
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown entry type %q\n", addType)
			os.Exit(1)
		}

		title := addTitle
		if title == "" {
			title = time.Now().Format("15:04")
		}

		cfg := mustLoadConfig()
		q := mustOpenQueue(cfg, nil)

		item, err := q.Enqueue(queue.PendingItem{
			LocalID:   uuid.NewString(),
			Content:   content,
			Type:      typ,
			Title:     title,
			AudioPath: addAudio,
			ImagePath: addImage,
			Duration:  addDuration,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error queuing entry: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Queued %s (%s), %d item(s) pending upload\n", item.Title, item.Type, q.Len())
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "entry title (defaults to current time of day)")
	addCmd.Flags().StringVar(&addType, "type", "text", "entry type: text, voice, photo, handwriting")
	addCmd.Flags().StringVar(&addAudio, "audio", "", "path to an audio recording for voice entries")
	addCmd.Flags().StringVar(&addImage, "image", "", "path to an image for photo/handwriting entries")
	addCmd.Flags().IntVar(&addDuration, "duration", 0, "audio duration in seconds")
	rootCmd.AddCommand(addCmd)
}
