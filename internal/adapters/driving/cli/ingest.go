package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ingestUser string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the vector store",
	Long: `Loads a PDF or text file, splits it into chunks, embeds each chunk,
and stores the result. Any previously ingested document for the same
user is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestUser, "user", "u", "", "user the document belongs to (required)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "emit progress as JSON lines")
	_ = ingestCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	events := ingestService.Ingest(ctx, ingestUser, args[0])

	for event := range events {
		if ingestJSON {
			line, err := json.Marshal(event)
			if err != nil {
				return fmt.Errorf("encode progress event: %w", err)
			}
			cmd.Println(string(line))
			if event.Err != nil {
				return event.Err
			}
			continue
		}

		switch {
		case event.Err != nil:
			return fmt.Errorf("ingestion failed: %w", event.Err)
		case event.Success:
			cmd.Printf("Done. %d chunks stored. %s\n", event.TotalPages, event.Message)
		default:
			cmd.Printf("\r%3d%% (%d/%d)", event.Progress, event.CurrentPage, event.TotalPages)
			if event.CurrentPage == event.TotalPages {
				cmd.Println()
			}
		}
	}

	return nil
}
