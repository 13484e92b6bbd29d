package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

var (
	askUser    string
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your ingested document",
	Long: `Retrieves the chunks most relevant to the question and streams
an answer grounded in them. The answer cites only the stored document.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "", "user whose document to query (required)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print source chunks before the answer")
	_ = askCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	refs, tokens, errs, err := answerService.Ask(ctx, askUser, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNoRelevantDocuments) {
			return errors.New("no document found for this user; run 'docchat ingest' first")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askSources {
		cmd.Println("Sources:")
		for _, ref := range refs {
			cmd.Printf("  [%d] %s (page %d)\n", ref.ID, ref.Source, ref.Page)
		}
		cmd.Println()
	}

	// Tokens print as they arrive; the stream ends when the channel
	// closes or the generation fails.
	for tokens != nil || errs != nil {
		select {
		case token, ok := <-tokens:
			if !ok {
				tokens = nil
				continue
			}
			cmd.Print(token)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				cmd.Println()
				return fmt.Errorf("generation failed: %w", err)
			}
		}
	}
	cmd.Println()

	return nil
}
