package cli

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var documentsUser string

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage stored document chunks",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chunks for a user",
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all stored chunks for a user",
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.PersistentFlags().StringVarP(&documentsUser, "user", "u", "", "user whose chunks to manage (required)")
	_ = documentsCmd.MarkPersistentFlagRequired("user")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	chunks, err := chunkStore.ScanAll(context.Background(), documentsUser)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		cmd.Println("No chunks stored.")
		return nil
	}

	for _, chunk := range chunks {
		cmd.Printf("[%d] page %d, %s\n", chunk.ID, chunk.Metadata.Page, chunk.Metadata.Source)
		cmd.Printf("    %s\n", preview(chunk.Content, 80))
	}
	cmd.Printf("\n%d chunks total.\n", len(chunks))
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, _ []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	if err := chunkStore.DeleteAll(context.Background(), documentsUser); err != nil {
		return err
	}
	cmd.Printf("Deleted all chunks for user %s.\n", documentsUser)
	return nil
}

// preview truncates content to at most n runes for display.
func preview(content string, n int) string {
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	runes := []rune(content)
	return string(runes[:n]) + "..."
}
