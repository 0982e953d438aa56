package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List uploaded documents",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		listDocuments(cmd)
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete an uploaded document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteDocument(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)

	documentsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func listDocuments(cmd *cobra.Command) {
	env := mustEnvironment()
	env.requireLogin()

	docs, err := env.client.Documents(cmd.Context())
	if err != nil {
		env.fatal("getting documents", err)
	}

	for _, doc := range docs {
		env.logger.Info("document",
			zap.Int64("document_id", doc.ID),
			zap.String("file_name", doc.Name()),
			zap.String("document_type", doc.Kind()),
			zap.String("status", doc.ProcessingStatus),
			zap.String("created_at", doc.CreatedAt),
		)
	}

	env.logger.Info("documents", zap.Int("count", len(docs)))
}

func deleteDocument(cmd *cobra.Command, arg string) {
	env := mustEnvironment()
	env.requireLogin()

	id, err := parseID(arg)
	if err != nil {
		env.logger.Fatal("parsing the document id", zap.Error(err))
	}

	ok, err := confirm(fmt.Sprintf("Delete document %d?", id), flagBool(cmd, "yes"))
	if err != nil {
		env.logger.Fatal("exiting", zap.Error(err))
	}
	if !ok {
		env.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	if err := env.client.DeleteDocument(cmd.Context(), id); err != nil {
		env.fatal("deleting the document", err)
	}

	env.logger.Info("document deleted", zap.Int64("document_id", id))
}
