package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docustack/retriever/internal/chunker"
	"github.com/docustack/retriever/internal/ingest"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Remove a document's chunks from the vector index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	svc := ingest.NewService(chunker.Default(), a.embedder, a.index)
	deleted, err := svc.DeleteDocument(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d chunk(s) for document %s\n", deleted, args[0])
	return nil
}
