/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"knowledge-rag-be/repository"
)

// ingestDocumentCmd represents the ingest-document command
var ingestDocumentCmd = &cobra.Command{
	Use:   "ingest-document",
	Short: "Ingest local text files into a knowledge base",
	Long: `Reads one or more text files from disk, splits them into chunks,
embeds them and stores them in the given knowledge base.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		kbID, _ := cmd.Flags().GetString("kb")

		a := mustBuildApp(ctx, cfgFile)

		for _, path := range args {
			record, count, err := a.fileService.IngestLocalFile(ctx, kbID, path)
			if err != nil {
				log.Fatalf("Failed to ingest %s: %v", path, err)
			}
			log.Printf("Ingested %s into %s as %s (%d chunks)", path, kbID, record.ID, count)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestDocumentCmd)
	ingestDocumentCmd.Flags().String("kb", repository.DefaultKnowledgeBaseID, "knowledge base id to ingest into")
}
