package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearthside/carekb/internal/config"
)

var (
	docsFolder    string
	docsRecursive bool
	docsPrefix    string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the knowledge-base source documents in S3",
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf|directory> [more files...]",
	Short: "Upload PDFs and trigger a knowledge-base sync",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsUpload,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <name.pdf> [more names...]",
	Short: "Delete documents by name and trigger a knowledge-base sync",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsDelete,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List document keys in the bucket",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a knowledge-base ingestion job",
	Args:  cobra.NoArgs,
	RunE:  runDocsSync,
}

func init() {
	docsUploadCmd.Flags().StringVar(&docsFolder, "folder", "", "S3 folder to upload into (default from DEFAULT_S3_FOLDER)")
	docsUploadCmd.Flags().BoolVar(&docsRecursive, "recursive", false, "when uploading a directory, include subdirectories")
	docsListCmd.Flags().StringVar(&docsPrefix, "prefix", "", "only list keys under this prefix")

	docsCmd.AddCommand(docsUploadCmd, docsDeleteCmd, docsListCmd, docsSyncCmd)
	rootCmd.AddCommand(docsCmd)
}

// loadIngestConfig validates the identifiers every docs subcommand needs.
func loadIngestConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateIngest(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadIngestConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSync(); err != nil {
		return err
	}

	logger := newLogger()
	uploader, _, _, _, err := newIngestPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	folder := docsFolder
	if folder == "" {
		folder = cfg.BucketFolder
	}

	// A single directory argument uploads its PDFs; anything else is a
	// list of individual files.
	if len(args) == 1 {
		if info, statErr := os.Stat(args[0]); statErr == nil && info.IsDir() {
			r, err := uploader.UploadFolder(cmd.Context(), args[0], docsRecursive, folder)
			if err != nil {
				return err
			}
			printUploadReport(len(r.Uploaded), len(r.Skipped), r.JobID)
			return nil
		}
	}

	r, err := uploader.UploadFiles(cmd.Context(), args, folder)
	if err != nil {
		return err
	}
	printUploadReport(len(r.Uploaded), len(r.Skipped), r.JobID)
	return nil
}

func printUploadReport(uploaded, skipped int, jobID string) {
	fmt.Printf("Uploaded %d file(s), skipped %d duplicate(s).\n", uploaded, skipped)
	if jobID != "" {
		fmt.Printf("Knowledge-base sync started (job %s).\n", jobID)
	}
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadIngestConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSync(); err != nil {
		return err
	}

	logger := newLogger()
	_, deleter, _, _, err := newIngestPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	report, err := deleter.DeleteDocuments(cmd.Context(), args)
	if err != nil {
		return err
	}

	for _, key := range report.Deleted {
		fmt.Printf("Deleted %s\n", key)
	}
	if report.JobID != "" {
		fmt.Printf("Knowledge-base sync started (job %s).\n", report.JobID)
	}
	return nil
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadIngestConfig()
	if err != nil {
		return err
	}

	logger := newLogger()
	_, _, bucket, _, err := newIngestPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	keys, err := bucket.ListKeys(cmd.Context(), docsPrefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("No documents found.")
		return nil
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func runDocsSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadIngestConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSync(); err != nil {
		return err
	}

	logger := newLogger()
	_, _, _, syncer, err := newIngestPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	jobID, err := syncer.Sync(cmd.Context(), "Manual sync requested from the CLI")
	if err != nil {
		return err
	}
	if jobID == "" {
		fmt.Println("Sync disabled, dry run only.")
		return nil
	}
	fmt.Printf("Knowledge-base sync started (job %s).\n", jobID)
	return nil
}
