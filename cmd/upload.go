package cmd

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/precheck"
	"github.com/spigell/cvmatch/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document and wait until the backend has processed it",
	Long: `Upload a CV or another document and follow its processing.

The file is checked locally first (size, extension and content). Press Ctrl-C
to cancel: the transfer or the status polling stops immediately.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runUpload(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringP("type", "t", string(backend.DocumentTypeCV), "document type: cv or other")
	uploadCmd.Flags().StringSlice("skip-check", nil, "local checks to skip (not_empty, max_size, extension, content)")
	uploadCmd.Flags().Bool("dry-run", false, "only run the local checks")
	uploadCmd.Flags().Duration("poll-interval", 0, "delay between status requests (overrides the config)")
	uploadCmd.Flags().Int("max-polls", 0, "give up after that many status requests, 0 means never (overrides the config)")
}

func runUpload(cmd *cobra.Command, path string) {
	env := mustEnvironment()

	documentType, err := backend.ParseDocumentType(flagString(cmd, "type"))
	if err != nil {
		env.logger.Fatal("parsing the document type", zap.Error(err))
	}

	file, err := upload.FileFromPath(path)
	if err != nil {
		env.logger.Fatal("reading the document", zap.Error(err))
	}

	checks := precheck.Default(precheck.Config{
		MaxSize:           env.config.Upload.MaxSize,
		AllowedExtensions: env.config.Upload.AllowedExtensions,
	})

	skipped, _ := cmd.Flags().GetStringSlice("skip-check")
	for _, name := range skipped {
		if !precheck.DisableByName(checks, name, "skipped from command line") {
			env.logger.Warn("unknown check", zap.String("name", name))
		}
	}

	if err := precheck.Run(env.logger, checks, file); err != nil {
		env.logger.Fatal("document cannot be uploaded", zap.Error(err))
	}

	if flagBool(cmd, "dry-run") {
		for _, status := range precheck.Describe(checks) {
			env.logger.Info("check",
				zap.String("name", status.Name),
				zap.Bool("enabled", status.Enabled),
				zap.String("reason", status.Reason),
				zap.Any("details", status.Details),
			)
		}
		env.logger.Info("local checks passed", zap.String("file_name", file.Name), zap.String("content_type", file.ContentType))
		return
	}

	env.requireLogin()

	pollConfig := upload.PollConfig{
		Interval: env.config.PollInterval,
		MaxPolls: env.config.MaxPolls,
	}
	if cmd.Flags().Changed("poll-interval") {
		pollConfig.Interval, _ = cmd.Flags().GetDuration("poll-interval")
	}
	if cmd.Flags().Changed("max-polls") {
		pollConfig.MaxPolls, _ = cmd.Flags().GetInt("max-polls")
	}

	tracker := upload.NewTracker(upload.NewUploader(env.client, pollConfig, env.logger))
	defer tracker.Cancel()

	task := tracker.Start(cmd.Context(), file, documentType)

	for ev := range task.Events() {
		logEvent(env.logger, file, ev)
	}

	result, err := task.Wait(context.Background())
	if err != nil {
		var uploadErr *upload.UploadError
		if errors.As(err, &uploadErr) {
			env.fatal("upload failed", uploadErr)
		}
		env.fatal("waiting for the upload", err)
	}

	switch result.State {
	case upload.StateCancelled:
		fields := []zap.Field{zap.String("file_name", file.Name)}
		if result.DocumentID > 0 {
			fields = append(fields,
				zap.Int64("document_id", result.DocumentID),
				zap.String("hint", "the document was stored; check it later with '"+app+" status "+strconv.FormatInt(result.DocumentID, 10)+"'"),
			)
		}
		env.logger.Info("upload cancelled", fields...)
	case upload.StateFailed:
		env.fatal("document processing failed", result.Err)
	case upload.StateCompleted:
		env.logger.Info("document is ready",
			zap.Int64("document_id", result.DocumentID),
			zap.String("message", result.Message),
		)
	}
}

func logEvent(log *zap.Logger, file upload.File, ev upload.ProgressEvent) {
	switch ev.State {
	case upload.StateUploading:
		log.Info("uploading", zap.String("file_name", file.Name), zap.Int64("size", file.Size))
	case upload.StateProcessing:
		log.Info("uploaded, processing", zap.Int64("document_id", ev.DocumentID))
	case upload.StateCompleted:
		log.Debug("processing completed", zap.Int64("document_id", ev.DocumentID))
	case upload.StateFailed:
		log.Debug("processing failed", zap.Int64("document_id", ev.DocumentID), zap.Error(ev.Err))
	}
}
