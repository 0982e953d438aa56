package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/upload"
)

var statusCmd = &cobra.Command{
	Use:   "status <document-id>",
	Short: "Show the processing status of an uploaded document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		status(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolP("wait", "w", false, "keep polling until processing is over")
}

func status(cmd *cobra.Command, arg string) {
	env := mustEnvironment()
	env.requireLogin()

	id, err := parseID(arg)
	if err != nil {
		env.logger.Fatal("parsing the document id", zap.Error(err))
	}

	if !flagBool(cmd, "wait") {
		st, err := env.client.DocumentStatus(cmd.Context(), id)
		if err != nil {
			env.fatal("getting the document status", err)
		}

		env.logger.Info("document status",
			zap.Int64("document_id", id),
			zap.String("status", string(st.Canonical())),
			zap.String("detail", st.Detail()),
		)
		return
	}

	poller := upload.NewPoller(env.client, upload.PollConfig{
		Interval: env.config.PollInterval,
		MaxPolls: env.config.MaxPolls,
	}, env.logger)

	var last upload.ProgressEvent
	final := poller.Poll(cmd.Context(), id, func(ev upload.ProgressEvent) { last = ev })

	switch final {
	case upload.StateCancelled:
		env.logger.Info("stopped waiting", zap.Int64("document_id", id))
	case upload.StateFailed:
		env.fatal("document processing failed", last.Err)
	default:
		env.logger.Info("document is ready", zap.Int64("document_id", id))
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: a positive number expected", arg)
	}
	return id, nil
}
