package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/precheck"
	"github.com/spigell/cvmatch/internal/upload"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List job postings saved for matching",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		listJobs(cmd)
	},
}

var jobsAddURLCmd = &cobra.Command{
	Use:   "add-url <url>",
	Short: "Save a job posting by its URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env := mustEnvironment()
		env.requireLogin()

		job, err := env.client.AddJobURL(cmd.Context(), args[0])
		if err != nil {
			env.fatal("saving the job posting", err)
		}

		logJob(env.logger, "job posting saved", job)
	},
}

var jobsAddFileCmd = &cobra.Command{
	Use:   "add-file <file>",
	Short: "Save a job posting from a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addJobFile(cmd, args[0])
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a saved job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteJob(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsAddURLCmd, jobsAddFileCmd, jobsDeleteCmd)

	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func listJobs(cmd *cobra.Command) {
	env := mustEnvironment()
	env.requireLogin()

	jobs, err := env.client.JobResources(cmd.Context())
	if err != nil {
		env.fatal("getting job postings", err)
	}

	for _, job := range jobs {
		logJob(env.logger, "job posting", job)
	}

	env.logger.Info("job postings", zap.Int("count", len(jobs)))
}

func addJobFile(cmd *cobra.Command, path string) {
	env := mustEnvironment()
	env.requireLogin()

	file, err := upload.FileFromPath(path)
	if err != nil {
		env.logger.Fatal("reading the document", zap.Error(err))
	}

	checks := precheck.Default(precheck.Config{
		MaxSize:           env.config.Upload.MaxSize,
		AllowedExtensions: env.config.Upload.AllowedExtensions,
	})
	if err := precheck.Run(env.logger, checks, file); err != nil {
		env.logger.Fatal("document cannot be uploaded", zap.Error(err))
	}

	content, err := file.Open()
	if err != nil {
		env.logger.Fatal("reading the document", zap.Error(err))
	}
	defer content.Close()

	job, err := env.client.AddJobDocument(cmd.Context(), backend.JobDocument{
		FileName:    file.Name,
		ContentType: file.ContentType,
		Content:     content,
	})
	if err != nil {
		env.fatal("saving the job posting", err)
	}

	logJob(env.logger, "job posting saved", job)
}

func deleteJob(cmd *cobra.Command, arg string) {
	env := mustEnvironment()
	env.requireLogin()

	id, err := parseID(arg)
	if err != nil {
		env.logger.Fatal("parsing the job id", zap.Error(err))
	}

	ok, err := confirm(fmt.Sprintf("Delete job posting %d?", id), flagBool(cmd, "yes"))
	if err != nil {
		env.logger.Fatal("exiting", zap.Error(err))
	}
	if !ok {
		env.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	if err := env.client.DeleteJobResource(cmd.Context(), id); err != nil {
		env.fatal("deleting the job posting", err)
	}

	env.logger.Info("job posting deleted", zap.Int64("job_id", id))
}

func logJob(log *zap.Logger, msg string, job *backend.JobResource) {
	log.Info(msg,
		zap.Int64("job_id", job.ID),
		zap.String("type", job.Type),
		zap.String("content", job.Content),
		zap.String("created_at", job.CreatedAt),
	)
}
