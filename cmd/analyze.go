package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match a CV against a job posting",
	Long: `Ask the backend how well a CV matches a job posting.

The posting is given by --job-url or by the id of a saved URL posting (--job).
Without them, and without --cv, the choice is offered interactively.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("job-url", "", "job posting url")
	analyzeCmd.Flags().Int64("job", 0, "id of a saved job posting")
	analyzeCmd.Flags().Int64("cv", 0, "id of an uploaded CV")
	analyzeCmd.Flags().Bool("raw", false, "print the whole backend answer as json")
}

func analyze(cmd *cobra.Command) {
	env := mustEnvironment()
	env.requireLogin()

	ctx := cmd.Context()

	jobID, _ := cmd.Flags().GetInt64("job")
	jobURL, err := resolveJobURL(ctx, env.client, flagString(cmd, "job-url"), jobID)
	if err != nil {
		env.fatal("choosing a job posting", err)
	}

	cvID, _ := cmd.Flags().GetInt64("cv")
	cvID, err = resolveCV(ctx, env.client, cvID)
	if err != nil {
		env.fatal("choosing a cv", err)
	}

	env.logger.Info("analyzing", zap.String("job_url", jobURL), zap.Int64("cv_id", cvID))

	analysis, err := env.client.AnalyzeJob(ctx, jobURL, cvID)
	if err != nil {
		env.fatal("analyzing the job posting", err)
	}

	if flagBool(cmd, "raw") {
		// do not bother error since the payload came from json
		pretty, _ := json.MarshalIndent(analysis.Raw, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
		return
	}

	for _, match := range analysis.Matches {
		env.logger.Info("match", zap.String("requirement", match))
	}
	for _, gap := range analysis.Opportunities {
		env.logger.Info("not in cv", zap.String("requirement", gap))
	}
	if len(analysis.MissingKeywords) > 0 {
		env.logger.Info("missing keywords", zap.Strings("keywords", analysis.MissingKeywords))
	}

	env.logger.Info("analysis completed",
		zap.Float64("match_score", analysis.MatchScore),
		zap.Int("matches", len(analysis.Matches)),
		zap.Int("opportunities", len(analysis.Opportunities)),
	)
}

type jobLister interface {
	JobResources(ctx context.Context) ([]*backend.JobResource, error)
}

type documentLister interface {
	Documents(ctx context.Context) ([]*backend.Document, error)
}

// resolveJobURL returns the explicit url, the url of the saved posting with
// the given id, or asks which saved url posting to use.
func resolveJobURL(ctx context.Context, client jobLister, jobURL string, jobID int64) (string, error) {
	if jobURL = strings.TrimSpace(jobURL); jobURL != "" {
		return jobURL, nil
	}

	jobs, err := client.JobResources(ctx)
	if err != nil {
		return "", err
	}

	urls := make([]*backend.JobResource, 0, len(jobs))
	for _, job := range jobs {
		if job.Type == backend.JobResourceURL {
			urls = append(urls, job)
		}
	}

	if jobID > 0 {
		for _, job := range jobs {
			if job.ID != jobID {
				continue
			}
			if job.Type != backend.JobResourceURL {
				return "", fmt.Errorf("job posting %d was saved from a file, only url postings can be analyzed", jobID)
			}
			return job.Content, nil
		}
		return "", fmt.Errorf("there is no such job posting id %d", jobID)
	}

	if len(urls) == 0 {
		return "", errors.New("no saved url postings, pass --job-url or run 'jobs add-url' first")
	}

	items := make([]string, 0, len(urls))
	for _, job := range urls {
		items = append(items, fmt.Sprintf("%d %s", job.ID, job.Content))
	}

	index, err := choose("Choose a job posting and press ENTER", items)
	if err != nil {
		return "", err
	}

	return urls[index].Content, nil
}

// resolveCV returns cvID when set, the only uploaded CV, or asks which one to use.
func resolveCV(ctx context.Context, client documentLister, cvID int64) (int64, error) {
	if cvID > 0 {
		return cvID, nil
	}

	docs, err := client.Documents(ctx)
	if err != nil {
		return 0, err
	}

	cvs := make([]*backend.Document, 0, len(docs))
	for _, doc := range docs {
		if kind, err := backend.ParseDocumentType(doc.Kind()); err == nil && kind == backend.DocumentTypeCV {
			cvs = append(cvs, doc)
		}
	}

	switch len(cvs) {
	case 0:
		return 0, errors.New("no uploaded cv, run 'upload' first")
	case 1:
		return cvs[0].ID, nil
	}

	items := make([]string, 0, len(cvs))
	for _, doc := range cvs {
		items = append(items, fmt.Sprintf("%d %s / %s", doc.ID, doc.Name(), doc.CreatedAt))
	}

	index, err := choose("Choose a CV and press ENTER", items)
	if err != nil {
		return 0, err
	}

	return cvs[index].ID, nil
}

func choose(label string, items []string) (int, error) {
	if !interactive() {
		return 0, fmt.Errorf("%w: %d candidates, pass the id explicitly", errNotInteractive, len(items))
	}

	prompt := promptui.Select{
		Label: label,
		Items: items,
	}

	index, _, err := prompt.Run()
	return index, err
}
